package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool tuning for this workload. Stops and purchases hold row locks
// only briefly, so a modest pool keeps lock queues short; connections
// are recycled well under typical load-balancer idle cutoffs.
const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 20 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Connect opens the MySQL pool for the mobility store and verifies it
// with a bounded ping. parseTime maps the DATETIME columns (start and
// stop times, session creation) onto time.Time, and loc=UTC keeps
// every stored timestamp in one zone regardless of server locale.
func Connect(user, pass, host, port, name string) (*sql.DB, error) {
	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
