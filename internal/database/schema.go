package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements is applied in order at startup. Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) and intentionally free of
// external migration tooling to keep deploys reliable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           CHAR(36)     NOT NULL,
		display_name VARCHAR(190) NOT NULL,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS auth_sessions (
		id           CHAR(36)     NOT NULL,
		kind         VARCHAR(16)  NOT NULL,
		user_id      CHAR(36)     NULL,
		display_name VARCHAR(190) NULL,
		challenge    VARCHAR(128) NOT NULL,
		consumed     TINYINT(1)   NOT NULL DEFAULT 0,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tokens (
		token_hash CHAR(64)  NOT NULL,
		user_id    CHAR(36)  NOT NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (token_hash),
		KEY idx_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS economy_states (
		user_id        CHAR(36)     NOT NULL,
		score          BIGINT       NOT NULL DEFAULT 0,
		streak_days    INT          NOT NULL DEFAULT 0,
		today_walk_km  DOUBLE       NOT NULL DEFAULT 0,
		today_pt_trips INT          NOT NULL DEFAULT 0,
		today_car_km   DOUBLE       NOT NULL DEFAULT 0,
		mood           VARCHAR(16)  NOT NULL DEFAULT 'neutral',
		activity_mode  VARCHAR(16)  NOT NULL DEFAULT 'idle',
		accessories    TEXT         NOT NULL,
		coins          BIGINT       NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id),
		CONSTRAINT fk_economy_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS activities (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id          CHAR(36)        NOT NULL,
		activity_type    VARCHAR(16)     NOT NULL,
		state            VARCHAR(16)     NOT NULL DEFAULT 'running',
		start_time       DATETIME        NOT NULL,
		stop_time        DATETIME        NULL,
		duration_seconds BIGINT          NOT NULL DEFAULT 0,
		distance_meters  BIGINT          NOT NULL DEFAULT 0,
		xp_earned        BIGINT          NOT NULL DEFAULT 0,
		co2_saved_kg     DOUBLE          NOT NULL DEFAULT 0,
		gpx              MEDIUMTEXT      NULL,
		proofs           TEXT            NULL,
		PRIMARY KEY (id),
		KEY idx_activities_user_start (user_id, start_time),
		CONSTRAINT fk_activity_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS shop_items (
		id          VARCHAR(64)  NOT NULL,
		name        VARCHAR(190) NOT NULL,
		price_coins BIGINT       NOT NULL,
		category    VARCHAR(32)  NOT NULL,
		asset_path  VARCHAR(255) NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ownerships (
		user_id CHAR(36)    NOT NULL,
		item_id VARCHAR(64) NOT NULL,
		PRIMARY KEY (user_id, item_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"CREATE TABLE IF NOT EXISTS quartiers (" +
		"id BIGINT UNSIGNED NOT NULL, " +
		"name VARCHAR(190) NOT NULL, " +
		"co2_saved_kg DOUBLE NOT NULL DEFAULT 0, " +
		"`rank` INT NOT NULL DEFAULT 0, " +
		"PRIMARY KEY (id)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",

	`CREATE TABLE IF NOT EXISTS friends (
		user_id   CHAR(36) NOT NULL,
		friend_id CHAR(36) NOT NULL,
		PRIMARY KEY (user_id, friend_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Bootstrap applies the schema and seeds the reference catalogs when
// they are empty. Safe to run on every start.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := seedIfEmpty(ctx, db); err != nil {
		return fmt.Errorf("seed catalogs: %w", err)
	}
	return nil
}

func seedIfEmpty(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shop_items").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, it := range DefaultShopItems {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO shop_items (id, name, price_coins, category, asset_path) VALUES (?,?,?,?,?)",
				it.ID, it.Name, it.PriceCoins, it.Category, it.AssetPath); err != nil {
				return err
			}
		}
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quartiers").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, q := range DefaultQuartiers {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO quartiers (id, name, co2_saved_kg, `rank`) VALUES (?,?,?,?)",
				q.ID, q.Name, q.CO2SavedKg, q.Rank); err != nil {
				return err
			}
		}
	}
	return nil
}
