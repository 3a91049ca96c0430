package repository

import (
	"context"
	"database/sql"

	"github.com/ecomove/ecomove/internal/model"
)

// QuartierRepo reads and replaces the fixed city-district reference
// rows.
type QuartierRepo struct{ DB *sql.DB }

func NewQuartierRepo(db *sql.DB) *QuartierRepo { return &QuartierRepo{DB: db} }

// List returns all districts ordered ascending by their stored rank,
// with insertion order (id) as the stable tie-break.
func (r *QuartierRepo) List(ctx context.Context) ([]model.Quartier, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, co2_saved_kg, `rank` FROM quartiers ORDER BY `rank` ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Quartier, 0)
	for rows.Next() {
		var q model.Quartier
		if err := rows.Scan(&q.ID, &q.Name, &q.CO2SavedKg, &q.Rank); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ReplaceAll wipes and reinstalls the district table.
func (r *QuartierRepo) ReplaceAll(ctx context.Context, quartiers []model.Quartier) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM quartiers"); err != nil {
		return err
	}
	if err := upsertQuartiersTx(ctx, tx, quartiers); err != nil {
		return err
	}
	return tx.Commit()
}

// Upsert inserts or updates district rows. Used by the bulk seed.
func (r *QuartierRepo) Upsert(ctx context.Context, quartiers []model.Quartier) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := upsertQuartiersTx(ctx, tx, quartiers); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertQuartiersTx(ctx context.Context, tx *sql.Tx, quartiers []model.Quartier) error {
	for _, q := range quartiers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO quartiers (id, name, co2_saved_kg, `rank`) VALUES (?,?,?,?) "+
				"ON DUPLICATE KEY UPDATE name=VALUES(name), co2_saved_kg=VALUES(co2_saved_kg), `rank`=VALUES(`rank`)",
			q.ID, q.Name, q.CO2SavedKg, q.Rank); err != nil {
			return err
		}
	}
	return nil
}
