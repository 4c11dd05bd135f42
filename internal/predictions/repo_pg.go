package predictions

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const insertQuery = `
INSERT INTO predictions (id, source, customer_id, churn, created_at)
VALUES ($1, $2, $3, $4, $5)`

// Create inserts one history record.
func (r *PGRepo) Create(ctx context.Context, prediction Prediction) error {
	_, err := r.DB.ExecContext(ctx, insertQuery,
		prediction.ID,
		prediction.Source,
		nullableString(prediction.CustomerID),
		prediction.Churn,
		prediction.CreatedAt,
	)
	return err
}

// CreateBatch inserts a set of history records in one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, predictions []Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range predictions {
		if _, err := tx.ExecContext(ctx, insertQuery,
			p.ID,
			p.Source,
			nullableString(p.CustomerID),
			p.Churn,
			p.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRecent returns up to limit records, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Prediction, error) {
	const query = `
SELECT id, source, customer_id, churn, created_at
FROM predictions
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		var customerID sql.NullString
		if err := rows.Scan(&p.ID, &p.Source, &customerID, &p.Churn, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CustomerID = customerID.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
