package repository

import (
	"context"

	"portfolio/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const historyLimit = 50

type ExportsRepo struct {
	pool *pgxpool.Pool
}

func NewExportsRepo(pool *pgxpool.Pool) *ExportsRepo {
	return &ExportsRepo{pool: pool}
}

// Save upserts the record by id. Without a pool it does nothing.
func (r *ExportsRepo) Save(ctx context.Context, rec *domain.ExportRecord) error {
	if r == nil || r.pool == nil || rec == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO resume_exports (id, target_element_id, file_name, status, error_kind, error_message, artifact_path, artifact_size, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, error_kind = EXCLUDED.error_kind, error_message = EXCLUDED.error_message, artifact_path = EXCLUDED.artifact_path, artifact_size = EXCLUDED.artifact_size, finished_at = EXCLUDED.finished_at`,
		rec.ID, rec.TargetElementID, rec.Filename, rec.Status, rec.ErrorKind, rec.ErrorMessage, rec.ArtifactPath, rec.ArtifactSize, rec.StartedAt, rec.FinishedAt)
	return err
}

// Recent returns the latest records, newest first.
func (r *ExportsRepo) Recent(ctx context.Context, limit int) ([]domain.ExportRecord, error) {
	if r == nil || r.pool == nil {
		return nil, nil
	}
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	rows, err := r.pool.Query(ctx, `SELECT id, target_element_id, file_name, status, error_kind, error_message, artifact_path, artifact_size, started_at, finished_at
		FROM resume_exports ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]domain.ExportRecord, error) {
	var out []domain.ExportRecord
	for rows.Next() {
		var rec domain.ExportRecord
		if err := rows.Scan(&rec.ID, &rec.TargetElementID, &rec.Filename, &rec.Status, &rec.ErrorKind, &rec.ErrorMessage,
			&rec.ArtifactPath, &rec.ArtifactSize, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
