package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vouch/internal/evidence/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/tx"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const evidenceColumns = `id, claim_id, uploaded_by, file_name, content_type, size_bytes, storage_key, created_at`

func (s *Postgres) Create(ctx context.Context, f *models.EvidenceFile) error {
	q := tx.PickQuerier(ctx, s.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO evidence_files (`+evidenceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.ClaimID, f.UploadedBy, f.FileName, f.ContentType, f.SizeBytes, f.StorageKey, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert evidence file: %w", err)
	}
	return nil
}

func (s *Postgres) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.EvidenceFile, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx, `
		SELECT `+evidenceColumns+` FROM evidence_files
		WHERE claim_id = $1
		ORDER BY created_at, id`, claimID)
	if err != nil {
		return nil, fmt.Errorf("list evidence files: %w", err)
	}
	defer rows.Close()

	var out []*models.EvidenceFile
	for rows.Next() {
		var f models.EvidenceFile
		if err := rows.Scan(&f.ID, &f.ClaimID, &f.UploadedBy, &f.FileName,
			&f.ContentType, &f.SizeBytes, &f.StorageKey, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evidence file: %w", err)
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence files: %w", err)
	}
	return out, nil
}
