package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vouch/internal/org/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/platform/tx"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const orgColumns = `id, name, registration_number, contact_email, status, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, o *models.Organization) error {
	q := tx.PickQuerier(ctx, s.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Name, o.RegistrationNumber, o.ContactEmail, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, orgID id.OrgID) (*models.Organization, error) {
	q := tx.PickQuerier(ctx, s.pool)
	return scanOrg(q.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, orgID))
}

func (s *Postgres) Update(ctx context.Context, o *models.Organization) error {
	q := tx.PickQuerier(ctx, s.pool)
	tag, err := q.Exec(ctx, `
		UPDATE organizations SET
			name = $2, registration_number = $3, contact_email = $4,
			status = $5, updated_at = $6
		WHERE id = $1`,
		o.ID, o.Name, o.RegistrationNumber, o.ContactEmail, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Organization, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return out, nil
}

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var (
		o      models.Organization
		status string
	)
	err := row.Scan(&o.ID, &o.Name, &o.RegistrationNumber, &o.ContactEmail, &status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	o.Status = models.OrgStatus(status)
	return &o, nil
}
