package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"vouch/internal/audit/models"
	id "vouch/pkg/domain"
)

// Postgres writes the trail through database/sql. The audit path is
// deliberately isolated from the pgx pool the domain stores share; a busy
// domain pool cannot starve trail writes.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres dials a dedicated connection for the audit trail.
func OpenPostgres(url string) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	db.SetMaxOpenConns(4)
	return &Postgres{db: db}, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) Record(ctx context.Context, event models.Event) error {
	details, err := marshalDetails(event.Details)
	if err != nil {
		return err
	}
	// database/sql needs a driver.Valuer here; the typed domain ID does not
	// carry uuid.UUID's methods. NullUUID also maps an absent actor to NULL.
	actorID := uuid.NullUUID{UUID: uuid.UUID(event.ActorID), Valid: !event.ActorID.IsNil()}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, action, actor_id, actor_role, entity_type, entity_id,
			request_id, client_ip, user_agent, details, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Action, actorID, string(event.ActorRole),
		event.EntityType, event.EntityID, event.RequestID, event.ClientIP,
		event.UserAgent, details, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.Event, error) {
	query := `
		SELECT id, action, actor_id, actor_role, entity_type, entity_id,
			request_id, client_ip, user_agent, details, occurred_at
		FROM audit_events WHERE 1=1`
	var args []any
	if filter.ActionPrefix != "" {
		args = append(args, filter.ActionPrefix+"%")
		query += ` AND action LIKE $` + strconv.Itoa(len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += ` AND entity_type = $` + strconv.Itoa(len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += ` AND entity_id = $` + strconv.Itoa(len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += ` ORDER BY occurred_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var (
			ev      models.Event
			actorID uuid.NullUUID
			role    string
			details []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Action, &actorID, &role,
			&ev.EntityType, &ev.EntityID, &ev.RequestID, &ev.ClientIP,
			&ev.UserAgent, &details, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.ActorID = id.UserID(actorID.UUID)
		ev.ActorRole = id.Role(role)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &ev.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}

func marshalDetails(details map[string]any) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode audit details: %w", err)
	}
	return b, nil
}
