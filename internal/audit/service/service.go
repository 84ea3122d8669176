// Package service exposes the audit trail to admins.
package service

import (
	"context"

	"vouch/internal/audit/models"
	"vouch/internal/audit/store"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/requestcontext"
)

// Lister reads recorded events back out of a queryable sink.
type Lister interface {
	List(ctx context.Context, filter store.Filter) ([]models.Event, error)
}

type Service struct {
	events Lister
}

func New(events Lister) *Service {
	return &Service{events: events}
}

// Trail lists recorded events, newest first. Admin only.
func (s *Service) Trail(ctx context.Context, filter store.Filter) ([]models.Event, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !actor.Is(id.RoleAdmin) {
		return nil, dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail")
	}
	return events, nil
}
