package store

import (
	"context"
	"sort"
	"sync"

	"vouch/internal/dispute/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
)

// InMemory is a map-backed dispute store for tests and single-node
// development.
type InMemory struct {
	mu       sync.RWMutex
	disputes map[id.DisputeID]*models.Dispute
}

func NewInMemory() *InMemory {
	return &InMemory{disputes: make(map[id.DisputeID]*models.Dispute)}
}

func (s *InMemory) Create(_ context.Context, d *models.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disputes[d.ID]; ok {
		return sentinel.ErrConflict
	}
	s.disputes[d.ID] = cloneDispute(d)
	return nil
}

func (s *InMemory) Get(_ context.Context, disputeID id.DisputeID) (*models.Dispute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.disputes[disputeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneDispute(d), nil
}

func (s *InMemory) Update(_ context.Context, d *models.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disputes[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.disputes[d.ID] = cloneDispute(d)
	return nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.DisputeStatus) ([]*models.Dispute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Dispute
	for _, d := range s.disputes {
		if d.Status == status {
			out = append(out, cloneDispute(d))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) ListByClaim(_ context.Context, claimID id.ClaimID) ([]*models.Dispute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Dispute
	for _, d := range s.disputes {
		if d.ClaimID == claimID {
			out = append(out, cloneDispute(d))
		}
	}
	sortByCreation(out)
	return out, nil
}

// HasOpenForClaim reports whether the claim already has a dispute that is
// not yet closed.
func (s *InMemory) HasOpenForClaim(_ context.Context, claimID id.ClaimID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.disputes {
		if d.ClaimID == claimID && !d.Status.Closed() {
			return true, nil
		}
	}
	return false, nil
}

func sortByCreation(disputes []*models.Dispute) {
	sort.Slice(disputes, func(i, j int) bool {
		if disputes[i].CreatedAt.Equal(disputes[j].CreatedAt) {
			return disputes[i].ID.String() < disputes[j].ID.String()
		}
		return disputes[i].CreatedAt.Before(disputes[j].CreatedAt)
	})
}

func cloneDispute(d *models.Dispute) *models.Dispute {
	cp := *d
	if d.ResolvedBy != nil {
		v := *d.ResolvedBy
		cp.ResolvedBy = &v
	}
	if d.ResolvedAt != nil {
		t := *d.ResolvedAt
		cp.ResolvedAt = &t
	}
	return &cp
}
