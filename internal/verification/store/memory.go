package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"vouch/internal/verification/models"
	id "vouch/pkg/domain"
)

// InMemory keeps the verification ledger in process memory. The ledger is
// append-only: records are never updated or removed.
type InMemory struct {
	mu      sync.RWMutex
	byClaim map[id.ClaimID][]*models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{byClaim: make(map[id.ClaimID][]*models.Record)}
}

func (s *InMemory) Append(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byClaim[rec.ClaimID] = append(s.byClaim[rec.ClaimID], cloneRecord(rec))
	return nil
}

func (s *InMemory) ListByClaim(_ context.Context, claimID id.ClaimID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.byClaim[claimID]
	out := make([]*models.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, cloneRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByClaim(_ context.Context, claimID id.ClaimID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byClaim[claimID]), nil
}

func cloneRecord(r *models.Record) *models.Record {
	cp := *r
	cp.OrgID = clonePtr(r.OrgID)
	cp.VerifiedStartDate = clonePtr(r.VerifiedStartDate)
	cp.VerifiedEndDate = clonePtr(r.VerifiedEndDate)
	cp.ValidUntil = clonePtr(r.ValidUntil)
	return &cp
}

func clonePtr[T id.OrgID | time.Time](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
