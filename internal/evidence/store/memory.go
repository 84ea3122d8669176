package store

import (
	"context"
	"sort"
	"sync"

	"vouch/internal/evidence/models"
	id "vouch/pkg/domain"
)

type InMemory struct {
	mu      sync.RWMutex
	byClaim map[id.ClaimID][]*models.EvidenceFile
}

func NewInMemory() *InMemory {
	return &InMemory{byClaim: make(map[id.ClaimID][]*models.EvidenceFile)}
}

func (s *InMemory) Create(_ context.Context, f *models.EvidenceFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.byClaim[f.ClaimID] = append(s.byClaim[f.ClaimID], &cp)
	return nil
}

func (s *InMemory) ListByClaim(_ context.Context, claimID id.ClaimID) ([]*models.EvidenceFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := s.byClaim[claimID]
	out := make([]*models.EvidenceFile, 0, len(files))
	for _, f := range files {
		cp := *f
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
