package store

import (
	"context"
	"sort"
	"sync"

	"vouch/internal/claim/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
)

// InMemory is a map-backed claim store for tests and single-node development.
type InMemory struct {
	mu     sync.RWMutex
	claims map[id.ClaimID]*models.Claim
}

func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[id.ClaimID]*models.Claim)}
}

func (s *InMemory) Create(_ context.Context, c *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[c.ID]; ok {
		return sentinel.ErrConflict
	}
	s.claims[c.ID] = cloneClaim(c)
	return nil
}

func (s *InMemory) Get(_ context.Context, claimID id.ClaimID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[claimID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneClaim(c), nil
}

// GetForUpdate matches the locking store surface. The per-claim mutex
// runner already serializes in-memory mutations, so this is a plain read.
func (s *InMemory) GetForUpdate(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	return s.Get(ctx, claimID)
}

func (s *InMemory) Update(_ context.Context, c *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.claims[c.ID] = cloneClaim(c)
	return nil
}

func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.UserID) ([]*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Claim
	for _, c := range s.claims {
		if c.CandidateID == candidateID {
			out = append(out, cloneClaim(c))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.ClaimStatus) ([]*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Claim
	for _, c := range s.claims {
		if c.Status == status {
			out = append(out, cloneClaim(c))
		}
	}
	sortByCreation(out)
	return out, nil
}

func sortByCreation(claims []*models.Claim) {
	sort.Slice(claims, func(i, j int) bool {
		if claims[i].CreatedAt.Equal(claims[j].CreatedAt) {
			return claims[i].ID.String() < claims[j].ID.String()
		}
		return claims[i].CreatedAt.Before(claims[j].CreatedAt)
	})
}

// cloneClaim copies the aggregate so callers cannot mutate stored state.
func cloneClaim(c *models.Claim) *models.Claim {
	cp := *c
	if c.SkillTags != nil {
		cp.SkillTags = append([]string(nil), c.SkillTags...)
	}
	if c.CredibilityScore != nil {
		v := *c.CredibilityScore
		cp.CredibilityScore = &v
	}
	if c.CredibilityBreakdown != nil {
		cp.CredibilityBreakdown = append([]models.ScoreBreakdown(nil), c.CredibilityBreakdown...)
	}
	return &cp
}
