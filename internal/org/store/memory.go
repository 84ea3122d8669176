package store

import (
	"context"
	"sort"
	"sync"

	"vouch/internal/org/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
)

type InMemory struct {
	mu   sync.RWMutex
	orgs map[id.OrgID]*models.Organization
}

func NewInMemory() *InMemory {
	return &InMemory{orgs: make(map[id.OrgID]*models.Organization)}
}

func (s *InMemory) Create(_ context.Context, o *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[o.ID]; ok {
		return sentinel.ErrConflict
	}
	s.orgs[o.ID] = cloneOrg(o)
	return nil
}

func (s *InMemory) Get(_ context.Context, orgID id.OrgID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orgs[orgID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneOrg(o), nil
}

func (s *InMemory) Update(_ context.Context, o *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[o.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.orgs[o.ID] = cloneOrg(o)
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		out = append(out, cloneOrg(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func cloneOrg(o *models.Organization) *models.Organization {
	cp := *o
	return &cp
}
