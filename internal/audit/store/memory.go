package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vouch/internal/audit/models"
)

// Filter narrows the admin trail listing. Zero values match everything.
type Filter struct {
	ActionPrefix string
	EntityType   string
	EntityID     string
	Limit        int
}

const defaultListLimit = 100

// InMemory keeps the trail in process memory, newest first on read.
type InMemory struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Record(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemory) List(_ context.Context, filter Filter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var out []models.Event
	for _, ev := range s.events {
		if filter.ActionPrefix != "" && !strings.HasPrefix(ev.Action, filter.ActionPrefix) {
			continue
		}
		if filter.EntityType != "" && ev.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && ev.EntityID != filter.EntityID {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
