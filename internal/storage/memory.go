package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/romangod6/sitemapgen/internal/models"
)

// MemoryStore keeps runs in process memory. It backs the "memory" driver
// for one-shot generation where no history is wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]models.GenerationRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[uuid.UUID]models.GenerationRun)}
}

func (s *MemoryStore) Initialize() error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateRun(_ context.Context, run *models.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *MemoryStore) UpdateRun(_ context.Context, run *models.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; !exists {
		return fmt.Errorf("run %s: %w", run.ID, ErrRunNotFound)
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	out := copyRun(&run)
	return &out, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit, offset int) ([]*models.GenerationRun, error) {
	s.mu.RLock()
	all := make([]*models.GenerationRun, 0, len(s.runs))
	for _, run := range s.runs {
		r := copyRun(&run)
		all = append(all, &r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (s *MemoryStore) CountRuns(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs), nil
}

func copyRun(run *models.GenerationRun) models.GenerationRun {
	out := *run
	out.Files = append([]string{}, run.Files...)
	if run.FinishedAt != nil {
		t := *run.FinishedAt
		out.FinishedAt = &t
	}
	return out
}
