package students

import (
	"context"
	"strings"
	"sync"

	"dropwatch/internal/common"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	students map[int]*Student
	nextID   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{students: make(map[int]*Student), nextID: 1}
}

func (r *MemoryRepository) Create(_ context.Context, student *Student) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *student
	clone.ID = r.nextID
	r.nextID++
	r.students[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Student, 0, len(r.students))
	for id := 1; id < r.nextID; id++ {
		if s, ok := r.students[id]; ok {
			clone := *s
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if strings.EqualFold(s.Email, email) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) UpdateRiskLabel(_ context.Context, id int, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return common.ErrNotFound
	}
	s.RiskLabel = &label
	return nil
}
