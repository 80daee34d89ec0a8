package counseling

import (
	"context"
	"sync"
)

type Repository interface {
	Create(ctx context.Context, note *Note) error
	ListByStudent(ctx context.Context, studentID int) ([]*Note, error)
}

type MemoryRepository struct {
	mu    sync.RWMutex
	notes []*Note
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, note *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *note
	r.notes = append(r.notes, &clone)
	return nil
}

func (r *MemoryRepository) ListByStudent(_ context.Context, studentID int) ([]*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Note, 0)
	for _, n := range r.notes {
		if n.StudentID == studentID {
			clone := *n
			result = append(result, &clone)
		}
	}
	return result, nil
}
