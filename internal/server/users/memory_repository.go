package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"dropwatch/internal/common"
)

// MemoryRepository keeps users in a map guarded by a mutex. Emails are
// unique, matched case-insensitively.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[int]*User
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int]*User), nextID: 1}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrAlreadyExists
		}
	}

	clone := *user
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.nextID++
	r.users[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) List(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*User, 0, len(r.users))
	for id := 1; id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			clone := *u
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id int, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}
