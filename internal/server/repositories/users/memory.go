package users

import (
	"context"
	"sync"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/server/models"
)

// MemoryRepository keeps users in process memory. Used when the backend
// runs without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]*models.User
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName: make(map[string]*models.User),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return nil, ErrDuplicateUsername
	}
	for _, u := range r.byName {
		if u.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}

	r.nextID++
	now := r.now().UTC()
	user.ID = r.nextID
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byName[user.Username] = &stored
	return user, nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byName {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}
