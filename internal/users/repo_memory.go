package users

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryRepo keeps the directory keyed by lower-cased username.
type MemoryRepo struct {
	mu         sync.RWMutex
	byUsername map[string]User
	ids        map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byUsername: make(map[string]User),
		ids:        make(map[string]string),
	}
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := usernameKey(user.Username)
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	if prevKey, ok := r.ids[user.ID]; ok && prevKey != key {
		delete(r.byUsername, prevKey)
	}
	user.CreatedAt = now
	if prev, ok := r.byUsername[key]; ok {
		user.CreatedAt = prev.CreatedAt
	}
	user.UpdatedAt = now
	r.byUsername[key] = user
	r.ids[user.ID] = key
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key, ok := r.ids[userID]; ok {
		return r.byUsername[key], nil
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byUsername[usernameKey(username)]; ok {
		return u, nil
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	keys := make([]string, 0, len(r.byUsername))
	for k := range r.byUsername {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]User, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.byUsername[k])
	}
	r.mu.RUnlock()
	return out, nil
}
