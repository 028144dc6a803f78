package db

import (
	"context"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sujalbistaa/inkpost/internal/models"
)

type cachedUser struct {
	user      models.User
	expiresAt time.Time
}

// CachedUserRepository fronts id lookups with a bounded LRU. Entries expire
// after ttl and are dropped whenever the user is written through Update.
type CachedUserRepository struct {
	*UserRepository
	cache *lru.Cache[string, cachedUser]
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedUserRepository(repo *UserRepository, size int, ttl time.Duration) *CachedUserRepository {
	cache, err := lru.New[string, cachedUser](size)
	if err != nil {
		log.Printf("WARNING: Failed to create user cache of size %d: %v", size, err)
		cache, _ = lru.New[string, cachedUser](1)
	}
	return &CachedUserRepository{
		UserRepository: repo,
		cache:          cache,
		ttl:            ttl,
		now:            time.Now,
	}
}

// GetByID returns a copy, so callers may modify the result freely.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := r.lookup(id); ok {
		return u, nil
	}

	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(user)
	return user, nil
}

func (r *CachedUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	found := make(map[string]*models.User, len(ids))
	var missing []string
	for _, id := range ids {
		if u, ok := r.lookup(id); ok {
			found[id] = u
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := r.UserRepository.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, u := range loaded {
		r.store(u)
		found[id] = u
	}
	return found, nil
}

// Update evicts only once the write has landed; a concurrent GetByID that
// runs mid-write would otherwise re-cache the old row.
func (r *CachedUserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.UserRepository.Update(ctx, user)
	r.cache.Remove(user.ID)
	return err
}

func (r *CachedUserRepository) lookup(id string) (*models.User, bool) {
	entry, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	if r.now().After(entry.expiresAt) {
		r.cache.Remove(id)
		return nil, false
	}
	u := entry.user
	return &u, true
}

func (r *CachedUserRepository) store(u *models.User) {
	r.cache.Add(u.ID, cachedUser{user: *u, expiresAt: r.now().Add(r.ttl)})
}
