package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// CachedRepo keeps users by id in an in-process freecache. Every write
// through it drops the cached entry.
type CachedRepo struct {
	usersRepo
	cache      *freecache.Cache
	ttlSeconds int
}

func NewCachedRepo(repo usersRepo, sizeMB, ttlSeconds int) *CachedRepo {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &CachedRepo{
		usersRepo:  repo,
		cache:      freecache.NewCache(sizeMB * megabyte),
		ttlSeconds: ttlSeconds,
	}
}

func cacheKey(id int) []byte {
	return []byte(fmt.Sprintf("user::%d", id))
}

func (r *CachedRepo) Get(ctx context.Context, id int) (*User, error) {
	if cached, err := r.cache.Get(cacheKey(id)); err == nil {
		var user User
		if err := json.Unmarshal(cached, &user); err == nil {
			log.Tracef("user %d served from cache", id)
			return &user, nil
		}
	}

	user, err := r.usersRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(user)
	return user, nil
}

func (r *CachedRepo) Exists(ctx context.Context, id int) (bool, error) {
	if _, err := r.cache.Get(cacheKey(id)); err == nil {
		return true, nil
	}
	return r.usersRepo.Exists(ctx, id)
}

func (r *CachedRepo) Update(ctx context.Context, user User) (*User, error) {
	r.cache.Del(cacheKey(user.ID))
	updated, err := r.usersRepo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	r.store(updated)
	return updated, nil
}

func (r *CachedRepo) UpdateFitnessLevel(ctx context.Context, id int, level FitnessLevel) (*User, error) {
	r.cache.Del(cacheKey(id))
	updated, err := r.usersRepo.UpdateFitnessLevel(ctx, id, level)
	if err != nil {
		return nil, err
	}
	r.store(updated)
	return updated, nil
}

func (r *CachedRepo) Delete(ctx context.Context, id int) error {
	r.cache.Del(cacheKey(id))
	return r.usersRepo.Delete(ctx, id)
}

func (r *CachedRepo) store(user *User) {
	// PasswordHash is not serialized, cached copies never carry it.
	// Repo.Update keeps the stored hash when given an empty one.
	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("cache user %d: %s", user.ID, err)
		return
	}
	if err := r.cache.Set(cacheKey(user.ID), userJson, r.ttlSeconds); err != nil {
		log.Errorf("cache user %d: %s", user.ID, err)
	}
}
