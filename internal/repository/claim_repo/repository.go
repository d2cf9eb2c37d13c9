package claim_repo

import (
	"context"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lottery:settle:"

type repo struct {
	rdb   *redis.Client
	owner string
	ttl   time.Duration
}

// NewRoundLocker - захват раундов через SET NX, общий для всех реплик.
// ttl не меньше длины раунда, чтобы повторная попытка была возможна только на следующей границе
func NewRoundLocker(rdb *redis.Client, owner string, ttl time.Duration) repository.RoundLocker {
	return &repo{
		rdb:   rdb,
		owner: owner,
		ttl:   ttl,
	}
}

func lockKey(key model.RoundKey) string {
	return keyPrefix + key.RoundID()
}

func (r *repo) Acquire(ctx context.Context, key model.RoundKey) (bool, error) {
	const op = "claim_repo.Acquire"

	ok, err := r.rdb.SetNX(ctx, lockKey(key), r.owner, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Release - снимает захват, только если он принадлежит этому процессу
func (r *repo) Release(ctx context.Context, key model.RoundKey) error {
	const op = "claim_repo.Release"

	owner, err := r.rdb.Get(ctx, lockKey(key)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if owner != r.owner {
		return nil
	}

	if err := r.rdb.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
