package usecase

import (
	"context"
	"time"

	"portfolio-backend/pkg/redis"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	notifierName func() string
	redisCheck   func(ctx context.Context) error
	redisEnabled bool
}

// NewHealthUsecase reports the active notifier and rate limit store.
// redisEnabled is whether REDIS_URL was configured.
func NewHealthUsecase(contactUC interface{ NotifierName() string }, redisEnabled bool) HealthUsecase {
	return &healthUsecase{
		notifierName: contactUC.NotifierName,
		redisCheck:   redis.HealthCheck,
		redisEnabled: redisEnabled,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	out := map[string]string{
		"status":           "ok",
		"notifier":         u.notifierName(),
		"rate_limit_store": "memory",
	}
	if !u.redisEnabled {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := u.redisCheck(ctx); err != nil {
		out["rate_limit_store"] = "memory (redis unavailable)"
	} else {
		out["rate_limit_store"] = "redis"
	}
	return out
}
