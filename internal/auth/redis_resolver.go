package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/cache"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTokenCacheTTL = 30 * time.Second
	sessionKeyPrefix     = "mpi-session||"
	cacheKeyPrefix       = "token||"
)

// RedisResolver looks opaque session tokens up in redis, where the login flow
// stores them as <prefix><token> -> user id. Hits are kept in a local cache
// for a short while, so revoking a token takes up to cacheTTL to apply.
type RedisResolver struct {
	redisClient *redis.Client
	cache       cache.Cache
	cacheTTL    time.Duration
}

func NewRedisResolver(redisClient *redis.Client, localCache cache.Cache, cacheTTL time.Duration) *RedisResolver {
	if cacheTTL <= 0 {
		cacheTTL = DefaultTokenCacheTTL
	}
	return &RedisResolver{
		redisClient: redisClient,
		cache:       localCache,
		cacheTTL:    cacheTTL,
	}
}

func (r *RedisResolver) ResolveUser(ctx context.Context, credential string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.redis.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if credential == "" {
		return "", ErrUnauthorized
	}

	cacheKey := cacheKeyPrefix + credential
	if r.cache != nil {
		if userID, found := r.cache.Get(cacheKey); found {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return pkg.BytesToString(userID), nil
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	userID, err := r.redisClient.Get(ctx, sessionKeyPrefix+credential).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if userID == "" {
		return "", ErrUnauthorized
	}

	if r.cache != nil {
		if err := r.cache.Set(cacheKey, []byte(userID), r.cacheTTL); err != nil {
			log.Warnf("cache resolved token: %s", err)
		}
	}
	return userID, nil
}
