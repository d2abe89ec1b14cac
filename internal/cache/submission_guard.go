package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultSubmissionTTL = 24 * time.Hour
	submissionKeyPrefix  = "mpi-submission||"
	pendingMarker        = "__pending__"
)

var ErrSubmissionInProgress = errors.New("submission in progress")

// SubmissionGuard remembers idempotency keys in redis so a logical submission
// is scored at most once. A key is first claimed with a pending marker, then
// replaced by the final response once scoring succeeds. Claims are scoped to
// the session, so reusing a key for another session never replays a response
// that belongs to a different session.
type SubmissionGuard struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSubmissionGuard(redisClient *redis.Client, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = DefaultSubmissionTTL
	}
	return &SubmissionGuard{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func submissionKey(userID, sessionID, idempotencyKey string) string {
	return submissionKeyPrefix + userID + "||" + sessionID + "||" + idempotencyKey
}

// Claim returns (nil, nil) when the caller now owns the key and must score the
// session. For a completed submission the stored response is returned; for one
// still running, ErrSubmissionInProgress.
func (g *SubmissionGuard) Claim(ctx context.Context, userID, sessionID, idempotencyKey string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.submission.claim")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.String("session.id", sessionID))

	key := submissionKey(userID, sessionID, idempotencyKey)
	claimed, err := g.redisClient.SetNX(ctx, key, pendingMarker, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claim submission: %w", err)
	}
	span.SetAttributes(attribute.Bool("submission.claimed", claimed))
	if claimed {
		return nil, nil
	}

	stored, err := g.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired or released between SETNX and GET; the client may retry
		return nil, ErrSubmissionInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if string(stored) == pendingMarker {
		return nil, ErrSubmissionInProgress
	}
	return stored, nil
}

func (g *SubmissionGuard) Complete(ctx context.Context, userID, sessionID, idempotencyKey string, response []byte) error {
	if err := g.redisClient.Set(ctx, submissionKey(userID, sessionID, idempotencyKey), response, g.ttl).Err(); err != nil {
		return fmt.Errorf("complete submission: %w", err)
	}
	return nil
}

// Release drops a claim after a failed submission so it can be retried.
func (g *SubmissionGuard) Release(ctx context.Context, userID, sessionID, idempotencyKey string) error {
	if err := g.redisClient.Del(ctx, submissionKey(userID, sessionID, idempotencyKey)).Err(); err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}
