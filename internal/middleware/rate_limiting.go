package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/auth"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/metrics"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=rate_limiting_mocks_test.go -package=middleware_test

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit limits requests per authenticated user (falling back to the client
// ip) under routerName. Must run after the auth middleware.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				ip, err := pkg.ReadUserIP(r)
				if err != nil {
					ip = r.RemoteAddr
				}
				subject = "ip:" + ip
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				routerName+"||"+subject,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limit [%s]: %s", routerName, err)
				pkg.WriteJSONErrorResponse(w, http.StatusInternalServerError, "rate limit internal error")
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			pkg.WriteJSONErrorResponse(
				w,
				http.StatusTooManyRequests,
				fmt.Sprintf("retry after %.1f seconds", res.RetryAfter.Seconds()),
			)
		})
	}
}
