package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/metrics"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500 JSON error. The panic is
// recorded on the request span and counted.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				// the server has to abort the connection for this one
				if r == http.ErrAbortHandler {
					panic(r)
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"route":  routeTemplate(req),
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())

				span := trace.SpanFromContext(req.Context())
				span.RecordError(fmt.Errorf("panic: %v", r))
				span.SetStatus(codes.Error, "panic")

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSONErrorResponse(respWriter, http.StatusInternalServerError, "internal error")
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
