package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/auth"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type userResolver interface {
	ResolveUser(ctx context.Context, credential string) (string, error)
}

type AuthMiddlewareHandler struct {
	resolver     userResolver
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(resolver userResolver) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		resolver: resolver,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
		},
	}
}

// bearerToken extracts the credential of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthCheck resolves the bearer credential to a user id and stores it in the
// request context. Liveness paths and preflight requests pass through.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONErrorResponse(w, http.StatusUnauthorized, "missing bearer credential")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.resolver.ResolveUser(ctx, token)
			if errors.Is(err, auth.ErrUnauthorized) {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				pkg.WriteJSONErrorResponse(w, http.StatusUnauthorized, "invalid credential")
				span.SetStatus(codes.Error, "invalid-token")
				return
			}
			if err != nil {
				log.Errorf("[failed auth check] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONErrorResponse(w, http.StatusUnauthorized, "credential could not be verified")
				span.SetStatus(codes.Error, "resolve-user-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
