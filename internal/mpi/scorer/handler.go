package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/auth"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/cache"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/metrics"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=scorer_test

const IdempotencyKeyHeader = "Idempotency-Key"

type sessionScorer interface {
	ScoreSession(ctx context.Context, userID, sessionID string) (*Result, error)
}

type submissionGuard interface {
	Claim(ctx context.Context, userID, sessionID, idempotencyKey string) ([]byte, error)
	Complete(ctx context.Context, userID, sessionID, idempotencyKey string, response []byte) error
	Release(ctx context.Context, userID, sessionID, idempotencyKey string) error
}

type ScoreSessionRequest struct {
	SessionID string `json:"session_id"`
}

type ScoreSessionResponse struct {
	Success          bool                   `json:"success"`
	CompositeIndexes model.CompositeIndexes `json:"compositeIndexes"`
	Flags            int                    `json:"flags"`
}

type Handler struct {
	scorer         sessionScorer
	guard          submissionGuard
	metricsManager *metrics.Manager
}

// NewHandler builds the score handler. A nil guard disables Idempotency-Key
// handling; the header is then ignored.
func NewHandler(scorer sessionScorer, guard submissionGuard, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		scorer:         scorer,
		guard:          guard,
		metricsManager: metricsManager,
	}
}

func (h *Handler) HandleScoreSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.scorer.score")
	defer span.End()

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != pkg.ContentType.JSON {
		span.SetStatus(codes.Error, "invalid-content-type")
		pkg.WriteJSONErrorResponse(w, http.StatusBadRequest, "invalid content type")
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "missing-user")
		pkg.WriteJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ScoreSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("score session, unmarshal json body: %s", err)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			span.SetStatus(codes.Error, "body-too-large")
			pkg.WriteJSONErrorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		span.SetStatus(codes.Error, "invalid-body")
		pkg.WriteJSONErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		span.SetStatus(codes.Error, "missing-session-id")
		pkg.WriteJSONErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if _, err := uuid.Parse(req.SessionID); err != nil {
		span.SetStatus(codes.Error, "invalid-session-id")
		pkg.WriteJSONErrorResponse(w, http.StatusBadRequest, "session_id must be a uuid")
		return
	}
	span.SetAttributes(attribute.String("session.id", req.SessionID))

	idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
	guarded := h.guard != nil && idempotencyKey != ""
	if guarded {
		stored, err := h.guard.Claim(ctx, userID, req.SessionID, idempotencyKey)
		switch {
		case errors.Is(err, cache.ErrSubmissionInProgress):
			span.SetStatus(codes.Error, "submission-in-progress")
			pkg.WriteJSONErrorResponse(w, http.StatusConflict, "submission already in progress")
			return
		case err != nil:
			log.Errorf("score session [%s], claim idempotency key: %s", req.SessionID, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "claim-failed")
			pkg.WriteJSONErrorResponse(w, http.StatusInternalServerError, "internal error")
			return
		case stored != nil:
			log.Debugf("score session [%s]: replaying stored response", req.SessionID)
			if h.metricsManager != nil {
				h.metricsManager.CounterIdempotentReplays.Inc()
			}
			span.SetAttributes(attribute.Bool("idempotent.replay", true))
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stored, http.StatusOK)
			return
		}
	}

	result, err := h.scorer.ScoreSession(ctx, userID, req.SessionID)
	if err != nil {
		if guarded {
			h.releaseClaim(ctx, userID, req.SessionID, idempotencyKey)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "score-failed")
		h.writeScoreError(w, req.SessionID, err)
		return
	}

	resBytes, err := json.Marshal(ScoreSessionResponse{
		Success:          true,
		CompositeIndexes: result.CompositeIndexes,
		Flags:            result.FlagCount,
	})
	if err != nil {
		if guarded {
			h.releaseClaim(ctx, userID, req.SessionID, idempotencyKey)
		}
		log.Errorf("score session [%s], marshal response: %s", req.SessionID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal-failed")
		pkg.WriteJSONErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	if guarded {
		if err := h.guard.Complete(ctx, userID, req.SessionID, idempotencyKey, resBytes); err != nil {
			log.Errorf("score session [%s], store idempotent response: %s", req.SessionID, err)
		}
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resBytes, http.StatusOK)
}

// releaseClaim drops a pending idempotency claim so the client can retry.
func (h *Handler) releaseClaim(ctx context.Context, userID, sessionID, idempotencyKey string) {
	if err := h.guard.Release(ctx, userID, sessionID, idempotencyKey); err != nil {
		log.Errorf("score session [%s], release idempotency key: %s", sessionID, err)
	}
}

func (h *Handler) writeScoreError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		pkg.WriteJSONErrorResponse(w, http.StatusNotFound, ErrSessionNotFound.Error())
	case errors.Is(err, ErrInvalidRequest):
		pkg.WriteJSONErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("score session [%s]: %s", sessionID, err)
		pkg.WriteJSONErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
