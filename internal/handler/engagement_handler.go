package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/schedule"
)

type Evaluator interface {
	Evaluate(ctx context.Context, userID string, loc *time.Location, candidate domain.Candidate) domain.Decision
}

type EventRunner interface {
	HandleEvent(ctx context.Context, userID string, event domain.Event) (*schedule.PassResult, error)
}

type EngagementHandler struct {
	evaluator       Evaluator
	orchestrator    EventRunner
	states          domain.UserStateRepository
	defaultLocation *time.Location
	now             func() time.Time
}

func NewEngagementHandler(
	evaluator Evaluator,
	orchestrator EventRunner,
	states domain.UserStateRepository,
	defaultLocation *time.Location,
) *EngagementHandler {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}

	return &EngagementHandler{
		evaluator:       evaluator,
		orchestrator:    orchestrator,
		states:          states,
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// HandleEvaluate answers whether a candidate would be admitted right now. The
// pending set is not modified.
func (h *EngagementHandler) HandleEvaluate(c *gin.Context) {
	ctx := c.Request.Context()

	var req EvaluateRequest
	if !bindJSON(c, &req) {
		return
	}

	loc := h.resolveLocation(ctx, req.UserID, req.Timezone)
	decision := h.evaluator.Evaluate(ctx, req.UserID, loc, req.Candidate.toCandidate())

	slog.DebugContext(ctx, "candidate evaluated",
		slog.String("user_id", req.UserID),
		slog.String("candidate_id", req.Candidate.ID),
		slog.Bool("allow", decision.Allow),
		slog.String("reason", decision.Reason.String()),
	)

	c.JSON(http.StatusOK, EvaluateResponse{Decision: decision})
}

func (h *EngagementHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	slog.InfoContext(ctx, "handling engagement event",
		slog.String("user_id", userID),
		slog.String("event", req.Event.String()),
	)

	result, err := h.orchestrator.HandleEvent(ctx, userID, req.Event)
	if err != nil {
		respondServiceError(c, err, "failed to run scheduling pass")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EngagementHandler) HandlePutState(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req UserStateRequest
	if !bindJSON(c, &req) {
		return
	}

	state := req.toUserState(userID, h.now())
	if err := h.states.SaveUserState(ctx, state); err != nil {
		respondServiceError(c, err, "failed to save user state")
		return
	}

	slog.InfoContext(ctx, "user state saved",
		slog.String("user_id", userID),
		slog.String("timezone", state.Timezone),
	)

	c.JSON(http.StatusOK, state)
}

func (h *EngagementHandler) resolveLocation(ctx context.Context, userID, timezone string) *time.Location {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			return loc
		}
	}

	state, err := h.states.GetUserState(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserStateNotFound) {
			slog.WarnContext(ctx, "failed to load user state, using default location",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return h.defaultLocation
	}

	return state.Location(h.defaultLocation)
}
