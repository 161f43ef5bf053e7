package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/dispatch"
)

type NotificationService interface {
	PendingNotifications(ctx context.Context, userID string) ([]domain.PendingNotification, error)
	Register(ctx context.Context, userID string, req dispatch.RegisterRequest) (domain.Decision, error)
	Remove(ctx context.Context, userID string, ids []string) error
	Delivered(ctx context.Context, userID, id string, firedAt time.Time) (*domain.PendingNotification, error)
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

func (h *NotificationHandler) HandleList(c *gin.Context) {
	userID := c.Param("user_id")

	notifications, err := h.service.PendingNotifications(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "failed to list pending notifications")
		return
	}

	if notifications == nil {
		notifications = []domain.PendingNotification{}
	}

	c.JSON(http.StatusOK, NotificationListResponse{Notifications: notifications})
}

func (h *NotificationHandler) HandleRegister(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req RegisterNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	decision, err := h.service.Register(ctx, userID, dispatch.RegisterRequest{
		ID:       req.ID,
		Title:    req.Title,
		Body:     req.Body,
		Trigger:  req.Trigger.toTrigger(),
		Category: req.Category,
		Priority: req.Priority,
	})
	if errors.Is(err, domain.ErrNotificationRejected) {
		slog.InfoContext(ctx, "notification rejected",
			slog.String("user_id", userID),
			slog.String("notification_id", req.ID),
			slog.String("reason", decision.Reason.String()),
		)
		c.JSON(http.StatusConflict, RegisterNotificationResponse{ID: req.ID, Decision: decision})
		return
	}
	if err != nil {
		respondServiceError(c, err, "failed to register notification")
		return
	}

	slog.InfoContext(ctx, "notification registered",
		slog.String("user_id", userID),
		slog.String("notification_id", req.ID),
		slog.String("reason", decision.Reason.String()),
		slog.Int("removed_count", len(decision.RemoveIDs)),
	)

	c.JSON(http.StatusCreated, RegisterNotificationResponse{ID: req.ID, Decision: decision})
}

func (h *NotificationHandler) HandleCancel(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")
	id := c.Param("notification_id")

	if err := h.service.Remove(ctx, userID, []string{id}); err != nil {
		respondServiceError(c, err, "failed to cancel notification")
		return
	}

	slog.InfoContext(ctx, "notification cancelled",
		slog.String("user_id", userID),
		slog.String("notification_id", id),
	)

	c.Status(http.StatusNoContent)
}

// HandleDelivered acknowledges a delivery callback. Unknown notifications and
// tasks left behind by a reschedule are acknowledged too so the queue does
// not retry them.
func (h *NotificationHandler) HandleDelivered(c *gin.Context) {
	ctx := c.Request.Context()

	var req DeliveredRequest
	if !bindJSON(c, &req) {
		return
	}

	next, err := h.service.Delivered(ctx, req.UserID, req.NotificationID, req.FireAt)
	if errors.Is(err, domain.ErrNotificationNotFound) || errors.Is(err, domain.ErrStaleDelivery) {
		slog.InfoContext(ctx, "delivered notification no longer pending",
			slog.String("user_id", req.UserID),
			slog.String("notification_id", req.NotificationID),
			slog.Time("fire_at", req.FireAt),
		)
		c.JSON(http.StatusOK, DeliveredResponse{Status: "ignored"})
		return
	}
	if err != nil {
		respondServiceError(c, err, "failed to process delivery")
		return
	}

	if next != nil {
		c.JSON(http.StatusOK, DeliveredResponse{Status: "rearmed", Next: next})
		return
	}

	c.JSON(http.StatusOK, DeliveredResponse{Status: "completed"})
}
