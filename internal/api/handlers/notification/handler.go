package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/collabhub/notifications-service/internal/api/dto"
	"github.com/collabhub/notifications-service/internal/api/respond"
	"github.com/collabhub/notifications-service/internal/config"
	"github.com/collabhub/notifications-service/internal/model"
	"github.com/collabhub/notifications-service/internal/repository/notification"
)

// notificationService abstracts the lifecycle operations the HTTP surface
// drives. Authentication is handled upstream; handlers trust the userid they
// are given.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	GetUserNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, strategy retry.Strategy, userID string, id uuid.UUID) error
	DeleteNotification(ctx context.Context, strategy retry.Strategy, userID string, id uuid.UUID) error
	GetUnreadCount(ctx context.Context, strategy retry.Strategy, userID string) (int, error)
}

// Handler handles HTTP requests for the notification lifecycle.
type Handler struct {
	service   notificationService
	validator *validator.Validate
	cfg       *config.Config
}

// NewHandler creates a new Handler instance.
func NewHandler(
	s notificationService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

// List handles GET requests for a user's notifications, newest first.
//
// The endpoint never fails hard: internal failures still respond 200 with
// success=false and an empty list, so clients render an empty inbox instead
// of an error page.
func (h *Handler) List(c *ginext.Context) {
	userID := c.Query("userid")
	if userID == "" {
		zlog.Logger.Warn().Msg("missing userid")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing userid"))
		return
	}

	notifications, err := h.service.GetUserNotifications(c.Request.Context(), userID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to get notifications")
		respond.OK(c.Writer, dto.ListResponse{
			Success:       false,
			Message:       "failed to get notifications",
			Notifications: []dto.NotificationItem{},
		})
		return
	}

	items := make([]dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationItem{
			ID:          n.ID.String(),
			Title:       n.Title,
			Description: n.Description,
			Type:        string(n.Type),
			Date:        n.Date,
			WasRead:     n.WasRead,
		})
	}

	respond.OK(c.Writer, dto.ListResponse{
		Success:       true,
		Message:       "notifications fetched successfully",
		Notifications: items,
	})
}

// MarkRead handles PATCH requests marking a notification as read.
//
// A notification that does not exist, or exists but belongs to another user,
// responds 200 with success=false and a not-found message. The two cases are
// indistinguishable to the caller.
func (h *Handler) MarkRead(c *ginext.Context) {
	var req dto.MarkReadRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	id, err := uuid.Parse(req.NotificationID)
	if err != nil {
		// A malformed id cannot exist, so it follows the not-found policy.
		zlog.Logger.Warn().Err(err).Str("notificationid", req.NotificationID).Msg("failed to parse notification id")
		respond.OK(c.Writer, dto.ActionResponse{Success: false, Message: "notification not found"})
		return
	}

	err = h.service.MarkNotificationRead(c.Request.Context(), h.cfg.Retry, req.UserID, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("notificationid", req.NotificationID).Msg("notification not found")
			respond.OK(c.Writer, dto.ActionResponse{Success: false, Message: "notification not found"})
			return
		}

		zlog.Logger.Error().Err(err).Str("notificationid", req.NotificationID).Msg("failed to mark notification read")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.ActionResponse{Success: true, Message: "notification marked as read"})
}

// Delete handles DELETE requests removing a notification permanently. Same
// not-found policy as MarkRead.
func (h *Handler) Delete(c *ginext.Context) {
	var req dto.DeleteRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	id, err := uuid.Parse(req.NotificationID)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("notificationid", req.NotificationID).Msg("failed to parse notification id")
		respond.OK(c.Writer, dto.ActionResponse{Success: false, Message: "notification not found"})
		return
	}

	err = h.service.DeleteNotification(c.Request.Context(), h.cfg.Retry, req.UserID, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("notificationid", req.NotificationID).Msg("notification not found")
			respond.OK(c.Writer, dto.ActionResponse{Success: false, Message: "notification not found"})
			return
		}

		zlog.Logger.Error().Err(err).Str("notificationid", req.NotificationID).Msg("failed to delete notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.ActionResponse{Success: true, Message: "notification deleted successfully"})
}

// UnreadCount handles GET requests for a user's unread notification counter.
func (h *Handler) UnreadCount(c *ginext.Context) {
	userID := c.Query("userid")
	if userID == "" {
		zlog.Logger.Warn().Msg("missing userid")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing userid"))
		return
	}

	count, err := h.service.GetUnreadCount(c.Request.Context(), h.cfg.Retry, userID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to get unread count")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.UnreadCountResponse{
		Success: true,
		Message: "unread count fetched successfully",
		Count:   count,
	})
}
