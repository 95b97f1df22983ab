package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/collabhub/notifications-service/internal/model"
	"github.com/collabhub/notifications-service/internal/repository/notification"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

// ErrInvalidNotification is returned when a creation request carries a
// missing required field or an unrecognized notification type. It is never
// retried.
var ErrInvalidNotification = errors.New("invalid notification")

type notificationRepository interface {
	CreateNotification(ctx context.Context, n model.Notification) error
	GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error)
	GetUserNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	DeleteNotification(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Service is the single authority over notification state transitions. It is
// the only component that writes to the repository; both the HTTP surface and
// the event ingestion loop go through it.
type Service struct {
	repo  notificationRepository
	cache cache
}

// NewService creates a new notification service.
func NewService(repo notificationRepository, cache cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// CreateNotification validates the input, assigns a fresh id and creation
// timestamp, forces the read flag to false and writes the record through the
// repository. The returned notification is the stored record.
func (s *Service) CreateNotification(ctx context.Context, strategy retry.Strategy, n model.Notification) (model.Notification, error) {
	if err := validate(n); err != nil {
		return model.Notification{}, err
	}

	n.ID = uuid.New()
	n.Date = nowUTC()
	n.WasRead = false

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return model.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	s.refreshUnreadCount(ctx, strategy, n.UserID)

	return n, nil
}

// GetUserNotifications returns all notifications of a user ordered by
// creation date descending. An empty result is not an error.
func (s *Service) GetUserNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	notifications, err := s.repo.GetUserNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead sets the read flag of a notification owned by userID.
// An id owned by a different user behaves exactly like a missing id: both
// return ErrNotificationNotFound, so a caller cannot probe for existence of
// another user's notifications.
func (s *Service) MarkNotificationRead(ctx context.Context, strategy retry.Strategy, userID string, id uuid.UUID) error {
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.ErrNotificationNotFound
		}

		return fmt.Errorf("get notification: %w", err)
	}

	if n.UserID != userID {
		return notification.ErrNotificationNotFound
	}

	if err := s.repo.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	s.refreshUnreadCount(ctx, strategy, userID)

	return nil
}

// DeleteNotification permanently removes a notification owned by userID.
// Ownership mismatches follow the same not-found policy as MarkNotificationRead.
func (s *Service) DeleteNotification(ctx context.Context, strategy retry.Strategy, userID string, id uuid.UUID) error {
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.ErrNotificationNotFound
		}

		return fmt.Errorf("get notification: %w", err)
	}

	if n.UserID != userID {
		return notification.ErrNotificationNotFound
	}

	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	s.refreshUnreadCount(ctx, strategy, userID)

	return nil
}

// GetUnreadCount returns the number of unread notifications for a user,
// served from the cache when possible and recomputed from the repository on a
// miss.
func (s *Service) GetUnreadCount(ctx context.Context, strategy retry.Strategy, userID string) (int, error) {
	cached, err := s.cache.GetWithRetry(ctx, strategy, unreadKey(userID))
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to get unread count from cache")
	}

	if err == nil {
		count, convErr := strconv.Atoi(cached)
		if convErr == nil {
			return count, nil
		}

		zlog.Logger.Error().Err(convErr).Str("userid", userID).Msg("invalid cached unread count")
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	if err := s.cache.SetWithRetry(ctx, strategy, unreadKey(userID), strconv.Itoa(count)); err != nil {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to cache unread count")
	}

	return count, nil
}

// refreshUnreadCount recomputes the unread counter after a mutation and
// writes it through to the cache. Cache failures only degrade the counter
// endpoint, so they are logged and swallowed.
func (s *Service) refreshUnreadCount(ctx context.Context, strategy retry.Strategy, userID string) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to recount unread notifications")
		return
	}

	if err := s.cache.SetWithRetry(ctx, strategy, unreadKey(userID), strconv.Itoa(count)); err != nil {
		zlog.Logger.Error().Err(err).Str("userid", userID).Msg("failed to cache unread count")
	}
}

func validate(n model.Notification) error {
	if strings.TrimSpace(n.UserID) == "" {
		return fmt.Errorf("%w: userid is required", ErrInvalidNotification)
	}

	if !n.Type.Valid() {
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidNotification, n.Type)
	}

	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNotification)
	}

	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidNotification)
	}

	return nil
}
