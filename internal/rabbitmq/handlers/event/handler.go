package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/collabhub/notifications-service/internal/model"
	"github.com/collabhub/notifications-service/internal/rabbitmq/queue"
	notifsvc "github.com/collabhub/notifications-service/internal/service/notification"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/event/mock.go -package=mocks
type notificationService interface {
	CreateNotification(ctx context.Context, strategy retry.Strategy, n model.Notification) (model.Notification, error)
}

type deadLetterQueue interface {
	PublishToDLQ(body []byte, strategy retry.Strategy) error
}

// knownEventTypes is the set of domain events with a defined notification
// mapping. Anything else is accepted structurally but treated as poison until
// a mapping exists for it.
var knownEventTypes = map[string]struct{}{
	"task.assigned":      {},
	"task.completed":     {},
	"project.invitation": {},
	"project.deadline":   {},
	"member.joined":      {},
}

// Handler converts inbound bus events into notification creations. One bad
// message never stops the stream: anything that cannot be mapped is moved to
// the DLQ and skipped.
type Handler struct {
	service   notificationService
	dlq       deadLetterQueue
	validator *validator.Validate
}

// NewHandler creates a new event handler.
func NewHandler(svc notificationService, dlq deadLetterQueue, v *validator.Validate) *Handler {
	return &Handler{service: svc, dlq: dlq, validator: v}
}

// HandleMessage processes exactly one raw bus message: deserialize, validate
// the event shape, map it to a creation request and drive it through the
// service. Transient store failures are retried with backoff; exhausted
// retries escalate to poison handling.
func (h *Handler) HandleMessage(ctx context.Context, body []byte, strategy retry.Strategy) {
	var evt queue.EventMessage
	if err := json.Unmarshal(body, &evt); err != nil {
		h.poison(body, strategy, fmt.Errorf("unmarshal event: %w", err))
		return
	}

	if err := h.validator.Struct(evt); err != nil {
		h.poison(body, strategy, fmt.Errorf("validate event: %w", err))
		return
	}

	if _, ok := knownEventTypes[evt.EventType]; !ok {
		h.poison(body, strategy, fmt.Errorf("unknown event type %q", evt.EventType))
		return
	}

	n := model.Notification{
		UserID:           evt.UserID,
		Type:             model.Type(evt.NotificationType),
		Title:            evt.Title,
		Description:      evt.Message,
		RelatedProjectID: evt.RelatedProjectID,
		RelatedUserID:    evt.RelatedUserID,
		RelatedTaskID:    evt.RelatedTaskID,
	}

	// Validation errors are never retried; remember them and stop the retry
	// loop early.
	var invalidErr error

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, createErr := h.service.CreateNotification(ctx, strategy, n)
		if errors.Is(createErr, notifsvc.ErrInvalidNotification) {
			invalidErr = createErr
			return nil
		}

		return createErr
	}, strategy)

	if invalidErr != nil {
		h.poison(body, strategy, fmt.Errorf("create notification: %w", invalidErr))
		return
	}

	if err != nil {
		zlog.Logger.Error().Err(err).Str("event_type", evt.EventType).Msg("store unavailable, retries exhausted, moving message to DLQ")
		h.poison(body, strategy, err)
		return
	}

	zlog.Logger.Info().Str("event_type", evt.EventType).Str("userid", evt.UserID).Msg("notification created from event")
}

// poison logs and dead-letters a message that cannot be processed. The loop
// keeps going regardless of the publish outcome.
func (h *Handler) poison(body []byte, strategy retry.Strategy, cause error) {
	zlog.Logger.Warn().Err(cause).Msg("poison message, skipping")

	if err := h.dlq.PublishToDLQ(body, strategy); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to publish poison message to DLQ")
	}
}
