package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/collabhub/notifications-service/internal/mocks/rabbitmq/handlers/event"
	"github.com/collabhub/notifications-service/internal/model"
	"github.com/collabhub/notifications-service/internal/rabbitmq/queue"
	notifsvc "github.com/collabhub/notifications-service/internal/service/notification"
)

func setupHandler(t *testing.T) (*Handler, *mocks.MocknotificationService, *mocks.MockdeadLetterQueue) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mocks.NewMocknotificationService(ctrl)
	mockDLQ := mocks.NewMockdeadLetterQueue(ctrl)
	h := NewHandler(mockService, mockDLQ, validator.New())

	return h, mockService, mockDLQ
}

func validEvent() queue.EventMessage {
	return queue.EventMessage{
		EventType:        "task.assigned",
		UserID:           "u1",
		NotificationType: "informative",
		Title:            "Task assigned",
		Message:          "you were assigned a task",
		Timestamp:        time.Now().UTC(),
	}
}

func TestHandler_HandleMessage_CreatesNotification(t *testing.T) {
	h, mockService, _ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	evt := validEvent()
	body, _ := json.Marshal(evt)

	mockService.EXPECT().
		CreateNotification(gomock.Any(), strategy, gomock.AssignableToTypeOf(model.Notification{})).
		DoAndReturn(func(_ context.Context, _ retry.Strategy, n model.Notification) (model.Notification, error) {
			assert.Equal(t, evt.UserID, n.UserID)
			assert.Equal(t, model.TypeInformative, n.Type)
			assert.Equal(t, evt.Title, n.Title)
			assert.Equal(t, evt.Message, n.Description)
			return n, nil
		})

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_MalformedJSON(t *testing.T) {
	h, _, mockDLQ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	body := []byte("{not json")

	// The service is never called; the message is dead-lettered and skipped.
	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(nil)

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_MissingTitle(t *testing.T) {
	h, _, mockDLQ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	evt := validEvent()
	evt.Title = ""
	body, _ := json.Marshal(evt)

	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(nil)

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_UnknownEventType(t *testing.T) {
	h, _, mockDLQ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	evt := validEvent()
	evt.EventType = "billing.invoice"
	body, _ := json.Marshal(evt)

	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(nil)

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_StoreUnavailableExhaustsRetries(t *testing.T) {
	h, mockService, mockDLQ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	evt := validEvent()
	body, _ := json.Marshal(evt)

	mockService.EXPECT().
		CreateNotification(gomock.Any(), strategy, gomock.Any()).
		Return(model.Notification{}, errors.New("connection refused"))
	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(nil)

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_ServiceValidationNotRetried(t *testing.T) {
	h, mockService, mockDLQ := setupHandler(t)

	// Several attempts are allowed, but a validation error stops the retry
	// loop after the first call.
	strategy := retry.Strategy{Attempts: 3, Delay: time.Millisecond}
	evt := validEvent()
	body, _ := json.Marshal(evt)

	mockService.EXPECT().
		CreateNotification(gomock.Any(), strategy, gomock.Any()).
		Return(model.Notification{}, fmt.Errorf("create: %w", notifsvc.ErrInvalidNotification)).
		Times(1)
	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(nil)

	h.HandleMessage(context.Background(), body, strategy)
}

func TestHandler_HandleMessage_DLQPublishFailureDoesNotPanic(t *testing.T) {
	h, _, mockDLQ := setupHandler(t)

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	body := []byte("{not json")

	mockDLQ.EXPECT().PublishToDLQ(body, strategy).Return(errors.New("channel closed"))

	h.HandleMessage(context.Background(), body, strategy)
}
