package worker

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/collabhub/notifications-service/internal/mocks/worker"
)

func TestConsumer_Run_HandlesMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := mocks.NewMockeventQueue(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)

	c := NewConsumer(mockQueue, mockHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	body := []byte(`{"event_type":"task.assigned"}`)

	mockQueue.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(
		func(_ context.Context, out chan<- []byte, _ retry.Strategy) error {
			out <- body
			return nil
		},
	)

	mockHandler.EXPECT().HandleMessage(gomock.Any(), body, strategy)

	go c.Run(ctx, strategy)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestConsumer_Run_SequentialDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := mocks.NewMockeventQueue(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)

	c := NewConsumer(mockQueue, mockHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	first := []byte(`{"event_type":"first"}`)
	second := []byte(`{"event_type":"second"}`)

	mockQueue.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(
		func(_ context.Context, out chan<- []byte, _ retry.Strategy) error {
			out <- first
			out <- second
			return nil
		},
	)

	// One message at a time, in arrival order.
	gomock.InOrder(
		mockHandler.EXPECT().HandleMessage(gomock.Any(), first, strategy),
		mockHandler.EXPECT().HandleMessage(gomock.Any(), second, strategy),
	)

	go c.Run(ctx, strategy)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestConsumer_Run_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := mocks.NewMockeventQueue(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)

	c := NewConsumer(mockQueue, mockHandler)

	ctx, cancel := context.WithCancel(context.Background())

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	mockQueue.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(
		func(ctx context.Context, _ chan<- []byte, _ retry.Strategy) error {
			<-ctx.Done()
			return nil
		},
	)

	done := make(chan struct{})
	go func() {
		c.Run(ctx, strategy)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after context cancellation")
	}
}
