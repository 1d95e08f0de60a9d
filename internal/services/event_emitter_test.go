package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/steamlab-platform/lab-service/internal/events"
)

func TestEventEmitter(t *testing.T) {
	logger := slog.Default()

	t.Run("publishes the envelope", func(t *testing.T) {
		mock := events.NewMockEventPublisher(logger)
		emitter := newEventEmitter(mock, "lab-service.events", logger)

		emitter.Emit(context.Background(), events.EventProjectSubmitted, map[string]interface{}{
			"project_id": uint(42),
		})

		published := mock.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != events.EventProjectSubmitted {
			t.Errorf("type = %q, want %q", event.Type, events.EventProjectSubmitted)
		}
		if event.Source != "lab-service" {
			t.Errorf("source = %q, want lab-service", event.Source)
		}
		if event.ID == "" {
			t.Error("expected a non-empty event id")
		}
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		emitter := newEventEmitter(nil, "lab-service.events", logger)
		emitter.Emit(context.Background(), events.EventProjectStarred, nil)
	})
}
