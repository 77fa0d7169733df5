package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *SubmissionEvent {
	return NewSubmissionRecordedEvent(SubmissionRecorded{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Score:          "1",
		TotalQuestions: "2",
		SubmittedAt:    "2026-01-01T00:00:00.000Z",
		ResultsFile:    "results.csv",
	}, time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))
}

func TestNewSubmissionRecordedEvent(t *testing.T) {
	event := sampleEvent()

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventSubmissionRecorded, event.Type)
	assert.Equal(t, "placement-test-service", event.Source)
	assert.NotEqual(t, event.ID, sampleEvent().ID)
}

func TestWatermillEventPublisher_Publish(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "submissions")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "submissions", discardLogger())
	event := sampleEvent()
	require.NoError(t, publisher.PublishSubmissionEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventSubmissionRecorded), msg.Metadata.Get("event_type"))

		var decoded struct {
			Type EventType          `json:"type"`
			Data SubmissionRecorded `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventSubmissionRecorded, decoded.Type)
		assert.Equal(t, "Ada", decoded.Data.FirstName)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published message")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())

	require.NoError(t, mock.PublishSubmissionEvent(context.Background(), sampleEvent()))
	assert.Len(t, mock.GetPublishedEvents(), 1)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())

	mock.Err = errors.New("broker down")
	assert.Error(t, mock.PublishSubmissionEvent(context.Background(), sampleEvent()))
	assert.Empty(t, mock.GetPublishedEvents())
}
