package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticketbot/internal/events"
	"github.com/spec-kit/ticketbot/internal/service"
)

func TestStartMessageWorker(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()

	StartMessageWorker(service.NewMessageService(dispatcher, zap.New(core)))
	StartMessageWorker(nil)

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:      "evt-1",
		Type:    events.EventMessageReceived,
		Payload: events.MessagePayload{ChannelID: 10, AuthorID: 11},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("MessageReceived").Len())
}
