package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/events"
)

// MessageService is the subscriber for inbound chat messages. It records
// what arrived and nothing else: the bot has no commands yet.
type MessageService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMessageService creates the service.
func NewMessageService(dispatcher events.Dispatcher, logger *zap.Logger) *MessageService {
	return &MessageService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (s *MessageService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventMessageReceived, s.handleMessageReceived)
}

func (s *MessageService) handleMessageReceived(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessagePayload)
	if !ok {
		s.logger.Warn("unexpected message payload", zap.String("event_id", event.ID))
		return nil
	}
	s.logger.Debug("MessageReceived",
		zap.String("event_id", event.ID),
		zap.Int64("channel_id", payload.ChannelID),
		zap.Int64("guild_id", payload.GuildID),
		zap.Int64("author_id", payload.AuthorID),
		zap.Bool("direct", payload.Direct()),
		zap.Int("content_length", len(payload.Content)))
	return nil
}
