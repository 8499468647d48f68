package gateway

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/events"
	"github.com/spec-kit/ticketbot/internal/observability"
)

// Handler turns gateway callbacks into dispatcher events.
type Handler struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewHandler constructs a gateway handler.
func NewHandler(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// OnMessageCreate publishes messages from human authors as EventMessageReceived.
func (h *Handler) OnMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if m.Author.Bot {
		h.metrics.RecordGatewayEvent("message_ignored")
		return
	}

	payload, err := messagePayload(m.Message)
	if err != nil {
		h.metrics.RecordGatewayEvent("message_invalid")
		h.logger.Warn("dropping message with malformed ids", zap.String("message_id", m.ID), zap.Error(err))
		return
	}
	h.metrics.RecordGatewayEvent("message_create")

	event := events.Event{
		ID:        m.ID,
		Type:      events.EventMessageReceived,
		Timestamp: m.Timestamp.UTC(),
		Payload:   payload,
	}
	if err := h.dispatcher.Publish(context.Background(), event); err != nil {
		h.logger.Error("message handlers failed", zap.String("message_id", m.ID), zap.Error(err))
	}
}

// OnReady logs the identity the gateway session came up as.
func (h *Handler) OnReady(_ *discordgo.Session, r *discordgo.Ready) {
	h.metrics.RecordGatewayEvent("ready")
	if r == nil || r.User == nil {
		return
	}
	h.logger.Info("gateway ready",
		zap.String("user", r.User.Username),
		zap.String("session_id", r.SessionID),
		zap.Int("guilds", len(r.Guilds)))
}

func messagePayload(m *discordgo.Message) (events.MessagePayload, error) {
	messageID, err := parseID(m.ID)
	if err != nil {
		return events.MessagePayload{}, fmt.Errorf("message id: %w", err)
	}
	channelID, err := parseID(m.ChannelID)
	if err != nil {
		return events.MessagePayload{}, fmt.Errorf("channel id: %w", err)
	}
	authorID, err := parseID(m.Author.ID)
	if err != nil {
		return events.MessagePayload{}, fmt.Errorf("author id: %w", err)
	}
	var guildID int64
	if m.GuildID != "" {
		if guildID, err = parseID(m.GuildID); err != nil {
			return events.MessagePayload{}, fmt.Errorf("guild id: %w", err)
		}
	}
	return events.MessagePayload{
		MessageID: messageID,
		ChannelID: channelID,
		GuildID:   guildID,
		AuthorID:  authorID,
		Content:   m.Content,
	}, nil
}

// parseID converts a Discord snowflake string into the int64 the store uses.
func parseID(s string) (int64, error) {
	id, err := snowflake.ParseString(s)
	if err != nil {
		return 0, err
	}
	return id.Int64(), nil
}
