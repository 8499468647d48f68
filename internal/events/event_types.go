package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
)

// Event represents something that happened on the gateway.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MessagePayload is an inbound chat message. GuildID is 0 for direct messages.
type MessagePayload struct {
	MessageID int64  `json:"message_id"`
	ChannelID int64  `json:"channel_id"`
	GuildID   int64  `json:"guild_id"`
	AuthorID  int64  `json:"author_id"`
	Content   string `json:"content"`
}

// Direct reports whether the message was sent outside a guild.
func (p MessagePayload) Direct() bool {
	return p.GuildID == 0
}
