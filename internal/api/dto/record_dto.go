package dto

import (
	"strconv"
	"time"

	"github.com/spec-kit/ticketbot/internal/domain"
)

// Discord IDs are rendered as strings; they exceed the integer range JSON
// clients can represent exactly.

// TicketResponse renders a stored ticket.
type TicketResponse struct {
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	ServerID  string    `json:"server_id"`
	ChannelID string    `json:"channel_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChannelResponse renders one configured channel.
type ChannelResponse struct {
	ChannelID   string `json:"channel_id"`
	GuildID     string `json:"guild_id"`
	ChannelType string `json:"channel_type"`
}

// ServerResponse renders a server config.
type ServerResponse struct {
	ServerID         string            `json:"server_id"`
	WelcomeChannelID string            `json:"welcome_channel_id"`
	Channels         []ChannelResponse `json:"channels"`
}

// LanguageResponse renders a language score.
type LanguageResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// UserResponse renders a user profile.
type UserResponse struct {
	UserID            string             `json:"user_id"`
	PreferredLanguage LanguageResponse   `json:"preferred_language"`
	SpokenLanguages   []LanguageResponse `json:"spoken_languages"`
	Email             string             `json:"email"`
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:  t.TicketID.String(),
		UserID:    id(t.UserID),
		ServerID:  id(t.ServerID),
		ChannelID: id(t.ChannelID),
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewServerResponse maps a server config.
func NewServerResponse(s domain.ServerConfig) ServerResponse {
	channels := make([]ChannelResponse, 0, len(s.Channels))
	for _, ch := range s.Channels {
		channels = append(channels, ChannelResponse{
			ChannelID:   id(ch.ChannelID),
			GuildID:     id(ch.GuildID),
			ChannelType: ch.ChannelType.String(),
		})
	}
	return ServerResponse{
		ServerID:         id(s.ServerID),
		WelcomeChannelID: id(s.WelcomeChannelID),
		Channels:         channels,
	}
}

// NewUserResponse maps a user profile.
func NewUserResponse(u domain.UserProfile) UserResponse {
	spoken := make([]LanguageResponse, 0, len(u.SpokenLanguages))
	for _, l := range u.SpokenLanguages {
		spoken = append(spoken, LanguageResponse{Name: l.Name, Value: l.Value})
	}
	return UserResponse{
		UserID:            id(u.UserID),
		PreferredLanguage: LanguageResponse{Name: u.PreferredLanguage.Name, Value: u.PreferredLanguage.Value},
		SpokenLanguages:   spoken,
		Email:             u.Email,
	}
}
