package codec

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/spec-kit/ticketbot/internal/domain"
)

// Server and channel document fields.
const (
	FieldGuildID          = "guild_id"
	FieldChannelType      = "channel_type"
	FieldWelcomeChannelID = "welcome_channel_id"
	FieldChannelVec       = "channel_vec"
)

// EncodeChannelParams converts channel params into an embedded document.
func EncodeChannelParams(p domain.ChannelParams) bson.D {
	return bson.D{
		{Key: FieldChannelID, Value: p.ChannelID},
		{Key: FieldGuildID, Value: p.GuildID},
		{Key: FieldChannelType, Value: EncodeChannelType(p.ChannelType)},
	}
}

// DecodeChannelParams converts an embedded document into channel params.
func DecodeChannelParams(doc bson.D) (domain.ChannelParams, error) {
	return decodeChannelParams(newReader("channel params", doc))
}

func decodeChannelParams(r reader) (domain.ChannelParams, error) {
	channelID, err := r.int64(FieldChannelID)
	if err != nil {
		return domain.ChannelParams{}, err
	}
	guildID, err := r.int64(FieldGuildID)
	if err != nil {
		return domain.ChannelParams{}, err
	}
	code, err := r.int64(FieldChannelType)
	if err != nil {
		return domain.ChannelParams{}, err
	}
	channelType, err := decodeChannelType(r.record, r.field(FieldChannelType), code)
	if err != nil {
		return domain.ChannelParams{}, err
	}
	return domain.ChannelParams{
		ChannelID:   channelID,
		GuildID:     guildID,
		ChannelType: channelType,
	}, nil
}

// EncodeServerConfig converts a server config into its stored document.
// Channels are always written as an array, even when empty.
func EncodeServerConfig(s domain.ServerConfig) bson.D {
	channels := make(bson.A, 0, len(s.Channels))
	for _, ch := range s.Channels {
		channels = append(channels, EncodeChannelParams(ch))
	}
	return bson.D{
		{Key: FieldServerID, Value: s.ServerID},
		{Key: FieldWelcomeChannelID, Value: s.WelcomeChannelID},
		{Key: FieldChannelVec, Value: channels},
	}
}

// DecodeServerConfig converts a stored document into a server config.
// Channels is never nil: an empty channel_vec yields an empty slice, so a
// config built with nil Channels does not compare equal after a round trip.
func DecodeServerConfig(doc bson.D) (domain.ServerConfig, error) {
	r := newReader("server config", doc)

	serverID, err := r.int64(FieldServerID)
	if err != nil {
		return domain.ServerConfig{}, err
	}
	welcomeID, err := r.int64(FieldWelcomeChannelID)
	if err != nil {
		return domain.ServerConfig{}, err
	}
	items, err := r.array(FieldChannelVec)
	if err != nil {
		return domain.ServerConfig{}, err
	}
	channels := make([]domain.ChannelParams, 0, len(items))
	for _, item := range items {
		ch, err := decodeChannelParams(item)
		if err != nil {
			return domain.ServerConfig{}, err
		}
		channels = append(channels, ch)
	}

	return domain.ServerConfig{
		ServerID:         serverID,
		WelcomeChannelID: welcomeID,
		Channels:         channels,
	}, nil
}
