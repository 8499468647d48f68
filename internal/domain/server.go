package domain

// ChannelType classifies a channel the bot is configured to use.
type ChannelType int64

const (
	ChannelTypeGeneric ChannelType = 1
	ChannelTypeNews    ChannelType = 2
	ChannelTypeBots    ChannelType = 3
	ChannelTypeNeon    ChannelType = 4
	ChannelTypeSpam    ChannelType = 5
)

var channelTypeNames = map[ChannelType]string{
	ChannelTypeGeneric: "GENERIC",
	ChannelTypeNews:    "NEWS",
	ChannelTypeBots:    "BOTS",
	ChannelTypeNeon:    "NEON",
	ChannelTypeSpam:    "SPAM",
}

// Valid reports whether t is one of the named channel types.
func (t ChannelType) Valid() bool {
	_, ok := channelTypeNames[t]
	return ok
}

func (t ChannelType) String() string {
	if name, ok := channelTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ChannelParams describes one configured channel of a server.
type ChannelParams struct {
	ChannelID   int64
	GuildID     int64
	ChannelType ChannelType
}

// ServerConfig is the per-guild bot configuration.
// Channels keeps storage order; duplicates are left to the caller.
type ServerConfig struct {
	ServerID         int64
	WelcomeChannelID int64
	Channels         []ChannelParams
}
