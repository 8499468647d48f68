package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/config"
)

// Intents the bot identifies with.
const Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

// Bot owns the Discord gateway session.
type Bot struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewBot creates a session and registers handler callbacks. It does not connect.
func NewBot(cfg config.DiscordConfig, handler *Handler, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.AddHandler(handler.OnMessageCreate)
	session.AddHandler(handler.OnReady)

	return &Bot{session: session, logger: logger}, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.logger.Info("discord gateway connected")
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

// Connected reports whether the gateway handshake completed. discordgo
// updates DataReady under the session lock from its websocket goroutines.
func (b *Bot) Connected() bool {
	b.session.RLock()
	defer b.session.RUnlock()
	return b.session.DataReady
}

// Ping reports an error until the gateway handshake completes.
func (b *Bot) Ping(context.Context) error {
	if !b.Connected() {
		return errors.New("discord gateway not ready")
	}
	return nil
}
