package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/config"
	"github.com/spec-kit/ticketbot/internal/events"
	"github.com/spec-kit/ticketbot/internal/observability"
)

func newHandler(t *testing.T) (*Handler, *observability.Metrics, *[]events.Event) {
	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	dispatcher.Subscribe(events.EventMessageReceived, func(_ context.Context, e events.Event) error {
		*published = append(*published, e)
		return nil
	})
	metrics := observability.NewMetrics()
	return NewHandler(dispatcher, metrics, zap.NewNop()), metrics, published
}

func message(authorBot bool) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "1183041281498365963",
		ChannelID: "613425648685547545",
		GuildID:   "613425648685547541",
		Content:   "I need help",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600)),
		Author:    &discordgo.User{ID: "80351110224678912", Bot: authorBot},
	}}
}

func TestHandler_OnMessageCreate(t *testing.T) {
	h, metrics, published := newHandler(t)

	h.OnMessageCreate(nil, message(false))

	require.Len(t, *published, 1)
	e := (*published)[0]
	assert.Equal(t, events.EventMessageReceived, e.Type)
	assert.Equal(t, "1183041281498365963", e.ID)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.Equal(t, events.MessagePayload{
		MessageID: 1183041281498365963,
		ChannelID: 613425648685547545,
		GuildID:   613425648685547541,
		AuthorID:  80351110224678912,
		Content:   "I need help",
	}, e.Payload)
	assert.Equal(t, int64(1), metrics.Snapshot().GatewayEvents["message_create"])
}

func TestHandler_IgnoresBots(t *testing.T) {
	h, metrics, published := newHandler(t)

	h.OnMessageCreate(nil, message(true))
	h.OnMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{ID: "1"}})

	assert.Empty(t, *published)
	assert.Equal(t, int64(1), metrics.Snapshot().GatewayEvents["message_ignored"])
}

func TestHandler_DirectMessage(t *testing.T) {
	h, _, published := newHandler(t)

	m := message(false)
	m.GuildID = ""
	h.OnMessageCreate(nil, m)

	require.Len(t, *published, 1)
	payload := (*published)[0].Payload.(events.MessagePayload)
	assert.True(t, payload.Direct())
}

func TestHandler_MalformedIDs(t *testing.T) {
	h, metrics, published := newHandler(t)

	m := message(false)
	m.ChannelID = "general"
	h.OnMessageCreate(nil, m)

	assert.Empty(t, *published)
	assert.Equal(t, int64(1), metrics.Snapshot().GatewayEvents["message_invalid"])
}

func TestNewBot_Intents(t *testing.T) {
	h, _, _ := newHandler(t)

	bot, err := NewBot(config.DiscordConfig{Token: "token"}, h, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Intents, bot.session.Identify.Intents)
	assert.Equal(t, "Bot token", bot.session.Token)
	assert.False(t, bot.Connected())
	assert.Error(t, bot.Ping(context.Background()))

	bot.session.Lock()
	bot.session.DataReady = true
	bot.session.Unlock()
	assert.NoError(t, bot.Ping(context.Background()))
}

func TestBot_ConnectedConcurrentWithGatewayWrites(t *testing.T) {
	h, _, _ := newHandler(t)
	bot, err := NewBot(config.DiscordConfig{Token: "token"}, h, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			bot.session.Lock()
			bot.session.DataReady = i%2 == 0
			bot.session.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = bot.Connected()
		}
	}()
	wg.Wait()
}
