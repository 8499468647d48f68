package nlp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticketbot/internal/config"
	"github.com/spec-kit/ticketbot/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.NLPConfig{
		Token:      "wit-token",
		BaseURL:    srv.URL + "/",
		APIVersion: "20240304",
	}, srv.Client())
}

func TestClient_Message(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message", r.URL.Path)
		assert.Equal(t, "open a ticket", r.URL.Query().Get("q"))
		assert.Equal(t, "20240304", r.URL.Query().Get("v"))
		assert.Equal(t, "Bearer wit-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "open a ticket",
			"intents": [
				{"id": "1", "name": "greet", "confidence": 0.12},
				{"id": "2", "name": "open_ticket", "confidence": 0.97}
			],
			"entities": {
				"topic:topic": [{"id": "3", "name": "topic", "role": "topic", "start": 7, "end": 13, "body": "ticket", "confidence": 0.8, "value": "ticket"}]
			},
			"traits": {
				"wit$sentiment": [{"id": "4", "value": "neutral", "confidence": 0.6}]
			}
		}`))
	})

	result, err := client.Message(context.Background(), "open a ticket")
	require.NoError(t, err)
	assert.Equal(t, "open a ticket", result.Text)
	require.Len(t, result.Intents, 2)

	top, ok := result.TopIntent()
	require.True(t, ok)
	assert.Equal(t, "open_ticket", top.Name)

	require.Len(t, result.Entities["topic:topic"], 1)
	assert.Equal(t, "ticket", result.Entities["topic:topic"][0].Body)
	assert.JSONEq(t, `"neutral"`, string(result.Traits["wit$sentiment"][0].Value))
}

func TestClient_DetectLanguages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/language", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("n"))
		_, _ = w.Write([]byte(`{"detected_locales":[{"locale":"fr_XX","confidence":0.91},{"locale":"en_XX","confidence":0.05}]}`))
	})

	langs, err := client.DetectLanguages(context.Background(), "bonjour tout le monde", 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.Language{{Name: "fr_XX", Value: 0.91}, {Name: "en_XX", Value: 0.05}}, langs)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Bad auth, check token/params","code":"no-auth"}`))
	})

	_, err := client.Message(context.Background(), "hi")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "no-auth", apiErr.Code)
	assert.Contains(t, err.Error(), "Bad auth")
}

func TestClient_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": 12`))
	})

	_, err := client.Message(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestResult_TopIntentEmpty(t *testing.T) {
	_, ok := Result{}.TopIntent()
	assert.False(t, ok)
}
