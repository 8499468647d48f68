// Package nlp is a small client for the Wit.ai HTTP API.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/ticketbot/internal/config"
	"github.com/spec-kit/ticketbot/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Intent is a recognized user intent.
type Intent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is a span of the input Wit.ai resolved to a value.
type Entity struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Start      int             `json:"start"`
	End        int             `json:"end"`
	Body       string          `json:"body"`
	Confidence float64         `json:"confidence"`
	Value      json.RawMessage `json:"value,omitempty"`
}

// Trait is a whole-utterance classification such as sentiment.
type Trait struct {
	ID         string          `json:"id"`
	Value      json.RawMessage `json:"value"`
	Confidence float64         `json:"confidence"`
}

// Result is the parsed response of the /message endpoint.
type Result struct {
	Text     string              `json:"text"`
	Intents  []Intent            `json:"intents"`
	Entities map[string][]Entity `json:"entities"`
	Traits   map[string][]Trait  `json:"traits"`
}

// TopIntent returns the most confident intent, if any.
func (r Result) TopIntent() (Intent, bool) {
	if len(r.Intents) == 0 {
		return Intent{}, false
	}
	best := r.Intents[0]
	for _, in := range r.Intents[1:] {
		if in.Confidence > best.Confidence {
			best = in
		}
	}
	return best, true
}

// APIError is a non-2xx answer from Wit.ai.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wit.ai: status %d", e.StatusCode)
	}
	return fmt.Sprintf("wit.ai: status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// Client calls Wit.ai with a server access token.
type Client struct {
	baseURL    string
	version    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client from config; httpClient may be nil.
func NewClient(cfg config.NLPConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout()
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		version:    cfg.APIVersion,
		token:      cfg.Token,
		httpClient: httpClient,
	}
}

// Message classifies text into intents, entities and traits.
func (c *Client) Message(ctx context.Context, text string) (Result, error) {
	var result Result
	if err := c.get(ctx, "/message", url.Values{"q": {text}}, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// DetectLanguages returns up to n candidate locales for text, scored by
// confidence, in the same name/value shape user profiles store.
func (c *Client) DetectLanguages(ctx context.Context, text string, n int) ([]domain.Language, error) {
	if n <= 0 {
		n = 1
	}
	var resp struct {
		DetectedLocales []struct {
			Locale     string  `json:"locale"`
			Confidence float64 `json:"confidence"`
		} `json:"detected_locales"`
	}
	params := url.Values{"q": {text}, "n": {strconv.Itoa(n)}}
	if err := c.get(ctx, "/language", params, &resp); err != nil {
		return nil, err
	}

	langs := make([]domain.Language, 0, len(resp.DetectedLocales))
	for _, l := range resp.DetectedLocales {
		langs = append(langs, domain.Language{Name: l.Locale, Value: l.Confidence})
	}
	return langs, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.version != "" {
		params.Set("v", c.version)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("wit.ai %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wit.ai %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("wit.ai %s: read body: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("wit.ai %s: decode response: %w", path, err)
	}
	return nil
}
