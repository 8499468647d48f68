package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketbot/internal/api/dto"
	"github.com/spec-kit/ticketbot/internal/domain"
	"github.com/spec-kit/ticketbot/internal/nlp"
	apperrors "github.com/spec-kit/ticketbot/pkg/util/errorutil"
)

const maxLanguageCandidates = 8

// Classifier is the subset of the Wit.ai client the probe endpoints use.
type Classifier interface {
	Message(ctx context.Context, text string) (nlp.Result, error)
	DetectLanguages(ctx context.Context, text string, n int) ([]domain.Language, error)
}

// NLPHandler lets operators check how the NLP backend reads a piece of text.
type NLPHandler struct {
	classifier Classifier
}

// NewNLPHandler constructs handler.
func NewNLPHandler(classifier Classifier) *NLPHandler {
	return &NLPHandler{classifier: classifier}
}

// Message GET /nlp/message?q=..
func (h *NLPHandler) Message(c *fiber.Ctx) error {
	text := c.Query("q")
	if text == "" {
		return apperrors.NewValidationError("q is required", nil)
	}
	result, err := h.classifier.Message(c.UserContext(), text)
	if err != nil {
		return apperrors.NewUpstreamError("wit.ai", err)
	}
	resp := fiber.Map{"data": result}
	if top, ok := result.TopIntent(); ok {
		resp["top_intent"] = top
	}
	return c.JSON(resp)
}

// Languages GET /nlp/languages?q=..&n=..
func (h *NLPHandler) Languages(c *fiber.Ctx) error {
	text := c.Query("q")
	if text == "" {
		return apperrors.NewValidationError("q is required", nil)
	}
	n := 1
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLanguageCandidates {
			return apperrors.NewValidationError("n must be between 1 and 8", map[string]any{"n": raw})
		}
		n = parsed
	}
	langs, err := h.classifier.DetectLanguages(c.UserContext(), text, n)
	if err != nil {
		return apperrors.NewUpstreamError("wit.ai", err)
	}
	items := make([]dto.LanguageResponse, 0, len(langs))
	for _, l := range langs {
		items = append(items, dto.LanguageResponse{Name: l.Name, Value: l.Value})
	}
	return c.JSON(fiber.Map{"data": items})
}
