// internal/stages/extractcontent/handler.go
package extractcontent

import (
	"context"
	"fmt"

	"slideforge/internal/common/errors"
	"slideforge/internal/common/logger"
	"slideforge/internal/common/validation"
	"slideforge/internal/deck"
	"slideforge/internal/llm"
)

const StageName = "Content Extraction"

type Handler struct {
	config *Config
	llm    llm.Generator
	logger logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		llm:    gen,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

func buildPrompt(topic deck.Topic, slideType deck.SlideType, transcript string) (string, error) {
	var template string
	switch slideType {
	case deck.SlideTypeTitle:
		template = titlePrompt
	case deck.SlideTypeBullet:
		template = bulletPrompt
	case deck.SlideTypeTable:
		template = tablePrompt
	case deck.SlideTypeFlowchart:
		template = flowchartPrompt
	case deck.SlideTypeTwoColumn:
		template = twoColumnPrompt
	default:
		// Unreachable as long as template selection validates its output.
		return "", errors.NewUnknownSlideType(string(slideType))
	}
	return fmt.Sprintf(template, topic.Title, topic.Context, transcript), nil
}

// Execute fills the selected slide layout with content from the transcript.
// The response is validated against the schema of the requested type only.
func (h *Handler) Execute(ctx context.Context, topic deck.Topic, slideType deck.SlideType, transcript string) (deck.SlideContent, error) {
	prompt, err := buildPrompt(topic, slideType, transcript)
	if err != nil {
		return nil, err
	}

	raw, err := h.llm.GenerateJSON(ctx, prompt, h.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("content extraction for %q (%s): %w", topic.Title, slideType, err)
	}

	if err := validation.ValidateSlideContent(slideType, raw); err != nil {
		return nil, err
	}

	content, err := deck.DecodeContent(slideType, raw)
	if err != nil {
		return nil, fmt.Errorf("content extraction: decode validated output: %w", err)
	}

	h.logger.Info("content extracted", map[string]interface{}{
		"topic": topic.Title,
		"type":  string(slideType),
	})

	return content, nil
}
