// internal/stages/selecttemplate/handler.go
package selecttemplate

import (
	"context"
	"encoding/json"
	"fmt"

	"slideforge/internal/common/logger"
	"slideforge/internal/common/validation"
	"slideforge/internal/deck"
	"slideforge/internal/llm"
)

const StageName = "Template Selection"

const promptTemplate = `You are an AI assistant that selects the best PowerPoint slide template for presentation content.

Available slide templates:
1. "title" - Large title + subtitle (use for opening/closing slides)
2. "bullet" - Title + bullet points (use for lists, key points, benefits)
3. "table" - Title + data table (use for comparisons, data, structured info)
4. "flowchart" - Title + sequential steps (use for processes, workflows, timelines)
5. "two-column" - Title + left/right comparison (use for pros/cons, before/after, comparisons)

Topic Information:
Title: %s
Context: %s

Original Transcript (for reference):
%s

Your task: Choose the MOST APPROPRIATE template type for this topic based on the content that needs to be presented.

Respond with JSON in this exact format:
{
  "topic": "%s",
  "type": "bullet",
  "reasoning": "Brief explanation of why this template fits best"
}`

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

func buildPrompt(topic deck.Topic, transcript string) string {
	return fmt.Sprintf(promptTemplate, topic.Title, topic.Context, transcript, topic.Title)
}

// Execute classifies one topic into a slide template type. A single
// classification decision per topic, no numeric scoring.
func (h *Handler) Execute(ctx context.Context, topic deck.Topic, transcript string) (*Output, error) {
	raw, err := h.llm.GenerateJSON(ctx, buildPrompt(topic, transcript), h.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("template selection for %q: %w", topic.Title, err)
	}

	if err := validation.Validate(validation.StageSelectTemplate, raw); err != nil {
		return nil, err
	}

	var output Output
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("template selection: decode validated output: %w", err)
	}

	h.logger.Info("template selected", map[string]interface{}{
		"topic":     topic.Title,
		"type":      string(output.Type),
		"reasoning": output.Reasoning,
	})

	return &output, nil
}
