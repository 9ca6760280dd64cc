// internal/stages/segment/handler.go
package segment

import (
	"context"
	"encoding/json"
	"fmt"

	"slideforge/internal/common/logger"
	"slideforge/internal/common/validation"
	"slideforge/internal/llm"
)

const StageName = "Segmentation"

const promptTemplate = `You are an AI assistant that analyzes transcripts and breaks them into logical presentation slides.

Your task: Analyze the following transcript and identify distinct topics that should each become a separate slide. Order them logically for a presentation flow.

Guidelines:
- Each topic should be substantial enough for a slide (not too granular)
- Typical presentations have 5-10 slides (adjust based on content)
- Order topics logically (intro -> body -> conclusion)
- Provide context for each topic (what will be discussed)
- Use clear, concise titles

Transcript:
%s

Respond with JSON in this exact format:
{
  "topics": [
    {
      "title": "Introduction",
      "context": "Brief overview of what this slide will cover",
      "order": 1
    },
    {
      "title": "Main Point 1",
      "context": "Details about the first main point",
      "order": 2
    }
  ]
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

func buildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, transcript)
}

// Execute splits the transcript into ordered topics. This is the fan-out
// point: one topic becomes one slide.
func (h *Handler) Execute(ctx context.Context, transcript string) (*Output, error) {
	raw, err := h.llm.GenerateJSON(ctx, buildPrompt(transcript), h.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}

	if err := validation.Validate(validation.StageSegment, raw); err != nil {
		return nil, err
	}

	var output Output
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("segmentation: decode validated output: %w", err)
	}

	h.logger.Info("segmentation complete", map[string]interface{}{
		"topicCount": len(output.Topics),
	})
	for i, topic := range output.Topics {
		h.logger.Debug("topic identified", map[string]interface{}{
			"index": i + 1,
			"title": topic.Title,
			"order": topic.Order,
		})
	}

	return &output, nil
}
