// internal/stages/paraphrase/handler.go
package paraphrase

import (
	"context"
	"encoding/json"
	"fmt"

	"slideforge/internal/common/logger"
	"slideforge/internal/common/validation"
	"slideforge/internal/llm"
)

const StageName = "Paraphrase"

const promptTemplate = `You are an AI assistant that paraphrases transcripts to confirm understanding.

Your task: Read the following transcript and paraphrase it in your own words. This demonstrates you've understood the content correctly before we proceed with further analysis.

Guidelines:
- Capture the main ideas and key points
- Use different wording while preserving meaning
- Keep the paraphrase concise but comprehensive
- Do not add new information or opinions

Transcript:
%s

Respond with JSON in this exact format:
{
  "paraphrase": "Your paraphrased version here...",
  "confidence": 0.95
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

// Execute paraphrases the transcript and validates the response shape.
func (h *Handler) Execute(ctx context.Context, transcript string) (*Output, error) {
	raw, err := h.llm.GenerateJSON(ctx, buildPrompt(transcript), h.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("paraphrase: %w", err)
	}

	if err := validation.Validate(validation.StageParaphrase, raw); err != nil {
		return nil, err
	}

	var output Output
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("paraphrase: decode validated output: %w", err)
	}

	h.logger.Info("paraphrase complete", map[string]interface{}{
		"length":     len(output.Paraphrase),
		"confidence": output.Confidence,
	})

	return &output, nil
}
