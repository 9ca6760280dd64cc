// internal/verify/verifier.go
package verify

import (
	"context"
	"encoding/json"
	"fmt"

	"slideforge/internal/common/logger"
	"slideforge/internal/common/validation"
	"slideforge/internal/deck"
	"slideforge/internal/llm"
)

const promptTemplate = `You are an AI assistant that verifies the accuracy of AI-generated content against the original source.

Your task: Check if the AI-generated output is factually accurate and faithful to the original transcript. Identify any hallucinations, fabrications, or misrepresentations.

Stage: %s
Original Transcript:
%s

AI-Generated Output:
%s

Verification Criteria:
1. Factual accuracy - Is all information from the transcript?
2. No hallucinations - Nothing invented or fabricated?
3. Completeness - Are key points captured?
4. No misrepresentation - Is the meaning preserved?

Respond with JSON:
{
  "valid": true,
  "issues": ["Optional array of issues found"],
  "confidence": 0.95
}

If output is faithful and accurate, set valid=true and issues=[].
If there are problems, set valid=false and list specific issues.`

// Config tunes the verification call.
type Config struct {
	Temperature float64
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.2,
	}
}

// Verifier asks the LLM a second, independent question: is this stage output
// faithful to the transcript?
type Verifier struct {
	config *Config
	llm    llm.Generator
	logger logger.Logger
}

func NewVerifier(config *Config, gen llm.Generator, log logger.Logger) *Verifier {
	return &Verifier{
		config: config,
		llm:    gen,
		logger: log.With(map[string]interface{}{
			"component": "verifier",
		}),
	}
}

func buildPrompt(stage string, output, transcript string) string {
	return fmt.Sprintf(promptTemplate, stage, transcript, output)
}

// Verify judges whether output is faithful to the transcript. Verification is
// availability-over-strictness: if the judgment itself cannot be obtained or
// parsed, the result degrades to "assume acceptable" instead of failing.
func (v *Verifier) Verify(ctx context.Context, stage string, output interface{}, transcript string) deck.VerificationResult {
	outputStr, ok := output.(string)
	if !ok {
		encoded, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return degraded(fmt.Errorf("encode output: %w", err))
		}
		outputStr = string(encoded)
	}

	raw, err := v.llm.GenerateJSON(ctx, buildPrompt(stage, outputStr, transcript), v.config.Temperature)
	if err != nil {
		v.logger.Warn("verification call failed", map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		})
		return degraded(err)
	}

	if err := validation.Validate(validation.StageVerification, raw); err != nil {
		v.logger.Warn("verification response failed validation", map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		})
		return degraded(err)
	}

	var result deck.VerificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return degraded(err)
	}

	if !result.Valid && len(result.Issues) > 0 {
		v.logger.Warn("verification found issues", map[string]interface{}{
			"stage":  stage,
			"issues": result.Issues,
		})
	} else {
		v.logger.Debug("verification passed", map[string]interface{}{
			"stage":      stage,
			"confidence": result.Confidence,
		})
	}

	return result
}

func degraded(reason error) deck.VerificationResult {
	return deck.VerificationResult{
		Valid:      true,
		Issues:     []string{fmt.Sprintf("verification check failed: %v", reason)},
		Confidence: 0.5,
	}
}
