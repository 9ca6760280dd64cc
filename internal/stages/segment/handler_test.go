// internal/stages/segment/handler_test.go
package segment

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideforge/internal/common/errors"
	"slideforge/internal/common/logger"
	"slideforge/internal/deck"
	"slideforge/internal/llm"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string, temperature float64) (json.RawMessage, error) {
	text, err := f.GenerateText(ctx, prompt, temperature)
	if err != nil {
		return nil, err
	}
	raw, ok := llm.ExtractJSON(text)
	if !ok {
		return nil, errors.NewMalformedJSON(text, fmt.Errorf("no JSON in response"))
	}
	return raw, nil
}

func TestHandler_Execute_Success(t *testing.T) {
	gen := &fakeGenerator{
		response: `{
			"topics": [
				{"title": "Onboarding", "context": "How new users sign up", "order": 1},
				{"title": "Pricing", "context": "Plan tiers and costs", "order": 2}
			]
		}`,
	}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), "transcript text")

	require.NoError(t, err)
	require.Len(t, output.Topics, 2)
	assert.Equal(t, deck.Topic{Title: "Onboarding", Context: "How new users sign up", Order: 1}, output.Topics[0])
	assert.Equal(t, deck.Topic{Title: "Pricing", Context: "Plan tiers and costs", Order: 2}, output.Topics[1])
}

func TestHandler_Execute_Idempotent(t *testing.T) {
	// The same transcript yields the same topics on repeated calls; the stage
	// holds no state between executions.
	gen := &fakeGenerator{
		response: `{"topics": [{"title": "Intro", "context": "Opening", "order": 1}]}`,
	}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	first, err := handler.Execute(context.Background(), "transcript")
	require.NoError(t, err)
	second, err := handler.Execute(context.Background(), "transcript")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, gen.calls)
}

func TestHandler_Execute_EmptyTopics(t *testing.T) {
	gen := &fakeGenerator{response: `{"topics": []}`}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), "transcript")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
}

func TestHandler_Execute_TopicMissingOrder(t *testing.T) {
	gen := &fakeGenerator{response: `{"topics": [{"title": "Intro", "context": "Opening"}]}`}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), "transcript")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
}
