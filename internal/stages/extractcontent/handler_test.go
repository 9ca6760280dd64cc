// internal/stages/extractcontent/handler_test.go
package extractcontent

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
	prompts  []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
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

func TestHandler_Execute_PerSlideType(t *testing.T) {
	topic := deck.Topic{Title: "Pricing", Context: "Plan tiers and costs", Order: 2}

	tests := []struct {
		name      string
		slideType deck.SlideType
		response  string
		validate  func(t *testing.T, content deck.SlideContent)
	}{
		{
			name:      "title content",
			slideType: deck.SlideTypeTitle,
			response:  `{"title": "Pricing Overview", "subtitle": "Three plans"}`,
			validate: func(t *testing.T, content deck.SlideContent) {
				c := content.(deck.TitleContent)
				assert.Equal(t, "Pricing Overview", c.Title)
				assert.Equal(t, "Three plans", c.Subtitle)
			},
		},
		{
			name:      "bullet content",
			slideType: deck.SlideTypeBullet,
			response:  `{"title": "Pricing", "bullets": [{"text": "Basic at $10", "subPoints": ["annual discount"]}]}`,
			validate: func(t *testing.T, content deck.SlideContent) {
				c := content.(deck.BulletContent)
				require.Len(t, c.Bullets, 1)
				assert.Equal(t, "Basic at $10", c.Bullets[0].Text)
				assert.Equal(t, []string{"annual discount"}, c.Bullets[0].SubPoints)
			},
		},
		{
			name:      "table content",
			slideType: deck.SlideTypeTable,
			response:  `{"title": "Plans", "headers": ["Plan", "Price"], "rows": [["Basic", "$10"], ["Pro", "$25"]]}`,
			validate: func(t *testing.T, content deck.SlideContent) {
				c := content.(deck.TableContent)
				assert.Equal(t, []string{"Plan", "Price"}, c.Headers)
				assert.Len(t, c.Rows, 2)
			},
		},
		{
			name:      "flowchart content",
			slideType: deck.SlideTypeFlowchart,
			response:  `{"title": "Upgrade Path", "steps": [{"step": "Pick a plan", "description": "Compare tiers"}, {"step": "Pay"}]}`,
			validate: func(t *testing.T, content deck.SlideContent) {
				c := content.(deck.FlowchartContent)
				require.Len(t, c.Steps, 2)
				assert.Equal(t, "Pick a plan", c.Steps[0].Step)
			},
		},
		{
			name:      "two-column content",
			slideType: deck.SlideTypeTwoColumn,
			response:  `{"title": "Monthly vs Annual", "leftTitle": "Monthly", "leftContent": ["flexible"], "rightTitle": "Annual", "rightContent": ["cheaper"]}`,
			validate: func(t *testing.T, content deck.SlideContent) {
				c := content.(deck.TwoColumnContent)
				assert.Equal(t, "Monthly", c.LeftTitle)
				assert.Equal(t, []string{"cheaper"}, c.RightContent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response}
			handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

			content, err := handler.Execute(context.Background(), topic, tt.slideType, "transcript text")

			require.NoError(t, err)
			assert.Equal(t, tt.slideType, content.SlideType())
			tt.validate(t, content)

			require.Len(t, gen.prompts, 1)
			assert.Contains(t, gen.prompts[0], topic.Title)
			assert.Contains(t, gen.prompts[0], topic.Context)
		})
	}
}

func TestHandler_Execute_UnknownSlideType(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	topic := deck.Topic{Title: "Data", Context: "Numbers", Order: 1}
	_, err := handler.Execute(context.Background(), topic, deck.SlideType("pie-chart"), "transcript")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownSlideType, errors.CodeOf(err))
	// No generation call is made for an invalid type.
	assert.Empty(t, gen.prompts)
}

func TestHandler_Execute_ShapeMismatch(t *testing.T) {
	// Table requested, bullet shape returned: validated only against the
	// requested variant, so this is a schema violation.
	gen := &fakeGenerator{response: `{"title": "Pricing", "bullets": [{"text": "Basic"}]}`}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	topic := deck.Topic{Title: "Pricing", Context: "Plan tiers", Order: 1}
	_, err := handler.Execute(context.Background(), topic, deck.SlideTypeTable, "transcript")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
}

func TestHandler_Execute_BackendError(t *testing.T) {
	gen := &fakeGenerator{err: errors.NewUpstreamError(429, "rate limited")}
	handler := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	topic := deck.Topic{Title: "Intro", Context: "Opening", Order: 1}
	_, err := handler.Execute(context.Background(), topic, deck.SlideTypeBullet, "transcript")

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeUpstreamError, errors.CodeOf(err))
}
