// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"slideforge/internal/common/errors"
	"slideforge/internal/deck"
)

func TestValidate_Paraphrase(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid output",
			raw:  `{"paraphrase": "The speaker walks through onboarding.", "confidence": 0.9}`,
		},
		{
			name: "confidence optional",
			raw:  `{"paraphrase": "A long enough paraphrase here."}`,
		},
		{
			name:    "paraphrase too short",
			raw:     `{"paraphrase": "short"}`,
			wantErr: true,
		},
		{
			name:    "paraphrase missing",
			raw:     `{"confidence": 0.9}`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			raw:     `{"paraphrase": "The speaker walks through onboarding.", "confidence": 1.5}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(StageParaphrase, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Segment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid topics",
			raw:  `{"topics": [{"title": "Intro", "context": "Overview", "order": 1}]}`,
		},
		{
			name:    "empty topics",
			raw:     `{"topics": []}`,
			wantErr: true,
		},
		{
			name:    "topic missing context",
			raw:     `{"topics": [{"title": "Intro", "order": 1}]}`,
			wantErr: true,
		},
		{
			name:    "order below one",
			raw:     `{"topics": [{"title": "Intro", "context": "Overview", "order": 0}]}`,
			wantErr: true,
		},
		{
			name:    "order not an integer",
			raw:     `{"topics": [{"title": "Intro", "context": "Overview", "order": 1.5}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(StageSegment, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_SelectTemplate(t *testing.T) {
	for _, slideType := range deck.AllSlideTypes {
		t.Run("accepts "+string(slideType), func(t *testing.T) {
			raw := `{"topic": "Pricing", "type": "` + string(slideType) + `", "reasoning": "fits"}`
			assert.NoError(t, Validate(StageSelectTemplate, []byte(raw)))
		})
	}

	t.Run("rejects unknown type", func(t *testing.T) {
		err := Validate(StageSelectTemplate, []byte(`{"topic": "Pricing", "type": "pie-chart"}`))
		assert.Error(t, err)
		assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
	})

	t.Run("rejects missing type", func(t *testing.T) {
		err := Validate(StageSelectTemplate, []byte(`{"topic": "Pricing"}`))
		assert.Error(t, err)
	})
}

func TestValidate_Verification(t *testing.T) {
	assert.NoError(t, Validate(StageVerification, []byte(`{"valid": true, "issues": [], "confidence": 0.95}`)))
	assert.NoError(t, Validate(StageVerification, []byte(`{"valid": false, "issues": ["made up a number"]}`)))
	assert.Error(t, Validate(StageVerification, []byte(`{"issues": []}`)))
	assert.Error(t, Validate(StageVerification, []byte(`{"valid": "yes"}`)))
}

func TestValidate_UnparseableDocument(t *testing.T) {
	err := Validate(StageParaphrase, []byte(`not json`))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
}

func TestValidateSlideContent(t *testing.T) {
	valid := map[deck.SlideType]string{
		deck.SlideTypeTitle:     `{"title": "Welcome", "subtitle": "Q3 review"}`,
		deck.SlideTypeBullet:    `{"title": "Key Points", "bullets": [{"text": "First point", "subPoints": ["detail"]}]}`,
		deck.SlideTypeTable:     `{"title": "Plans", "headers": ["Plan", "Price"], "rows": [["Basic", "$10"]]}`,
		deck.SlideTypeFlowchart: `{"title": "Process", "steps": [{"step": "Sign up", "description": "Create an account"}]}`,
		deck.SlideTypeTwoColumn: `{"title": "Tradeoffs", "leftTitle": "Pros", "leftContent": ["fast"], "rightTitle": "Cons", "rightContent": ["costly"]}`,
	}

	for slideType, raw := range valid {
		t.Run("accepts "+string(slideType), func(t *testing.T) {
			assert.NoError(t, ValidateSlideContent(slideType, []byte(raw)))
		})
	}

	// Each shape is checked only against its own variant; a bullet payload must
	// not satisfy the table schema.
	t.Run("rejects mismatched shape", func(t *testing.T) {
		err := ValidateSlideContent(deck.SlideTypeTable, []byte(valid[deck.SlideTypeBullet]))
		assert.Error(t, err)
		assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
	})

	t.Run("rejects empty bullets", func(t *testing.T) {
		err := ValidateSlideContent(deck.SlideTypeBullet, []byte(`{"title": "Empty", "bullets": []}`))
		assert.Error(t, err)
	})

	t.Run("unknown slide type", func(t *testing.T) {
		err := ValidateSlideContent(deck.SlideType("pie-chart"), []byte(`{}`))
		assert.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownSlideType, errors.CodeOf(err))
	})
}
