// Package validation enforces the structural contract of every stage's LLM
// output before it is decoded into typed structs.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"slideforge/internal/common/errors"
	"slideforge/internal/deck"
)

// StageKind selects which structural contract to validate against.
type StageKind string

const (
	StageParaphrase     StageKind = "paraphrase"
	StageSegment        StageKind = "segment"
	StageSelectTemplate StageKind = "select-template"
	StageVerification   StageKind = "verification"
)

const paraphraseSchema = `{
	"type": "object",
	"required": ["paraphrase"],
	"properties": {
		"paraphrase": {"type": "string", "minLength": 10},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

const segmentSchema = `{
	"type": "object",
	"required": ["topics"],
	"properties": {
		"topics": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["title", "context", "order"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"context": {"type": "string", "minLength": 1},
					"order": {"type": "integer", "minimum": 1}
				}
			}
		}
	}
}`

const selectTemplateSchema = `{
	"type": "object",
	"required": ["topic", "type"],
	"properties": {
		"topic": {"type": "string"},
		"type": {"type": "string", "enum": ["title", "bullet", "table", "flowchart", "two-column"]},
		"reasoning": {"type": "string"}
	}
}`

const verificationSchema = `{
	"type": "object",
	"required": ["valid"],
	"properties": {
		"valid": {"type": "boolean"},
		"issues": {"type": "array", "items": {"type": "string"}},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

const titleContentSchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"subtitle": {"type": "string"}
	}
}`

const bulletContentSchema = `{
	"type": "object",
	"required": ["title", "bullets"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"bullets": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["text"],
				"properties": {
					"text": {"type": "string", "minLength": 1},
					"subPoints": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

const tableContentSchema = `{
	"type": "object",
	"required": ["title", "headers", "rows"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"headers": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"rows": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

const flowchartContentSchema = `{
	"type": "object",
	"required": ["title", "steps"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"steps": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["step"],
				"properties": {
					"step": {"type": "string", "minLength": 1},
					"description": {"type": "string"}
				}
			}
		}
	}
}`

const twoColumnContentSchema = `{
	"type": "object",
	"required": ["title", "leftTitle", "leftContent", "rightTitle", "rightContent"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"leftTitle": {"type": "string", "minLength": 1},
		"leftContent": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"rightTitle": {"type": "string", "minLength": 1},
		"rightContent": {"type": "array", "minItems": 1, "items": {"type": "string"}}
	}
}`

var (
	stageSchemas   map[StageKind]*gojsonschema.Schema
	contentSchemas map[deck.SlideType]*gojsonschema.Schema
)

func init() {
	stageSchemas = map[StageKind]*gojsonschema.Schema{
		StageParaphrase:     mustCompile(paraphraseSchema),
		StageSegment:        mustCompile(segmentSchema),
		StageSelectTemplate: mustCompile(selectTemplateSchema),
		StageVerification:   mustCompile(verificationSchema),
	}
	contentSchemas = map[deck.SlideType]*gojsonschema.Schema{
		deck.SlideTypeTitle:     mustCompile(titleContentSchema),
		deck.SlideTypeBullet:    mustCompile(bulletContentSchema),
		deck.SlideTypeTable:     mustCompile(tableContentSchema),
		deck.SlideTypeFlowchart: mustCompile(flowchartContentSchema),
		deck.SlideTypeTwoColumn: mustCompile(twoColumnContentSchema),
	}
}

func mustCompile(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("invalid stage schema: %v", err))
	}
	return schema
}

// Validate checks raw JSON against the structural contract for the given
// stage. Returns a SCHEMA_VIOLATION pipeline error naming the first offending
// field.
func Validate(stage StageKind, raw []byte) error {
	schema, ok := stageSchemas[stage]
	if !ok {
		return fmt.Errorf("no schema registered for stage %q", stage)
	}
	return check(schema, string(stage), raw)
}

// ValidateSlideContent checks raw JSON against the content shape selected by
// the slide type discriminant. Only the matching variant is consulted.
func ValidateSlideContent(t deck.SlideType, raw []byte) error {
	schema, ok := contentSchemas[t]
	if !ok {
		return errors.NewUnknownSlideType(string(t))
	}
	return check(schema, fmt.Sprintf("%s content", t), raw)
}

func check(schema *gojsonschema.Schema, stage string, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not even parseable as a JSON document.
		return errors.NewSchemaViolation(stage, "(document)", err.Error())
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	return errors.NewSchemaViolation(stage, first.Field(), first.Description())
}
