// internal/deck/types.go
package deck

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlideType identifies one of the five supported slide layouts.
type SlideType string

const (
	SlideTypeTitle     SlideType = "title"
	SlideTypeBullet    SlideType = "bullet"
	SlideTypeTable     SlideType = "table"
	SlideTypeFlowchart SlideType = "flowchart"
	SlideTypeTwoColumn SlideType = "two-column"
)

// AllSlideTypes is the closed set of valid slide types, in presentation order.
var AllSlideTypes = []SlideType{
	SlideTypeTitle,
	SlideTypeBullet,
	SlideTypeTable,
	SlideTypeFlowchart,
	SlideTypeTwoColumn,
}

// Valid reports whether t is a member of the closed slide type enumeration.
func (t SlideType) Valid() bool {
	switch t {
	case SlideTypeTitle, SlideTypeBullet, SlideTypeTable, SlideTypeFlowchart, SlideTypeTwoColumn:
		return true
	}
	return false
}

// Topic is one segment of the transcript slated to become a single slide.
type Topic struct {
	Title   string `json:"title"`
	Context string `json:"context"`
	Order   int    `json:"order"`
}

// SlideContent is the tagged union of per-layout content shapes. Each concrete
// content type reports the SlideType it belongs to; a Slide's Type and Content
// must agree.
type SlideContent interface {
	SlideType() SlideType
}

type TitleContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

func (TitleContent) SlideType() SlideType { return SlideTypeTitle }

type BulletPoint struct {
	Text      string   `json:"text"`
	SubPoints []string `json:"subPoints,omitempty"`
}

type BulletContent struct {
	Title   string        `json:"title"`
	Bullets []BulletPoint `json:"bullets"`
}

func (BulletContent) SlideType() SlideType { return SlideTypeBullet }

type TableContent struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (TableContent) SlideType() SlideType { return SlideTypeTable }

type FlowchartStep struct {
	Step        string `json:"step"`
	Description string `json:"description,omitempty"`
}

type FlowchartContent struct {
	Title string          `json:"title"`
	Steps []FlowchartStep `json:"steps"`
}

func (FlowchartContent) SlideType() SlideType { return SlideTypeFlowchart }

type TwoColumnContent struct {
	Title        string   `json:"title"`
	LeftTitle    string   `json:"leftTitle"`
	LeftContent  []string `json:"leftContent"`
	RightTitle   string   `json:"rightTitle"`
	RightContent []string `json:"rightContent"`
}

func (TwoColumnContent) SlideType() SlideType { return SlideTypeTwoColumn }

// Slide pairs a layout type with matching content. Order 0 is reserved for the
// synthesized title slide; topic slides carry topic.Order + 1.
type Slide struct {
	Type    SlideType    `json:"type"`
	Content SlideContent `json:"content"`
	Order   int          `json:"order"`
}

// UnmarshalJSON decodes the content shape selected by the type discriminant.
func (s *Slide) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    SlideType       `json:"type"`
		Content json.RawMessage `json:"content"`
		Order   int             `json:"order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	content, err := DecodeContent(raw.Type, raw.Content)
	if err != nil {
		return err
	}

	s.Type = raw.Type
	s.Content = content
	s.Order = raw.Order
	return nil
}

// DecodeContent unmarshals raw JSON into the content struct for the given type.
func DecodeContent(t SlideType, raw []byte) (SlideContent, error) {
	switch t {
	case SlideTypeTitle:
		var c TitleContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SlideTypeBullet:
		var c BulletContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SlideTypeTable:
		var c TableContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SlideTypeFlowchart:
		var c FlowchartContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SlideTypeTwoColumn:
		var c TwoColumnContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown slide type %q", t)
	}
}

// VerificationResult is the judgment returned by the faithfulness verifier.
type VerificationResult struct {
	Valid      bool     `json:"valid"`
	Issues     []string `json:"issues,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Metadata describes a completed pipeline run.
type Metadata struct {
	RunID            string    `json:"runId"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	DurationMillis   int64     `json:"duration"`
	RecursionEnabled bool      `json:"recursionEnabled"`
	// TotalStages is the progress denominator announced at the start of the
	// run (9 with verification, 5 without). It undercounts decks with more
	// than one topic and is informational only.
	TotalStages int `json:"totalStages"`
}

// PipelineResult is the complete deck plus timing metadata. Slides are sorted
// by Order ascending.
type PipelineResult struct {
	Slides   []Slide  `json:"slides"`
	Metadata Metadata `json:"metadata"`
}
