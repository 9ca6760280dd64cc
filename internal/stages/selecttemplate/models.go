// internal/stages/selecttemplate/models.go
package selecttemplate

import "slideforge/internal/deck"

// Output is the template classification for one topic. Type is guaranteed to
// be a member of the closed slide type set after validation.
type Output struct {
	Topic     string         `json:"topic"`
	Type      deck.SlideType `json:"type"`
	Reasoning string         `json:"reasoning,omitempty"`
}
