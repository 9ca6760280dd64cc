// internal/stages/segment/models.go
package segment

import "slideforge/internal/deck"

// Output is the segmentation result: at least one topic, each slated to become
// one slide. Topic order among equal values is preserved as returned.
type Output struct {
	Topics []deck.Topic `json:"topics"`
}
