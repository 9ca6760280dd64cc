// internal/stages/paraphrase/models.go
package paraphrase

// Output is the paraphrase stage result. It is an informational sanity
// artifact; no later stage consumes it.
type Output struct {
	Paraphrase string  `json:"paraphrase"`
	Confidence float64 `json:"confidence,omitempty"`
}
