// internal/export/markdown.go
package export

import (
	"fmt"
	"strings"

	"slideforge/internal/deck"
)

// Markdown renders the completed deck as a markdown outline, one section per
// slide in deck order.
func Markdown(result *deck.PipelineResult) string {
	var b strings.Builder

	for i, slide := range result.Slides {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		writeSlide(&b, slide)
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "_%d slides, generated %s in %dms_\n",
		len(result.Slides),
		result.Metadata.StartTime.Format("2006-01-02 15:04"),
		result.Metadata.DurationMillis,
	)

	return b.String()
}

func writeSlide(b *strings.Builder, slide deck.Slide) {
	switch content := slide.Content.(type) {
	case deck.TitleContent:
		fmt.Fprintf(b, "# %s\n", content.Title)
		if content.Subtitle != "" {
			fmt.Fprintf(b, "\n_%s_\n", content.Subtitle)
		}
	case deck.BulletContent:
		fmt.Fprintf(b, "## %s\n\n", content.Title)
		for _, bullet := range content.Bullets {
			fmt.Fprintf(b, "- %s\n", bullet.Text)
			for _, sub := range bullet.SubPoints {
				fmt.Fprintf(b, "  - %s\n", sub)
			}
		}
	case deck.TableContent:
		fmt.Fprintf(b, "## %s\n\n", content.Title)
		fmt.Fprintf(b, "| %s |\n", strings.Join(content.Headers, " | "))
		sep := make([]string, len(content.Headers))
		for i := range sep {
			sep[i] = "---"
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(sep, " | "))
		for _, row := range content.Rows {
			fmt.Fprintf(b, "| %s |\n", strings.Join(row, " | "))
		}
	case deck.FlowchartContent:
		fmt.Fprintf(b, "## %s\n\n", content.Title)
		for i, step := range content.Steps {
			fmt.Fprintf(b, "%d. **%s**", i+1, step.Step)
			if step.Description != "" {
				fmt.Fprintf(b, " — %s", step.Description)
			}
			b.WriteString("\n")
		}
	case deck.TwoColumnContent:
		fmt.Fprintf(b, "## %s\n\n", content.Title)
		fmt.Fprintf(b, "### %s\n\n", content.LeftTitle)
		for _, item := range content.LeftContent {
			fmt.Fprintf(b, "- %s\n", item)
		}
		fmt.Fprintf(b, "\n### %s\n\n", content.RightTitle)
		for _, item := range content.RightContent {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
}
