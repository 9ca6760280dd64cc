// internal/export/docx.go
package export

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"slideforge/internal/deck"
)

const (
	fontName = "Calibri"
	fontSize = 12
)

// WriteDocx renders the deck as a styled docx outline, one heading per slide.
func WriteDocx(result *deck.PipelineResult, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	for _, slide := range result.Slides {
		addSlide(doc, slide)
		doc.AddParagraph("")
	}

	addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d slides, generated %s",
		len(result.Slides),
		result.Metadata.StartTime.Format("2006-01-02 15:04"),
	), false, 10)

	return doc.SaveTo(outputPath)
}

func addSlide(doc *docx.RootDoc, slide deck.Slide) {
	switch content := slide.Content.(type) {
	case deck.TitleContent:
		addStyledRun(doc.AddParagraph(""), content.Title, true, 18)
		if content.Subtitle != "" {
			addStyledRun(doc.AddParagraph(""), content.Subtitle, false, fontSize)
		}
	case deck.BulletContent:
		addStyledRun(doc.AddParagraph(""), content.Title, true, 15)
		for _, bullet := range content.Bullets {
			addStyledRun(doc.AddParagraph(""), "• "+bullet.Text, false, fontSize)
			for _, sub := range bullet.SubPoints {
				addStyledRun(doc.AddParagraph(""), "    ◦ "+sub, false, fontSize)
			}
		}
	case deck.TableContent:
		addStyledRun(doc.AddParagraph(""), content.Title, true, 15)
		addStyledRun(doc.AddParagraph(""), joinRow(content.Headers), true, fontSize)
		for _, row := range content.Rows {
			addStyledRun(doc.AddParagraph(""), joinRow(row), false, fontSize)
		}
	case deck.FlowchartContent:
		addStyledRun(doc.AddParagraph(""), content.Title, true, 15)
		for i, step := range content.Steps {
			line := fmt.Sprintf("%d. %s", i+1, step.Step)
			if step.Description != "" {
				line += " — " + step.Description
			}
			addStyledRun(doc.AddParagraph(""), line, false, fontSize)
		}
	case deck.TwoColumnContent:
		addStyledRun(doc.AddParagraph(""), content.Title, true, 15)
		addStyledRun(doc.AddParagraph(""), content.LeftTitle, true, fontSize)
		for _, item := range content.LeftContent {
			addStyledRun(doc.AddParagraph(""), "• "+item, false, fontSize)
		}
		addStyledRun(doc.AddParagraph(""), content.RightTitle, true, fontSize)
		for _, item := range content.RightContent {
			addStyledRun(doc.AddParagraph(""), "• "+item, false, fontSize)
		}
	}
}

func joinRow(cells []string) string {
	line := ""
	for i, cell := range cells {
		if i > 0 {
			line += " | "
		}
		line += cell
	}
	return line
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
