// internal/export/export.go
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"slideforge/internal/deck"
)

// WriteAll renders the deck in every requested format, returning the paths
// written. baseName is used without extension; outputs land in outputDir.
func WriteAll(result *deck.PipelineResult, outputDir, baseName string, formats []string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		path := filepath.Join(outputDir, baseName+"."+extension(format))
		var err error
		switch format {
		case "json":
			err = writeJSON(result, path)
		case "markdown":
			err = os.WriteFile(path, []byte(Markdown(result)), 0644)
		case "docx":
			err = WriteDocx(result, path)
		default:
			err = fmt.Errorf("unsupported export format %q", format)
		}
		if err != nil {
			return written, fmt.Errorf("export %s: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func extension(format string) string {
	if format == "markdown" {
		return "md"
	}
	return format
}

func writeJSON(result *deck.PipelineResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
