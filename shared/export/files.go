package export

import (
	"fmt"
	"os"
	"time"

	"bilitrends/internal/models"
)

// DefaultName builds a timestamped file name for an export when no
// explicit name is configured.
func DefaultName(kind string, now time.Time) string {
	stamp := now.Format("20060102_150405")
	switch kind {
	case "markdown":
		return fmt.Sprintf("bilibili_popular_report_%s.md", stamp)
	case "csv":
		return fmt.Sprintf("bilibili_popular_%s.csv", stamp)
	default:
		return fmt.Sprintf("bilibili_popular_%s.json", stamp)
	}
}

// ExportJSON writes the structured dump to path.
func ExportJSON(path string, videos []*models.EnrichedVideo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, videos)
}

// ExportCSV writes the tabular export to path. A UTF-8 BOM is
// prepended so spreadsheet tools detect the encoding.
func ExportCSV(path string, videos []*models.EnrichedVideo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	return WriteCSV(f, videos)
}

// ExportReport writes the Markdown narrative report to path.
func ExportReport(path string, videos []*models.EnrichedVideo, now time.Time, insights string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(f, videos, now, insights)
}
