package export

import (
	"encoding/json"
	"fmt"
	"io"

	"bilitrends/internal/models"
)

// WriteJSON serializes the full record list, every field included, as
// indented UTF-8 JSON with HTML escaping disabled.
func WriteJSON(w io.Writer, videos []*models.EnrichedVideo) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(videos); err != nil {
		return fmt.Errorf("failed to encode videos: %w", err)
	}
	return nil
}
