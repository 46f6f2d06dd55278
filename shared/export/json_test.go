package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bilitrends/internal/models"
)

func TestWriteJSON(t *testing.T) {
	records := sampleRecords()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []*models.EnrichedVideo
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode JSON dump: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(decoded))
	}

	// No field omission: everything survives the round trip.
	for i, rec := range records {
		if *decoded[i] != *rec {
			t.Errorf("Record %d mismatch:\n got %+v\nwant %+v", i, decoded[i], rec)
		}
	}
}

func TestWriteJSONNoHTMLEscaping(t *testing.T) {
	records := []*models.EnrichedVideo{{
		Rank:  1,
		Title: "A & B <live>",
		Pic:   "https://example.com/cover.jpg?a=1&b=2",
	}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, `\u0026`) || strings.Contains(out, `\u003c`) {
		t.Errorf("HTML escaping should be disabled, got: %s", out)
	}
	if !strings.Contains(out, "A & B <live>") {
		t.Errorf("Title not preserved verbatim: %s", out)
	}
}
