package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ChartTracker keeps a persistent record of which videos appeared on
// recent popular charts, so reports can flag newcomers.
type ChartTracker struct {
	filePath string
	seen     map[string]time.Time
	mu       sync.RWMutex
	maxAge   time.Duration
}

// ChartedVideo is one persisted entry of the tracker file.
type ChartedVideo struct {
	Bvid      string    `json:"bvid"`
	ChartedAt time.Time `json:"charted_at"`
}

// NewChartTracker opens (or creates) the tracker under dataDir.
// Entries older than maxAge are dropped on load.
func NewChartTracker(dataDir string, maxAge time.Duration) (*ChartTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &ChartTracker{
		filePath: filepath.Join(dataDir, "charted_videos.json"),
		seen:     make(map[string]time.Time),
		maxAge:   maxAge,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load chart tracker data: %w", err)
	}
	tracker.cleanup()

	return tracker, nil
}

// Seen reports whether a video appeared on a chart within maxAge.
func (t *ChartTracker) Seen(bvid string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	chartedAt, exists := t.seen[bvid]
	if !exists {
		return false
	}
	return time.Since(chartedAt) < t.maxAge
}

// MarkSeen records a batch of videos as charted now.
func (t *ChartTracker) MarkSeen(bvids []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for _, bvid := range bvids {
		t.seen[bvid] = now
	}
	return t.save()
}

// Count returns the number of tracked videos.
func (t *ChartTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.seen)
}

func (t *ChartTracker) cleanup() {
	cutoff := time.Now().Add(-t.maxAge)
	for bvid, chartedAt := range t.seen {
		if chartedAt.Before(cutoff) {
			delete(t.seen, bvid)
		}
	}
}

func (t *ChartTracker) load() error {
	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, start empty.
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var entries []ChartedVideo
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}

	for _, e := range entries {
		t.seen[e.Bvid] = e.ChartedAt
	}
	return nil
}

func (t *ChartTracker) save() error {
	var entries []ChartedVideo
	for bvid, chartedAt := range t.seen {
		entries = append(entries, ChartedVideo{
			Bvid:      bvid,
			ChartedAt: chartedAt,
		})
	}

	file, err := os.Create(t.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
