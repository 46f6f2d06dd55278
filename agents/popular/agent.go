package popular

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"bilitrends/agents/popular/bilibili"
	"bilitrends/internal/models"
	"bilitrends/shared/ai"
	"bilitrends/shared/config"
	"bilitrends/shared/email"
	"bilitrends/shared/export"
	"bilitrends/shared/scheduler"
	"bilitrends/shared/storage"
)

// newcomerWindow is how long a video stays "seen" before it counts as a
// chart newcomer again.
const newcomerWindow = 30 * 24 * time.Hour

// Metrics represents the counters collected during one snapshot run
type Metrics struct {
	Listed    int  `json:"listed"`
	Enriched  int  `json:"enriched"`
	Degraded  int  `json:"degraded"`
	Newcomers int  `json:"newcomers"`
	Exported  int  `json:"exported"`
	EmailSent bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m Metrics) GetSummary() string {
	return fmt.Sprintf("%d videos listed, %d enriched (%d degraded, %d new), %d exports written, email_sent=%t",
		m.Listed, m.Enriched, m.Degraded, m.Newcomers, m.Exported, m.EmailSent)
}

// Agent implements the scheduler.Agent interface: it drives one full
// fetch → enrich → export pass over the popular chart.
type Agent struct {
	config   *config.Config
	client   *bilibili.Client
	tracker  *storage.ChartTracker
	insights *ai.Insights
	sender   *email.Sender
	loc      *time.Location
}

func New(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
		loc:    time.Local,
	}
}

func (a *Agent) Name() string {
	return "Bilibili Popular Agent"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.client == nil {
		a.client = bilibili.NewClient(&a.config.Bilibili)
		log.Println("Bilibili client initialized")
	}

	if a.tracker == nil {
		tracker, err := storage.NewChartTracker(a.config.DataDir, newcomerWindow)
		if err != nil {
			return fmt.Errorf("failed to create chart tracker: %w", err)
		}
		a.tracker = tracker
		log.Printf("Chart tracker initialized (%d videos tracked)", tracker.Count())
	}

	if a.insights == nil && a.config.AI.GeminiAPIKey != "" {
		insights, err := ai.NewInsights(&a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create insights generator: %w", err)
		}
		a.insights = insights
		log.Println("Insights generator initialized")
	}

	if a.sender == nil && a.config.Email.Enabled() {
		a.sender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := Metrics{}

	log.Printf("Fetching popular videos (page size %d, start page %d, %d pages)...",
		a.config.Fetch.PageSize, a.config.Fetch.StartPage, a.config.Fetch.MaxPages)

	videos, err := a.client.FetchPopular(ctx,
		a.config.Fetch.PageSize, a.config.Fetch.StartPage, a.config.Fetch.MaxPages)
	if err != nil {
		return fmt.Errorf("failed to fetch popular listing: %w", err)
	}
	metrics.Listed = len(videos)

	if len(videos) == 0 {
		log.Println("No popular videos retrieved, nothing to do")
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(errors.New("no popular videos retrieved"), time.Since(startTime))
		}
		return nil
	}

	log.Printf("Fetched %d popular videos, enriching...", len(videos))

	enriched := a.enrichAll(ctx, videos, &metrics)
	metrics.Enriched = len(enriched)

	bvids := make([]string, 0, len(videos))
	for _, v := range videos {
		bvids = append(bvids, v.Bvid)
	}
	if err := a.tracker.MarkSeen(bvids); err != nil {
		log.Printf("Warning: failed to update chart tracker: %v", err)
	}

	insights := a.generateInsights(ctx, enriched, events, startTime)

	a.runExports(enriched, insights, &metrics)

	if a.sender != nil {
		digest := &email.Digest{
			Date:     time.Now(),
			Videos:   enriched,
			Summary:  export.Summarize(enriched, time.Now()),
			Insights: insights,
		}
		if err := a.sender.SendDigest(digest); err != nil {
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to send digest: %w", err), time.Since(startTime))
			}
			log.Printf("Warning: failed to send digest email: %v", err)
		} else {
			metrics.EmailSent = true
			log.Println("Digest email sent")
		}
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Snapshot complete: %s", metrics.GetSummary())
	return nil
}

// enrichAll maps every listed video to an enriched record, strictly in
// listing order. One item's failures never affect another; a record
// whose counters all degraded is still emitted at its rank.
func (a *Agent) enrichAll(ctx context.Context, videos []*models.PopularVideo, metrics *Metrics) []*models.EnrichedVideo {
	enriched := make([]*models.EnrichedVideo, 0, len(videos))

	for i, v := range videos {
		log.Printf("Enriching video %d/%d: %s", i+1, len(videos), truncateTitle(v.Title, 30))

		record := a.client.Enrich(ctx, i+1, v, time.Now(), a.loc)
		record.IsNew = !a.tracker.Seen(v.Bvid)
		if record.IsNew {
			metrics.Newcomers++
		}
		if fullyDegraded(record) {
			metrics.Degraded++
		}
		enriched = append(enriched, record)

		a.displayVideo(record)

		if i < len(videos)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(a.client.ItemDelay()):
			}
		}
	}

	return enriched
}

func (a *Agent) generateInsights(ctx context.Context, enriched []*models.EnrichedVideo, events *scheduler.AgentEvents, startTime time.Time) string {
	if a.insights == nil {
		return ""
	}

	log.Println("Generating trend insights...")
	text, err := a.insights.TrendInsights(ctx, enriched)
	if err != nil {
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("failed to generate insights: %w", err), time.Since(startTime))
		}
		log.Printf("Warning: failed to generate insights: %v", err)
		return ""
	}
	return text
}

// runExports writes each configured output. A failed export is logged
// and skipped; the others are still attempted.
func (a *Agent) runExports(enriched []*models.EnrichedVideo, insights string, metrics *Metrics) {
	now := time.Now()

	for _, format := range a.config.Export.Formats {
		var path string
		var err error

		switch format {
		case "json":
			path = a.exportPath(a.config.Export.JSONFile, "json", now)
			err = export.ExportJSON(path, enriched)
		case "csv":
			path = a.exportPath(a.config.Export.CSVFile, "csv", now)
			err = export.ExportCSV(path, enriched)
		case "markdown":
			path = a.exportPath(a.config.Export.ReportFile, "markdown", now)
			err = export.ExportReport(path, enriched, now, insights)
		default:
			// Unknown formats are rejected by config validation.
			continue
		}

		if err != nil {
			log.Printf("Warning: %s export failed: %v", format, err)
			continue
		}
		log.Printf("Exported %s to %s", format, path)
		metrics.Exported++
	}
}

func (a *Agent) exportPath(explicit, kind string, now time.Time) string {
	if explicit != "" {
		return filepath.Join(a.config.Export.OutputDir, explicit)
	}
	return filepath.Join(a.config.Export.OutputDir, export.DefaultName(kind, now))
}

func (a *Agent) displayVideo(v *models.EnrichedVideo) {
	log.Printf("  #%d %s", v.Rank, v.Title)
	log.Printf("     Uploader: %s | Category: %s", v.OwnerName, v.Tname)
	log.Printf("     Plays: %s | Danmaku: %s | Likes: %s",
		export.FormatCount(v.PlayCount), export.FormatCount(v.DanmakuCount), export.FormatCount(v.LikeCount))
	log.Printf("     Coins: %s | Favorites: %s | Shares: %s",
		export.FormatCount(v.CoinCount), export.FormatCount(v.FavoriteCount), export.FormatCount(v.ShareCount))
	log.Printf("     Duration: %s | Published: %s | %s", v.DurationFormatted, v.PublishTime, v.Bvid)
}

func fullyDegraded(v *models.EnrichedVideo) bool {
	return v.PlayCount == models.NotAvailable &&
		v.DanmakuCount == models.NotAvailable &&
		v.LikeCount == models.NotAvailable &&
		v.CoinCount == models.NotAvailable &&
		v.FavoriteCount == models.NotAvailable &&
		v.ShareCount == models.NotAvailable
}

func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
