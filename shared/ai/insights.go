package ai

import (
	"context"
	"fmt"
	"strings"

	"bilitrends/internal/models"
	"bilitrends/shared/config"

	"google.golang.org/genai"
)

// maxPromptVideos bounds how many records go into the prompt; the
// summary covers the rest.
const maxPromptVideos = 15

// Insights generates a short prose analysis of a trending snapshot for
// the narrative report. Entirely optional: the agent skips it when no
// API key is configured.
type Insights struct {
	client *genai.Client
	model  string
}

func NewInsights(cfg *config.AIConfig) (*Insights, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Insights{
		client: client,
		model:  cfg.Model,
	}, nil
}

// TrendInsights asks the model for a few paragraphs about what is
// trending and why, based on the enriched records.
func (i *Insights) TrendInsights(ctx context.Context, videos []*models.EnrichedVideo) (string, error) {
	if len(videos) == 0 {
		return "", fmt.Errorf("no videos to analyze")
	}

	prompt := buildInsightsPrompt(videos)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := i.client.Models.GenerateContent(ctx, i.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate trend insights: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty insights response")
	}
	return text, nil
}

func buildInsightsPrompt(videos []*models.EnrichedVideo) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are analyzing a snapshot of Bilibili's popular video chart with %d entries.

Write 2-3 short paragraphs in Markdown (no headings) covering: the dominant content categories, anything notable about the top-ranked videos, and patterns worth a viewer's attention. Be concrete, reference titles sparingly, do not invent numbers.

Chart entries (rank. title | category | plays | likes):
`, len(videos))

	limit := len(videos)
	if limit > maxPromptVideos {
		limit = maxPromptVideos
	}
	for _, v := range videos[:limit] {
		fmt.Fprintf(&b, "%d. %s | %s | %s | %s\n", v.Rank, v.Title, v.Tname, v.PlayCount, v.LikeCount)
	}
	if len(videos) > limit {
		fmt.Fprintf(&b, "(and %d more entries)\n", len(videos)-limit)
	}

	return b.String()
}
