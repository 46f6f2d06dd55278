package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"bilitrends/internal/models"
)

// Summary aggregates play counts across all records whose play count
// parses as a non-negative integer. When no record qualifies, the four
// values are all N/A.
type Summary struct {
	Count     int
	Generated time.Time
	Total     string
	Average   string
	Max       string
	Min       string
}

// Summarize computes the report summary block. The average uses integer
// floor division.
func Summarize(videos []*models.EnrichedVideo, now time.Time) Summary {
	s := Summary{
		Count:     len(videos),
		Generated: now,
		Total:     models.NotAvailable,
		Average:   models.NotAvailable,
		Max:       models.NotAvailable,
		Min:       models.NotAvailable,
	}

	var plays []int64
	for _, v := range videos {
		n, err := strconv.ParseInt(v.PlayCount, 10, 64)
		if err != nil || n < 0 {
			continue
		}
		plays = append(plays, n)
	}
	if len(plays) == 0 {
		return s
	}

	total, max, min := int64(0), plays[0], plays[0]
	for _, n := range plays {
		total += n
		if n > max {
			max = n
		}
		if n < min {
			min = n
		}
	}

	s.Total = FormatCount(strconv.FormatInt(total, 10))
	s.Average = FormatCount(strconv.FormatInt(total/int64(len(plays)), 10))
	s.Max = FormatCount(strconv.FormatInt(max, 10))
	s.Min = FormatCount(strconv.FormatInt(min, 10))
	return s
}

// CategoryCount is one entry of the category distribution.
type CategoryCount struct {
	Name  string
	Count int
}

// CategoryDistribution counts records per category, sorted by
// descending count with ties broken by first encounter.
func CategoryDistribution(videos []*models.EnrichedVideo) []CategoryCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, v := range videos {
		name := v.Tname
		if name == "" {
			name = "unknown"
		}
		if _, ok := counts[name]; !ok {
			firstSeen[name] = i
			order = append(order, name)
		}
		counts[name]++
	}

	dist := make([]CategoryCount, 0, len(order))
	for _, name := range order {
		dist = append(dist, CategoryCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return firstSeen[dist[i].Name] < firstSeen[dist[j].Name]
	})
	return dist
}

// WriteReport renders the Markdown narrative report: summary block,
// category distribution, then one detailed section per record in rank
// order. A non-empty insights string is included as its own section.
func WriteReport(w io.Writer, videos []*models.EnrichedVideo, now time.Time, insights string) error {
	summary := Summarize(videos, now)

	write := func(format string, args ...any) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	}

	if err := write("# Bilibili Popular Video Report\n\n"); err != nil {
		return err
	}
	if err := write("## Report Info\n- **Generated**: %s\n- **Videos analyzed**: %d\n\n",
		summary.Generated.Format("2006-01-02 15:04:05"), summary.Count); err != nil {
		return err
	}

	if err := write("## Summary\n- **Total plays**: %s\n- **Average plays**: %s\n- **Max plays**: %s\n- **Min plays**: %s\n\n",
		summary.Total, summary.Average, summary.Max, summary.Min); err != nil {
		return err
	}

	if err := write("## Category Distribution\n"); err != nil {
		return err
	}
	for _, cat := range CategoryDistribution(videos) {
		pct := 0.0
		if len(videos) > 0 {
			pct = float64(cat.Count) / float64(len(videos)) * 100
		}
		if err := write("- **%s**: %d videos (%.1f%%)\n", cat.Name, cat.Count, pct); err != nil {
			return err
		}
	}
	if err := write("\n"); err != nil {
		return err
	}

	if insights != "" {
		if err := write("## Insights\n%s\n\n", insights); err != nil {
			return err
		}
	}

	if err := write("## Videos\n\n"); err != nil {
		return err
	}
	for _, v := range videos {
		if err := writeVideoSection(w, v); err != nil {
			return err
		}
	}

	return nil
}

func writeVideoSection(w io.Writer, v *models.EnrichedVideo) error {
	title := v.Title
	if v.IsNew {
		title += " 🆕"
	}

	_, err := fmt.Fprintf(w, `### %d. %s

**Uploader**: [%s](https://space.bilibili.com/%d)

**Stats**:
- Plays: %s | Danmaku: %s | Likes: %s
- Coins: %s | Favorites: %s | Shares: %s
- Replies: %s

**Info**:
- Published: %s
- Duration: %s
- Location: %s
- Category: %s

**Link**: [watch](https://www.bilibili.com/video/%s)

**Cover**: ![%s](%s)

`,
		v.Rank, title,
		v.OwnerName, v.OwnerMid,
		FormatCount(v.PlayCount), FormatCount(v.DanmakuCount), FormatCount(v.LikeCount),
		FormatCount(v.CoinCount), FormatCount(v.FavoriteCount), FormatCount(v.ShareCount),
		FormatCount(v.ReplyCount),
		v.PublishTime, v.DurationFormatted, orUnknown(v.PubLocation), v.Tname,
		v.Bvid,
		truncate(v.Title, 20), v.Pic,
	)
	if err != nil {
		return err
	}

	if v.Desc != "" {
		if _, err := fmt.Fprintf(w, "**Description**: %s\n\n", v.Desc); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(w, "---\n\n")
	return err
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
