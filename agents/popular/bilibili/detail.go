package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bilitrends/internal/models"
	"bilitrends/shared/export"
)

// statPatterns are tried in order against the detail page body; the
// first match wins. The six groups are play, danmaku, like, coin,
// favorite and share counts as rendered in the page's description
// prose. Brittle by construction: a markup change upstream silently
// degrades every counter to N/A.
var statPatterns = []*regexp.Regexp{
	regexp.MustCompile(`视频播放量 (\d+[,]?\d*)、弹幕量 (\d+[,]?\d*)、点赞数 (\d+[,]?\d*)、投硬币枚数 (\d+[,]?\d*)、收藏人数 (\d+[,]?\d*)、转发人数 (\d+[,]?\d*)`),
	regexp.MustCompile(`播放量 (\d+[,]?\d*).*弹幕量 (\d+[,]?\d*).*点赞数 (\d+[,]?\d*).*投硬币枚数 (\d+[,]?\d*).*收藏人数 (\d+[,]?\d*).*转发人数 (\d+[,]?\d*)`),
}

// extractScrapedStats applies the ordered pattern list to the page body.
// The second return value reports whether any pattern matched.
func extractScrapedStats(body string) (models.ScrapedStats, bool) {
	for _, pattern := range statPatterns {
		m := pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		return models.ScrapedStats{
			Play:     strings.ReplaceAll(m[1], ",", ""),
			Danmaku:  strings.ReplaceAll(m[2], ",", ""),
			Like:     strings.ReplaceAll(m[3], ",", ""),
			Coin:     strings.ReplaceAll(m[4], ",", ""),
			Favorite: strings.ReplaceAll(m[5], ",", ""),
			Share:    strings.ReplaceAll(m[6], ",", ""),
		}, true
	}
	return models.UnavailableScrapedStats(), false
}

// scrapeStats fetches the video detail page and extracts the counters.
// Any failure degrades to all-N/A; it never returns an error.
func (c *Client) scrapeStats(ctx context.Context, bvid string) models.ScrapedStats {
	url := fmt.Sprintf("%s/video/%s", c.cfg.WebBase, bvid)

	body, err := c.get(ctx, c.detail, url)
	if err != nil {
		log.Printf("Warning: failed to scrape stats for %s: %v", bvid, err)
		return models.UnavailableScrapedStats()
	}

	stats, ok := extractScrapedStats(string(body))
	if !ok {
		// No regex matched. Expected whenever upstream changes its
		// markup, so not logged as an error.
		return models.UnavailableScrapedStats()
	}
	return stats
}

// viewResponse is the envelope returned by the structured view API.
type viewResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Stat struct {
			View     int64 `json:"view"`
			Danmaku  int64 `json:"danmaku"`
			Like     int64 `json:"like"`
			Coin     int64 `json:"coin"`
			Favorite int64 `json:"favorite"`
			Share    int64 `json:"share"`
			Reply    int64 `json:"reply"`
		} `json:"stat"`
		Duration int    `json:"duration"`
		Pubdate  int64  `json:"pubdate"`
		Cid      int64  `json:"cid"`
		Tname    string `json:"tname"`
	} `json:"data"`
}

// fetchDetail queries the view API for one video. It returns nil when
// the fetch or the envelope code fails; the caller treats nil as "no
// structured data available".
func (c *Client) fetchDetail(ctx context.Context, bvid string) *models.DetailStats {
	url := fmt.Sprintf("%s/x/web-interface/view?bvid=%s", c.cfg.APIBase, bvid)

	body, err := c.get(ctx, c.detail, url)
	if err != nil {
		log.Printf("Warning: failed to fetch detail for %s: %v", bvid, err)
		return nil
	}

	var envelope viewResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("Warning: failed to parse detail for %s: %v", bvid, err)
		return nil
	}
	if envelope.Code != 0 {
		log.Printf("Warning: detail API for %s returned code %d: %s", bvid, envelope.Code, envelope.Message)
		return nil
	}

	d := envelope.Data
	return &models.DetailStats{
		View:     d.Stat.View,
		Danmaku:  d.Stat.Danmaku,
		Like:     d.Stat.Like,
		Coin:     d.Stat.Coin,
		Favorite: d.Stat.Favorite,
		Share:    d.Stat.Share,
		Reply:    d.Stat.Reply,
		Duration: d.Duration,
		Pubdate:  d.Pubdate,
		Cid:      d.Cid,
		Tname:    d.Tname,
	}
}

// mergeCounter resolves one of the six shared counters: the scraped
// value wins, the structured value is the fallback, N/A when both are
// absent.
func mergeCounter(scraped string, api int64, apiOK bool) string {
	if scraped != models.NotAvailable {
		return scraped
	}
	if apiOK {
		return strconv.FormatInt(api, 10)
	}
	return models.NotAvailable
}

// Enrich builds the final record for one listed video. It is total:
// both sub-fetches may fail and the result is still a fully populated,
// ranked record with degraded counters.
func (c *Client) Enrich(ctx context.Context, rank int, v *models.PopularVideo, now time.Time, loc *time.Location) *models.EnrichedVideo {
	scraped := c.scrapeStats(ctx, v.Bvid)
	detail := c.fetchDetail(ctx, v.Bvid)

	apiOK := detail != nil
	if !apiOK {
		detail = &models.DetailStats{Tname: "unknown"}
	} else if detail.Tname == "" {
		detail.Tname = "unknown"
	}

	return &models.EnrichedVideo{
		Rank:        rank,
		Title:       v.Title,
		Desc:        v.Desc,
		Bvid:        v.Bvid,
		ShortLink:   v.ShortLink,
		Pic:         v.Pic,
		FirstFrame:  v.FirstFrame,
		PubLocation: v.PubLocation,
		OwnerName:   v.Owner.Name,
		OwnerMid:    v.Owner.Mid,
		OwnerFace:   v.Owner.Face,

		PlayCount:     mergeCounter(scraped.Play, detail.View, apiOK),
		DanmakuCount:  mergeCounter(scraped.Danmaku, detail.Danmaku, apiOK),
		LikeCount:     mergeCounter(scraped.Like, detail.Like, apiOK),
		CoinCount:     mergeCounter(scraped.Coin, detail.Coin, apiOK),
		FavoriteCount: mergeCounter(scraped.Favorite, detail.Favorite, apiOK),
		ShareCount:    mergeCounter(scraped.Share, detail.Share, apiOK),
		ReplyCount:    strconv.FormatInt(detail.Reply, 10),

		Duration:          detail.Duration,
		DurationFormatted: export.FormatDuration(detail.Duration),
		PublishTime:       export.FormatTimestamp(detail.Pubdate, loc),
		Cid:               detail.Cid,
		Tname:             detail.Tname,

		FetchTime: now.In(loc).Format("2006-01-02 15:04:05"),
	}
}
