package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bilitrends/internal/models"
)

// CSVHeader names the fixed column subset of the tabular export, in
// order.
var CSVHeader = []string{
	"rank", "title", "owner_name", "play_count", "danmaku_count",
	"like_count", "coin_count", "favorite_count", "share_count",
	"reply_count", "duration_formatted", "publish_time", "bvid",
	"pub_location", "tname",
}

// WriteCSV projects the records onto the fixed column subset, header
// row first. encoding/csv handles quoting of embedded delimiters and
// newlines.
func WriteCSV(w io.Writer, videos []*models.EnrichedVideo) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range videos {
		row := []string{
			strconv.Itoa(v.Rank),
			v.Title,
			v.OwnerName,
			v.PlayCount,
			v.DanmakuCount,
			v.LikeCount,
			v.CoinCount,
			v.FavoriteCount,
			v.ShareCount,
			v.ReplyCount,
			v.DurationFormatted,
			v.PublishTime,
			v.Bvid,
			v.PubLocation,
			v.Tname,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", v.Bvid, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
