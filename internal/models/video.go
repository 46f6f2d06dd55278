package models

// NotAvailable is the sentinel used for any counter that could not be
// obtained from either upstream source.
const NotAvailable = "N/A"

// Owner identifies the uploader of a video as returned by the popular
// listing endpoint.
type Owner struct {
	Mid  int64  `json:"mid"`
	Name string `json:"name"`
	Face string `json:"face"`
}

// PopularVideo is one raw entry of the popular listing. It is read once
// and never mutated; enrichment builds an EnrichedVideo from it.
type PopularVideo struct {
	Bvid        string `json:"bvid"`
	Title       string `json:"title"`
	Desc        string `json:"desc"`
	Pic         string `json:"pic"`
	FirstFrame  string `json:"first_frame"`
	PubLocation string `json:"pub_location"`
	ShortLink   string `json:"short_link_v2"`
	Owner       Owner  `json:"owner"`
}

// ScrapedStats holds the six counters extracted from the video detail
// page. Each field is either a plain digit string or NotAvailable.
type ScrapedStats struct {
	Play     string
	Danmaku  string
	Like     string
	Coin     string
	Favorite string
	Share    string
}

// UnavailableScrapedStats returns a ScrapedStats with every counter set
// to the NotAvailable sentinel.
func UnavailableScrapedStats() ScrapedStats {
	return ScrapedStats{
		Play:     NotAvailable,
		Danmaku:  NotAvailable,
		Like:     NotAvailable,
		Coin:     NotAvailable,
		Favorite: NotAvailable,
		Share:    NotAvailable,
	}
}

// DetailStats holds the statistics and metadata returned by the
// structured view API. A nil *DetailStats means the fetch produced
// nothing usable.
type DetailStats struct {
	View     int64  `json:"view"`
	Danmaku  int64  `json:"danmaku"`
	Like     int64  `json:"like"`
	Coin     int64  `json:"coin"`
	Favorite int64  `json:"favorite"`
	Share    int64  `json:"share"`
	Reply    int64  `json:"reply"`
	Duration int    `json:"duration"`
	Pubdate  int64  `json:"pubdate"`
	Cid      int64  `json:"cid"`
	Tname    string `json:"tname"`
}

// EnrichedVideo is the final merged record for one listed video. Ranks
// are 1-based and contiguous over the whole run; enrichment failures
// degrade individual fields, they never drop the record.
type EnrichedVideo struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Desc        string `json:"desc"`
	Bvid        string `json:"bvid"`
	ShortLink   string `json:"short_link"`
	Pic         string `json:"pic"`
	FirstFrame  string `json:"first_frame"`
	PubLocation string `json:"pub_location"`
	OwnerName   string `json:"owner_name"`
	OwnerMid    int64  `json:"owner_mid"`
	OwnerFace   string `json:"owner_face"`

	PlayCount     string `json:"play_count"`
	DanmakuCount  string `json:"danmaku_count"`
	LikeCount     string `json:"like_count"`
	CoinCount     string `json:"coin_count"`
	FavoriteCount string `json:"favorite_count"`
	ShareCount    string `json:"share_count"`
	ReplyCount    string `json:"reply_count"`

	Duration          int    `json:"duration"`
	DurationFormatted string `json:"duration_formatted"`
	PublishTime       string `json:"publish_time"`
	Cid               int64  `json:"cid"`
	Tname             string `json:"tname"`

	FetchTime string `json:"fetch_time"`
	IsNew     bool   `json:"is_new"`
}
