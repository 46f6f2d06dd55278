package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bilitrends/internal/models"
)

// listResponse is the envelope returned by the popular listing endpoint.
type listResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List []*models.PopularVideo `json:"list"`
	} `json:"data"`
}

// FetchPopular pages through the popular listing and returns the
// accumulated entries in concatenation order, which defines the final
// ranking. Upstream errors and empty pages end pagination but keep
// everything fetched so far; only invalid parameters return an error.
func (c *Client) FetchPopular(ctx context.Context, pageSize, startPage, maxPages int) ([]*models.PopularVideo, error) {
	if pageSize < 1 || pageSize > 100 {
		return nil, fmt.Errorf("page size must be between 1 and 100, got %d", pageSize)
	}
	if startPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", startPage)
	}
	if maxPages < 1 {
		return nil, fmt.Errorf("max pages must be at least 1, got %d", maxPages)
	}

	var all []*models.PopularVideo

	for page := startPage; page < startPage+maxPages; page++ {
		log.Printf("Fetching popular page %d...", page)

		url := fmt.Sprintf("%s/x/web-interface/popular?ps=%d&pn=%d", c.cfg.APIBase, pageSize, page)
		body, err := c.get(ctx, c.listing, url)
		if err != nil {
			log.Printf("Warning: failed to fetch page %d: %v", page, err)
			break
		}

		var envelope listResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			log.Printf("Warning: failed to parse page %d: %v", page, err)
			break
		}

		if envelope.Code != 0 {
			// Expected termination condition, not a hard error.
			log.Printf("Warning: page %d returned code %d: %s", page, envelope.Code, envelope.Message)
			break
		}

		if len(envelope.Data.List) == 0 {
			log.Printf("Page %d is empty, no more videos", page)
			break
		}

		all = append(all, envelope.Data.List...)
		log.Printf("Page %d fetched, %d videos", page, len(envelope.Data.List))

		if page < startPage+maxPages-1 {
			select {
			case <-ctx.Done():
				return all, nil
			case <-time.After(c.PageDelay()):
			}
		}
	}

	return all, nil
}
