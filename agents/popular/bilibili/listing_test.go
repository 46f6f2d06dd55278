package bilibili

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func listingPage(bvids ...string) string {
	list := ""
	for i, bvid := range bvids {
		if i > 0 {
			list += ","
		}
		list += fmt.Sprintf(`{"bvid":%q,"title":"video %s","owner":{"mid":1,"name":"up"}}`, bvid, bvid)
	}
	return fmt.Sprintf(`{"code":0,"message":"0","data":{"list":[%s]}}`, list)
}

func TestFetchPopularMultiplePages(t *testing.T) {
	var gotPS []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPS = append(gotPS, r.URL.Query().Get("ps"))
		switch r.URL.Query().Get("pn") {
		case "1":
			fmt.Fprint(w, listingPage("BV1aaa", "BV1bbb"))
		case "2":
			fmt.Fprint(w, listingPage("BV1ccc"))
		default:
			fmt.Fprint(w, `{"code":0,"message":"0","data":{"list":[]}}`)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	videos, err := client.FetchPopular(context.Background(), 2, 1, 2)
	if err != nil {
		t.Fatalf("FetchPopular failed: %v", err)
	}

	if len(videos) != 3 {
		t.Fatalf("Expected 3 videos, got %d", len(videos))
	}

	// Order must be concatenation order across pages.
	want := []string{"BV1aaa", "BV1bbb", "BV1ccc"}
	for i, bvid := range want {
		if videos[i].Bvid != bvid {
			t.Errorf("Video %d: got %s, want %s", i, videos[i].Bvid, bvid)
		}
	}

	for _, ps := range gotPS {
		if ps != "2" {
			t.Errorf("Expected ps=2 on every request, got %s", ps)
		}
	}
}

func TestFetchPopularStopsOnErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pn") == "1" {
			fmt.Fprint(w, listingPage("BV1aaa", "BV1bbb"))
			return
		}
		fmt.Fprint(w, `{"code":-412,"message":"request blocked","data":null}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	videos, err := client.FetchPopular(context.Background(), 2, 1, 3)
	if err != nil {
		t.Fatalf("FetchPopular failed: %v", err)
	}

	// First page's items are retained, later pages abandoned.
	if len(videos) != 2 {
		t.Fatalf("Expected 2 videos from the first page, got %d", len(videos))
	}
	if videos[0].Bvid != "BV1aaa" || videos[1].Bvid != "BV1bbb" {
		t.Errorf("First page items lost or reordered: %v, %v", videos[0].Bvid, videos[1].Bvid)
	}
}

func TestFetchPopularStopsOnEmptyPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("pn") == "1" {
			fmt.Fprint(w, listingPage("BV1aaa"))
			return
		}
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"list":[]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	videos, err := client.FetchPopular(context.Background(), 50, 1, 5)
	if err != nil {
		t.Fatalf("FetchPopular failed: %v", err)
	}

	if len(videos) != 1 {
		t.Errorf("Expected 1 video, got %d", len(videos))
	}
	if requests != 2 {
		t.Errorf("Pagination should stop after the empty page, got %d requests", requests)
	}
}

func TestFetchPopularKeepsItemsOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage("BV1aaa"))
	}))

	client := NewClient(testConfig(server.URL))

	// First page succeeds, then the upstream goes away.
	videos, err := client.FetchPopular(context.Background(), 1, 1, 1)
	if err != nil {
		t.Fatalf("FetchPopular failed: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("Expected 1 video, got %d", len(videos))
	}

	server.Close()
	videos, err = client.FetchPopular(context.Background(), 1, 1, 3)
	if err != nil {
		t.Fatalf("FetchPopular should not error on transport failure: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("Expected no videos after transport failure, got %d", len(videos))
	}
}

func TestFetchPopularBadParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pn") == "1" {
			fmt.Fprint(w, listingPage("BV1aaa"))
			return
		}
		fmt.Fprint(w, "not json at all")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	videos, err := client.FetchPopular(context.Background(), 10, 1, 2)
	if err != nil {
		t.Fatalf("FetchPopular failed: %v", err)
	}
	if len(videos) != 1 {
		t.Errorf("Expected the first page to survive a parse error, got %d videos", len(videos))
	}
}

func TestFetchPopularInvalidParameters(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"))

	tests := []struct {
		name      string
		pageSize  int
		startPage int
		maxPages  int
	}{
		{"PageSizeZero", 0, 1, 1},
		{"PageSizeTooLarge", 101, 1, 1},
		{"StartPageZero", 50, 0, 1},
		{"MaxPagesZero", 50, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.FetchPopular(context.Background(), tt.pageSize, tt.startPage, tt.maxPages); err == nil {
				t.Error("Expected parameter validation error")
			}
		})
	}
}
