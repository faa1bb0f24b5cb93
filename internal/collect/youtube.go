// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jwpark/challenge-radar/internal/httputil"
)

// YouTube Data API endpoints. Declared as vars so tests can substitute
// an httptest server.
var (
	youtubeSearchBase = "https://www.googleapis.com/youtube/v3/search"
	youtubeVideosBase = "https://www.googleapis.com/youtube/v3/videos"
)

// Estimated quota cost per YouTube Data API call.
const (
	searchQuotaCost = 100
	videosQuotaCost = 1
)

// videosPerDetailsCall is the maximum id batch size for videos.list.
const videosPerDetailsCall = 50

// youtubeClient issues raw YouTube Data API requests.
type youtubeClient struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

// search runs one search.list call and returns the matching video IDs
// with their snippets. Results are restricted to short videos published
// after the given time.
func (y *youtubeClient) search(ctx context.Context, term, regionCode string, publishedAfter time.Time, maxResults int) ([]searchItem, error) {
	params := url.Values{
		"part":           {"snippet"},
		"q":              {term},
		"type":           {"video"},
		"videoDuration":  {"short"},
		"order":          {"viewCount"},
		"maxResults":     {strconv.Itoa(maxResults)},
		"publishedAfter": {publishedAfter.UTC().Format(time.RFC3339)},
		"key":            {y.apiKey},
	}
	if regionCode != "" {
		params.Set("regionCode", regionCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := httputil.DoWithRetry(ctx, y.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("YouTube search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube search returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing YouTube search response: %w", err)
	}

	var items []searchItem
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// details runs videos.list for a batch of IDs and returns statistics and
// duration per video. IDs beyond the API's batch size are the caller's
// problem; pass at most videosPerDetailsCall.
func (y *youtubeClient) details(ctx context.Context, ids []string) ([]videoItem, error) {
	params := url.Values{
		"part": {"snippet,statistics,contentDetails"},
		"id":   {strings.Join(ids, ",")},
		"key":  {y.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeVideosBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := httputil.DoWithRetry(ctx, y.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("YouTube videos request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube videos returned HTTP %d", resp.StatusCode)
	}

	var vr videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("parsing YouTube videos response: %w", err)
	}
	return vr.Items, nil
}

// YouTube Data API JSON structures.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      searchItemID `json:"id"`
	Snippet snippet      `json:"snippet"`
}

type searchItemID struct {
	VideoID string `json:"videoId"`
}

type snippet struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  time.Time `json:"publishedAt"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	Statistics     statistics     `json:"statistics"`
	ContentDetails contentDetails `json:"contentDetails"`
}

// statistics counts arrive as decimal strings.
type statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

func (s statistics) views() int64    { return parseCount(s.ViewCount) }
func (s statistics) likes() int64    { return parseCount(s.LikeCount) }
func (s statistics) comments() int64 { return parseCount(s.CommentCount) }

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseISODuration converts an ISO 8601 duration like "PT1M3S" to seconds.
// Unparseable input yields zero.
func parseISODuration(d string) int {
	if !strings.HasPrefix(d, "PT") {
		return 0
	}
	d = d[2:]

	seconds := 0
	num := 0
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H':
			seconds += num * 3600
			num = 0
		case r == 'M':
			seconds += num * 60
			num = 0
		case r == 'S':
			seconds += num
			num = 0
		default:
			return 0
		}
	}
	return seconds
}
