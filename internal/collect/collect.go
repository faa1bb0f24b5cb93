// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers raw short-form videos from the YouTube Data
// API. It fans search terms out to search.list, deduplicates IDs, fills
// in statistics via videos.list, keeps only true shorts, and returns the
// pool sorted by view count. A circuit breaker and a process-lifetime
// quota guard keep a failing or quota-exhausted API from being hammered.
//
// See docs/ARCHITECTURE § Collection.
package collect

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// maxShortSeconds is the duration cutoff for short-form video.
const maxShortSeconds = 60

// Collector fetches raw videos for a collection request. Safe for
// concurrent use.
type Collector struct {
	cfg     types.CollectorConfig
	yt      *youtubeClient
	breaker *gobreaker.CircuitBreaker[[]types.RawVideo]

	// now is the clock; tests substitute a fixed one.
	now func() time.Time

	mu         sync.Mutex
	quotaSpent int
}

// New creates a Collector from configuration. client may be nil to use
// http.DefaultClient.
func New(cfg types.CollectorConfig, client *http.Client) *Collector {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxPerQuery <= 0 {
		cfg.MaxPerQuery = 20
	}
	if cfg.MaxDailyQuota <= 0 {
		cfg.MaxDailyQuota = 10000
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	return &Collector{
		cfg: cfg,
		yt: &youtubeClient{
			apiKey:    cfg.APIKey,
			userAgent: cfg.UserAgent,
			client:    client,
		},
		breaker: newBreaker(cfg),
		now:     time.Now,
	}
}

// Collect fetches, deduplicates, and ranks raw videos for the request.
// Results come back sorted by view count descending and capped at
// req.MaxTotal. An open circuit breaker or exhausted quota returns an
// error immediately.
func (c *Collector) Collect(ctx context.Context, req types.CollectionRequest) ([]types.RawVideo, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no search terms in collection request")
	}

	return c.breaker.Execute(func() ([]types.RawVideo, error) {
		return c.collect(ctx, req)
	})
}

func (c *Collector) collect(ctx context.Context, req types.CollectionRequest) ([]types.RawVideo, error) {
	days := req.Days
	if days <= 0 {
		days = 7
	}
	publishedAfter := c.now().AddDate(0, 0, -days)

	maxPerQuery := req.MaxPerQuery
	if maxPerQuery <= 0 || maxPerQuery > c.cfg.MaxPerQuery {
		maxPerQuery = c.cfg.MaxPerQuery
	}

	regionCode := req.RegionCode
	if regionCode == "" {
		regionCode = c.cfg.RegionCode
	}

	// Search per term, deduplicating by video ID across terms.
	seen := map[string]bool{}
	var ids []string
	snippets := map[string]snippet{}

	for _, term := range req.Categories {
		if err := c.spendQuota(searchQuotaCost); err != nil {
			return nil, err
		}
		items, err := c.yt.search(ctx, term, regionCode, publishedAfter, maxPerQuery)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", term, err)
		}
		for _, item := range items {
			if seen[item.ID.VideoID] {
				continue
			}
			seen[item.ID.VideoID] = true
			ids = append(ids, item.ID.VideoID)
			snippets[item.ID.VideoID] = item.Snippet
		}
	}

	// Fill in statistics and duration in batches.
	var videos []types.RawVideo
	for start := 0; start < len(ids); start += videosPerDetailsCall {
		end := start + videosPerDetailsCall
		if end > len(ids) {
			end = len(ids)
		}

		if err := c.spendQuota(videosQuotaCost); err != nil {
			return nil, err
		}
		items, err := c.yt.details(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetching video details: %w", err)
		}

		for _, item := range items {
			duration := parseISODuration(item.ContentDetails.Duration)
			if duration <= 0 || duration > maxShortSeconds {
				continue
			}

			sn := item.Snippet
			if cached, ok := snippets[item.ID]; ok && sn.Title == "" {
				sn = cached
			}

			videos = append(videos, types.RawVideo{
				VideoID:      item.ID,
				Title:        sn.Title,
				Description:  sn.Description,
				ChannelTitle: sn.ChannelTitle,
				PublishedAt:  sn.PublishedAt,
				Duration:     duration,
				ViewCount:    item.Statistics.views(),
				LikeCount:    item.Statistics.likes(),
				CommentCount: item.Statistics.comments(),
			})
		}
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})

	if req.MaxTotal > 0 && len(videos) > req.MaxTotal {
		videos = videos[:req.MaxTotal]
	}
	return videos, nil
}

// spendQuota reserves estimated quota units for one API call and fails
// when the process-lifetime budget is exhausted.
func (c *Collector) spendQuota(cost int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quotaSpent+cost > c.cfg.MaxDailyQuota {
		return fmt.Errorf("YouTube API quota budget exhausted (%d/%d units)", c.quotaSpent, c.cfg.MaxDailyQuota)
	}
	c.quotaSpent += cost
	return nil
}

// QuotaSpent reports the estimated quota units consumed so far.
func (c *Collector) QuotaSpent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quotaSpent
}
