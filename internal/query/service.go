// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query orchestrates one natural-language query end to end:
// parse, collect, classify, filter, rank, report. Collaborators are
// injected as interfaces so tests can run the whole pipeline with mocks.
//
// See docs/ARCHITECTURE § Query Service.
package query

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jwpark/challenge-radar/internal/parser"
	"github.com/jwpark/challenge-radar/internal/rank"
	"github.com/jwpark/challenge-radar/internal/report"
	"github.com/jwpark/challenge-radar/pkg/types"
)

// Collector fetches raw videos for the search terms and day window
// derived from a parsed request.
type Collector interface {
	Collect(ctx context.Context, req types.CollectionRequest) ([]types.RawVideo, error)
}

// Classifier assigns categories and confidence to raw videos. Warnings
// report per-batch degradation without failing the pipeline.
type Classifier interface {
	Classify(ctx context.Context, videos []types.RawVideo) ([]types.ClassifiedVideo, []string, error)
}

// Recorder persists processed queries. A nil Recorder disables history.
type Recorder interface {
	SaveQuery(ctx context.Context, resp *types.QueryResponse) error
}

// Stats summarizes service activity since construction.
type Stats struct {
	TotalQueries      int
	SuccessfulQueries int
	FailedQueries     int
	AvgProcessingTime float64
	LastQueryTime     time.Time
}

// Service runs the query pipeline. Safe for concurrent use.
type Service struct {
	parser     *parser.Parser
	collector  Collector
	classifier Classifier
	recorder   Recorder

	widenPastRanges bool
	maxPerQuery     int
	regionCode      string

	// now is the clock; tests substitute a fixed one.
	now func() time.Time

	mu    sync.Mutex
	stats Stats
}

// NewService wires the pipeline together. recorder may be nil.
func NewService(p *parser.Parser, collector Collector, classifier Classifier, recorder Recorder, cfg types.CollectorConfig) *Service {
	maxPerQuery := cfg.MaxPerQuery
	if maxPerQuery <= 0 {
		maxPerQuery = 20
	}
	return &Service{
		parser:          p,
		collector:       collector,
		classifier:      classifier,
		recorder:        recorder,
		widenPastRanges: cfg.WidenPastRanges,
		maxPerQuery:     maxPerQuery,
		regionCode:      cfg.RegionCode,
		now:             time.Now,
	}
}

// ProcessQuery runs one query end to end and always returns a response.
// Success is false only when the collection or classification
// collaborator fails outright; a parse that degraded or a filter that
// matched nothing still succeeds, with warnings or an explanatory
// summary. Progress lines go to w.
func (s *Service) ProcessQuery(ctx context.Context, input string, w io.Writer) *types.QueryResponse {
	start := s.now()
	resp := &types.QueryResponse{}

	s.mu.Lock()
	s.stats.TotalQueries++
	s.mu.Unlock()

	defer func() {
		resp.ProcessingTime = s.now().Sub(start).Seconds()
		s.recordOutcome(resp)
		if s.recorder != nil {
			if err := s.recorder.SaveQuery(ctx, resp); err != nil {
				fmt.Fprintf(w, "warning: saving query history: %v\n", err)
			}
		}
	}()

	fmt.Fprintf(w, "parsing %q\n", input)
	parsed := s.parser.Parse(ctx, input)
	resp.ParsedRequest = &parsed.Request
	resp.Warnings = append(resp.Warnings, parsed.Warnings...)

	collReq := searchParams(parsed.Request, s.widenPastRanges, s.maxPerQuery, s.regionCode)

	fmt.Fprintf(w, "collecting videos for %v (last %d days)\n", collReq.Categories, collReq.Days)
	raw, err := s.collector.Collect(ctx, collReq)
	if err != nil {
		resp.ErrorMessage = fmt.Sprintf("collecting videos: %v", err)
		return resp
	}
	fmt.Fprintf(w, "collected %d videos\n", len(raw))

	if len(raw) == 0 {
		resp.Success = true
		resp.Warnings = append(resp.Warnings, "no videos matched the search terms")
		resp.Summary = report.Summary(parsed.Request, nil)
		resp.DetailedReport = report.Detailed(parsed.Request, nil, s.now())
		return resp
	}

	fmt.Fprintf(w, "classifying %d videos\n", len(raw))
	classified, warnings, err := s.classifier.Classify(ctx, raw)
	if err != nil {
		resp.ErrorMessage = fmt.Sprintf("classifying videos: %v", err)
		return resp
	}
	resp.Warnings = append(resp.Warnings, warnings...)

	filtered := rank.Filter(classified, parsed.Request.ContentFilter, parsed.Request.QuantityFilter)
	ranked := rank.Rank(filtered, parsed.Request.QuantityFilter)
	fmt.Fprintf(w, "filtered to %d videos, returning %d\n", len(filtered), len(ranked))

	resp.Success = true
	resp.Results = ranked
	resp.TotalFound = len(ranked)
	resp.Summary = report.Summary(parsed.Request, ranked)
	resp.DetailedReport = report.Detailed(parsed.Request, ranked, s.now())
	return resp
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) recordOutcome(resp *types.QueryResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastQueryTime = s.now()
	if !resp.Success {
		s.stats.FailedQueries++
		return
	}
	s.stats.SuccessfulQueries++
	n := float64(s.stats.SuccessfulQueries)
	s.stats.AvgProcessingTime = (s.stats.AvgProcessingTime*(n-1) + resp.ProcessingTime) / n
}

// searchParams derives the collection request from a parsed user
// request: search terms from the content type plus extracted keywords,
// and the day window from the time range.
func searchParams(req types.ParsedUserRequest, widenPastRanges bool, maxPerQuery int, regionCode string) types.CollectionRequest {
	var categories []string
	cf := req.ContentFilter

	switch cf.ContentType {
	case types.ContentDanceChallenge:
		categories = []string{"dance challenge", "dance", "choreography"}
		if cf.Genre != "" {
			categories = append(categories, cf.Genre+" dance")
		}
	case types.ContentFoodChallenge:
		categories = []string{"food challenge", "cooking", "food"}
	case types.ContentFitnessChallenge:
		categories = []string{"fitness challenge", "workout", "exercise"}
	default:
		categories = []string{"challenge"}
	}
	categories = append(categories, cf.Keywords...)

	count := req.QuantityFilter.Count
	if count < 1 {
		count = 10
	}

	// Collect with a buffer so filtering has something to discard.
	perQuery := count * 3
	if perQuery > maxPerQuery {
		perQuery = maxPerQuery
	}

	return types.CollectionRequest{
		Categories:  categories,
		Days:        dayWindow(req.TimeFilter, widenPastRanges),
		MaxPerQuery: perQuery,
		MaxTotal:    count * 5,
		RegionCode:  regionCode,
	}
}

// dayWindow maps a time range to the collection window in days. With
// widenPastRanges, "last week" and "last month" include the current
// period too (14 and 60 days) instead of the strict prior period.
func dayWindow(tf types.TimeFilter, widenPastRanges bool) int {
	switch tf.TimeRange {
	case types.TimeToday:
		return 1
	case types.TimeThisWeek:
		return 7
	case types.TimeThisMonth:
		return 30
	case types.TimeLastWeek:
		if widenPastRanges {
			return 14
		}
		return 7
	case types.TimeLastMonth:
		if widenPastRanges {
			return 60
		}
		return 30
	case types.TimeCustom:
		if tf.CustomDays >= 1 {
			return tf.CustomDays
		}
		return 7
	default:
		return 7
	}
}
