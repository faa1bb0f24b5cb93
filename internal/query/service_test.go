// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jwpark/challenge-radar/internal/parser"
	"github.com/jwpark/challenge-radar/pkg/types"
)

type mockCollector struct {
	videos  []types.RawVideo
	err     error
	lastReq types.CollectionRequest
}

func (m *mockCollector) Collect(_ context.Context, req types.CollectionRequest) ([]types.RawVideo, error) {
	m.lastReq = req
	return m.videos, m.err
}

type mockClassifier struct {
	videos   []types.ClassifiedVideo
	warnings []string
	err      error
}

func (m *mockClassifier) Classify(_ context.Context, _ []types.RawVideo) ([]types.ClassifiedVideo, []string, error) {
	return m.videos, m.warnings, m.err
}

type mockRecorder struct {
	saved []*types.QueryResponse
	err   error
}

func (m *mockRecorder) SaveQuery(_ context.Context, resp *types.QueryResponse) error {
	m.saved = append(m.saved, resp)
	return m.err
}

func rawPool() []types.RawVideo {
	return []types.RawVideo{
		{VideoID: "v1", Title: "댄스 챌린지", ViewCount: 900},
		{VideoID: "v2", Title: "dance challenge", ViewCount: 100},
	}
}

func classifiedPool(now time.Time) []types.ClassifiedVideo {
	return []types.ClassifiedVideo{
		{
			VideoID: "v1", Title: "댄스 챌린지", Category: types.CategoryChallenge,
			ChallengeType: types.ChallengeDance, ViewCount: 900, Confidence: 0.9,
			PublishedAt: now.AddDate(0, 0, -1),
		},
		{
			VideoID: "v2", Title: "dance challenge", Category: types.CategoryChallenge,
			ChallengeType: types.ChallengeDance, ViewCount: 100, Confidence: 0.8,
			PublishedAt: now.AddDate(0, 0, -3),
		},
	}
}

func newTestService(c *mockCollector, cl *mockClassifier, r Recorder) *Service {
	p := parser.New(nil, types.ParserConfig{})
	svc := NewService(p, c, cl, r, types.CollectorConfig{WidenPastRanges: true})
	svc.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestProcessQuerySuccess(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	collector := &mockCollector{videos: rawPool()}
	classifier := &mockClassifier{videos: classifiedPool(now)}
	recorder := &mockRecorder{}
	svc := newTestService(collector, classifier, recorder)

	var progress bytes.Buffer
	resp := svc.ProcessQuery(context.Background(), "댄스 챌린지 TOP 5 찾아줘", &progress)

	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.ErrorMessage)
	}
	if resp.TotalFound != 2 || len(resp.Results) != 2 {
		t.Errorf("results = %d/%d, want 2", resp.TotalFound, len(resp.Results))
	}
	if resp.Results[0].VideoID != "v1" {
		t.Errorf("top result = %s, want v1", resp.Results[0].VideoID)
	}
	if resp.Summary == "" || resp.DetailedReport == "" {
		t.Errorf("reports missing: summary %d bytes, detailed %d bytes", len(resp.Summary), len(resp.DetailedReport))
	}
	if resp.ParsedRequest == nil || resp.ParsedRequest.ContentFilter.ContentType != types.ContentDanceChallenge {
		t.Errorf("parsed request = %+v", resp.ParsedRequest)
	}

	// The collection request derives from the parsed query.
	if got := collector.lastReq.Categories; len(got) == 0 || got[0] != "dance challenge" {
		t.Errorf("search terms = %v", got)
	}
	if collector.lastReq.MaxPerQuery != 15 || collector.lastReq.MaxTotal != 25 {
		t.Errorf("per-query/total = %d/%d, want 15/25", collector.lastReq.MaxPerQuery, collector.lastReq.MaxTotal)
	}

	if len(recorder.saved) != 1 || recorder.saved[0] != resp {
		t.Errorf("recorder saved %d responses", len(recorder.saved))
	}
	for _, want := range []string{"parsing", "collecting", "classifying"} {
		if !strings.Contains(progress.String(), want) {
			t.Errorf("progress missing %q:\n%s", want, progress.String())
		}
	}
}

func TestProcessQueryCollectorFailure(t *testing.T) {
	collector := &mockCollector{err: errors.New("quota exhausted")}
	svc := newTestService(collector, &mockClassifier{}, nil)

	resp := svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))
	if resp.Success {
		t.Errorf("Success = true, want false")
	}
	if !strings.Contains(resp.ErrorMessage, "collecting videos") || !strings.Contains(resp.ErrorMessage, "quota exhausted") {
		t.Errorf("error = %q", resp.ErrorMessage)
	}

	stats := svc.Stats()
	if stats.TotalQueries != 1 || stats.FailedQueries != 1 || stats.SuccessfulQueries != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProcessQueryClassifierFailure(t *testing.T) {
	collector := &mockCollector{videos: rawPool()}
	classifier := &mockClassifier{err: errors.New("backend down")}
	svc := newTestService(collector, classifier, nil)

	resp := svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))
	if resp.Success {
		t.Errorf("Success = true, want false")
	}
	if !strings.Contains(resp.ErrorMessage, "classifying videos") {
		t.Errorf("error = %q", resp.ErrorMessage)
	}
}

func TestProcessQueryEmptyCollection(t *testing.T) {
	collector := &mockCollector{}
	svc := newTestService(collector, &mockClassifier{}, nil)

	resp := svc.ProcessQuery(context.Background(), "dance challenge TOP 5", new(bytes.Buffer))
	if !resp.Success {
		t.Errorf("empty collection should still succeed, error = %q", resp.ErrorMessage)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %v, want none", resp.Results)
	}
	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "no videos matched") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a no-videos warning", resp.Warnings)
	}
	if !strings.Contains(resp.Summary, "No results matched") {
		t.Errorf("summary = %q", resp.Summary)
	}
}

func TestProcessQueryFilteredToNothingStillSucceeds(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	collector := &mockCollector{videos: rawPool()}
	// Classified as food while the request asks for dance.
	classifier := &mockClassifier{videos: []types.ClassifiedVideo{
		{
			VideoID: "v1", Title: "먹방 챌린지", Category: types.CategoryChallenge,
			ChallengeType: types.ChallengeFood, ViewCount: 500, Confidence: 0.9,
			PublishedAt: now,
		},
	}}
	svc := newTestService(collector, classifier, nil)

	resp := svc.ProcessQuery(context.Background(), "댄스 챌린지 찾아줘", new(bytes.Buffer))
	if !resp.Success {
		t.Errorf("an empty filter result should still succeed, error = %q", resp.ErrorMessage)
	}
	if resp.TotalFound != 0 || len(resp.Results) != 0 {
		t.Errorf("results = %d/%d, want none", resp.TotalFound, len(resp.Results))
	}
	if !strings.Contains(resp.Summary, "검색 조건에 맞는 결과를 찾지 못했습니다") {
		t.Errorf("summary = %q", resp.Summary)
	}
}

func TestProcessQueryClassifierWarningsPropagate(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	collector := &mockCollector{videos: rawPool()}
	classifier := &mockClassifier{
		videos:   classifiedPool(now),
		warnings: []string{"2 of 2 videos fell back to keyword classification"},
	}
	svc := newTestService(collector, classifier, nil)

	resp := svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))
	if !resp.Success {
		t.Fatalf("Success = false: %q", resp.ErrorMessage)
	}
	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "fell back to keyword classification") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v", resp.Warnings)
	}
}

func TestProcessQueryRecorderFailureIsNonFatal(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	collector := &mockCollector{videos: rawPool()}
	classifier := &mockClassifier{videos: classifiedPool(now)}
	recorder := &mockRecorder{err: errors.New("disk full")}
	svc := newTestService(collector, classifier, recorder)

	var progress bytes.Buffer
	resp := svc.ProcessQuery(context.Background(), "dance challenge", &progress)
	if !resp.Success {
		t.Errorf("recorder failure should not fail the query: %q", resp.ErrorMessage)
	}
	if !strings.Contains(progress.String(), "saving query history") {
		t.Errorf("progress missing save warning:\n%s", progress.String())
	}
}

func TestStatsAccumulate(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	collector := &mockCollector{videos: rawPool()}
	classifier := &mockClassifier{videos: classifiedPool(now)}
	svc := newTestService(collector, classifier, nil)

	svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))
	svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))
	collector.err = errors.New("down")
	svc.ProcessQuery(context.Background(), "dance challenge", new(bytes.Buffer))

	stats := svc.Stats()
	if stats.TotalQueries != 3 || stats.SuccessfulQueries != 2 || stats.FailedQueries != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastQueryTime.IsZero() {
		t.Errorf("LastQueryTime not set")
	}
}

func TestSearchParams(t *testing.T) {
	tests := []struct {
		name       string
		req        types.ParsedUserRequest
		wantFirst  string
		wantLen    int
		wantPer    int
		wantTotal  int
		wantRegion string
	}{
		{
			name: "dance with genre and keywords",
			req: types.ParsedUserRequest{
				ContentFilter: types.ContentFilter{
					ContentType: types.ContentDanceChallenge,
					Genre:       "K-pop",
					Keywords:    []string{"뉴진스"},
				},
				QuantityFilter: types.QuantityFilter{Count: 5},
			},
			wantFirst: "dance challenge",
			wantLen:   5, // 3 dance terms + genre dance + 1 keyword
			wantPer:   15,
			wantTotal: 25,
		},
		{
			name: "food",
			req: types.ParsedUserRequest{
				ContentFilter:  types.ContentFilter{ContentType: types.ContentFoodChallenge},
				QuantityFilter: types.QuantityFilter{Count: 3},
			},
			wantFirst: "food challenge",
			wantLen:   3,
			wantPer:   9,
			wantTotal: 15,
		},
		{
			name:      "generic default count",
			req:       types.ParsedUserRequest{},
			wantFirst: "challenge",
			wantLen:   1,
			wantPer:   20, // 10*3 capped at maxPerQuery
			wantTotal: 50,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := searchParams(tc.req, true, 20, "KR")
			if len(got.Categories) != tc.wantLen || got.Categories[0] != tc.wantFirst {
				t.Errorf("categories = %v", got.Categories)
			}
			if got.MaxPerQuery != tc.wantPer || got.MaxTotal != tc.wantTotal {
				t.Errorf("per-query/total = %d/%d, want %d/%d", got.MaxPerQuery, got.MaxTotal, tc.wantPer, tc.wantTotal)
			}
			if got.RegionCode != "KR" {
				t.Errorf("region = %q", got.RegionCode)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	tests := []struct {
		tf    types.TimeFilter
		widen bool
		want  int
	}{
		{types.TimeFilter{TimeRange: types.TimeToday}, true, 1},
		{types.TimeFilter{TimeRange: types.TimeThisWeek}, true, 7},
		{types.TimeFilter{TimeRange: types.TimeThisMonth}, true, 30},
		{types.TimeFilter{TimeRange: types.TimeLastWeek}, true, 14},
		{types.TimeFilter{TimeRange: types.TimeLastWeek}, false, 7},
		{types.TimeFilter{TimeRange: types.TimeLastMonth}, true, 60},
		{types.TimeFilter{TimeRange: types.TimeLastMonth}, false, 30},
		{types.TimeFilter{TimeRange: types.TimeCustom, CustomDays: 3}, true, 3},
		{types.TimeFilter{TimeRange: types.TimeCustom}, true, 7},
		{types.TimeFilter{TimeRange: types.TimeRecent}, true, 7},
	}
	for _, tc := range tests {
		if got := dayWindow(tc.tf, tc.widen); got != tc.want {
			t.Errorf("dayWindow(%+v, %v) = %d, want %d", tc.tf, tc.widen, got, tc.want)
		}
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	resp := &types.QueryResponse{
		Success:        true,
		ParsedRequest:  &types.ParsedUserRequest{OriginalInput: "dance challenge", ActionType: types.ActionFind},
		Results:        classifiedPool(now),
		TotalFound:     2,
		ProcessingTime: 1.25,
		Warnings:       []string{"refinement unavailable, using quick interpretation"},
	}

	path := filepath.Join(t.TempDir(), "query.yaml")
	if err := WriteSaveFile(path, resp); err != nil {
		t.Fatalf("WriteSaveFile: %v", err)
	}

	sf, err := ReadSaveFile(path)
	if err != nil {
		t.Fatalf("ReadSaveFile: %v", err)
	}
	if sf.Request == nil || sf.Request.OriginalInput != "dance challenge" {
		t.Errorf("request = %+v", sf.Request)
	}
	if len(sf.Results) != 2 || sf.Results[0].VideoID != "v1" {
		t.Errorf("results = %+v", sf.Results)
	}
	if sf.Summary.Total != 2 || sf.Summary.ProcessingTime != 1.25 {
		t.Errorf("summary = %+v", sf.Summary)
	}
	if len(sf.Summary.Warnings) != 1 {
		t.Errorf("warnings = %v", sf.Summary.Warnings)
	}
}

func TestReadSaveFileMissing(t *testing.T) {
	_, err := ReadSaveFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Errorf("reading a missing file should fail")
	}
}
