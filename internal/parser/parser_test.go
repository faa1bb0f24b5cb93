// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// --- mock completer ---

type mockCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestParser(c Completer) *Parser {
	return New(c, types.ParserConfig{MinQuickConfidence: 0.8, Version: "1.0"})
}

// --- quick pass ---

func TestParseKoreanTopN(t *testing.T) {
	p := newTestParser(nil)
	result := p.Parse(context.Background(), "댄스 챌린지 TOP 5 찾아줘")
	req := result.Request

	if req.ActionType != types.ActionFind {
		t.Errorf("action = %q, want find", req.ActionType)
	}
	if req.ContentFilter.ContentType != types.ContentDanceChallenge {
		t.Errorf("content type = %q, want dance_challenge", req.ContentFilter.ContentType)
	}
	if req.QuantityFilter.Count != 5 {
		t.Errorf("count = %d, want 5", req.QuantityFilter.Count)
	}
	if req.QuantityFilter.TopN != 5 {
		t.Errorf("top_n = %d, want 5", req.QuantityFilter.TopN)
	}
	if req.OutputPreferences.Language != types.LangKorean {
		t.Errorf("language = %q, want korean", req.OutputPreferences.Language)
	}
}

func TestParseEnglishRequest(t *testing.T) {
	p := newTestParser(nil)
	result := p.Parse(context.Background(), "recommend 3 easy fitness challenges this week")
	req := result.Request

	if req.ActionType != types.ActionRecommend {
		t.Errorf("action = %q, want recommend", req.ActionType)
	}
	if req.ContentFilter.ContentType != types.ContentFitnessChallenge {
		t.Errorf("content type = %q, want fitness_challenge", req.ContentFilter.ContentType)
	}
	if req.ContentFilter.Difficulty != types.DifficultyEasy {
		t.Errorf("difficulty = %q, want easy", req.ContentFilter.Difficulty)
	}
	if req.QuantityFilter.Count != 3 {
		t.Errorf("count = %d, want 3", req.QuantityFilter.Count)
	}
	if req.TimeFilter.TimeRange != types.TimeThisWeek {
		t.Errorf("time range = %q, want this_week", req.TimeFilter.TimeRange)
	}
	if req.OutputPreferences.Language != types.LangEnglish {
		t.Errorf("language = %q, want english", req.OutputPreferences.Language)
	}
	// 0.8 exactly: no refinement even with a completer configured.
	if math.Abs(req.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %f, want 0.8", req.Confidence)
	}
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, req types.ParsedUserRequest)
	}{
		{
			name:  "view count filter with Korean magnitude",
			input: "조회수 100만 이상 댄스 챌린지 찾아줘",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.QuantityFilter.MinViews != 1_000_000 {
					t.Errorf("min views = %d, want 1000000", req.QuantityFilter.MinViews)
				}
			},
		},
		{
			name:  "custom day window",
			input: "최근 3일간 올라온 먹방 챌린지 보여줘",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.TimeFilter.TimeRange != types.TimeCustom {
					t.Errorf("time range = %q, want custom", req.TimeFilter.TimeRange)
				}
				if req.TimeFilter.CustomDays != 3 {
					t.Errorf("custom days = %d, want 3", req.TimeFilter.CustomDays)
				}
				if req.ContentFilter.ContentType != types.ContentFoodChallenge {
					t.Errorf("content type = %q, want food_challenge", req.ContentFilter.ContentType)
				}
			},
		},
		{
			name:  "participants and sort order",
			input: "커플 댄스 챌린지 인기순으로 보여줘",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.ContentFilter.Participants != types.ParticipantCouple {
					t.Errorf("participants = %q, want couple", req.ContentFilter.Participants)
				}
				if req.QuantityFilter.SortOrder != types.SortViewCountDesc {
					t.Errorf("sort order = %q, want view_count_desc", req.QuantityFilter.SortOrder)
				}
			},
		},
		{
			name:  "kpop genre hint",
			input: "kpop dance challenge top 10",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.ContentFilter.Genre != "K-pop" {
					t.Errorf("genre = %q, want K-pop", req.ContentFilter.Genre)
				}
				if req.QuantityFilter.Count != 10 {
					t.Errorf("count = %d, want 10", req.QuantityFilter.Count)
				}
			},
		},
		{
			name:  "explain action",
			input: "이 챌린지가 뭐야",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.ActionType != types.ActionExplain {
					t.Errorf("action = %q, want explain", req.ActionType)
				}
			},
		},
		{
			name:  "today window",
			input: "오늘 올라온 운동 챌린지",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.TimeFilter.TimeRange != types.TimeToday {
					t.Errorf("time range = %q, want today", req.TimeFilter.TimeRange)
				}
			},
		},
		{
			name:  "last month window",
			input: "지난 달 피트니스 챌린지 비교해줘",
			check: func(t *testing.T, req types.ParsedUserRequest) {
				if req.ActionType != types.ActionCompare {
					t.Errorf("action = %q, want compare", req.ActionType)
				}
				if req.TimeFilter.TimeRange != types.TimeLastMonth {
					t.Errorf("time range = %q, want last_month", req.TimeFilter.TimeRange)
				}
			},
		},
	}

	p := newTestParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Parse(context.Background(), tt.input)
			tt.check(t, result.Request)
		})
	}
}

func TestParseTopNConfidence(t *testing.T) {
	// Explicit "top N" patterns must set the count and carry a strong
	// quantity signal in the aggregate.
	inputs := []string{"top 10 dance challenges", "상위 7개 먹방", "탑 3 운동 챌린지"}
	wantCounts := []int{10, 7, 3}

	p := newTestParser(nil)
	for i, input := range inputs {
		result := p.Parse(context.Background(), input)
		if got := result.Request.QuantityFilter.Count; got != wantCounts[i] {
			t.Errorf("Parse(%q) count = %d, want %d", input, got, wantCounts[i])
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := newTestParser(nil)
	for _, input := range []string{"", "   ", "\t\n"} {
		result := p.Parse(context.Background(), input)
		req := result.Request

		if req.ActionType != types.ActionFind {
			t.Errorf("Parse(%q) action = %q, want find", input, req.ActionType)
		}
		if req.Confidence > 0.3 {
			t.Errorf("Parse(%q) confidence = %f, want <= 0.3", input, req.Confidence)
		}
		if len(req.AmbiguousParts) == 0 {
			t.Errorf("Parse(%q) has no ambiguous parts", input)
		}
		if req.QuantityFilter.Count < 1 {
			t.Errorf("Parse(%q) count = %d, want >= 1", input, req.QuantityFilter.Count)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	p := newTestParser(nil)
	result := p.Parse(context.Background(), "something entirely unrelated")
	req := result.Request

	if req.ActionType != types.ActionFind {
		t.Errorf("action = %q, want find", req.ActionType)
	}
	if req.ContentFilter.ContentType != types.ContentGeneralChallenge {
		t.Errorf("content type = %q, want general_challenge", req.ContentFilter.ContentType)
	}
	if req.ContentFilter.Participants != types.ParticipantAny {
		t.Errorf("participants = %q, want any", req.ContentFilter.Participants)
	}
	if req.QuantityFilter.Count != 10 {
		t.Errorf("count = %d, want 10", req.QuantityFilter.Count)
	}
	if req.QuantityFilter.SortOrder != types.SortRelevance {
		t.Errorf("sort order = %q, want relevance", req.QuantityFilter.SortOrder)
	}
	if req.TimeFilter.TimeRange != types.TimeRecent {
		t.Errorf("time range = %q, want recent", req.TimeFilter.TimeRange)
	}
}

// --- refinement ---

func TestParseRefinementMerges(t *testing.T) {
	completer := &mockCompleter{
		response: `Here is my interpretation:
{"action": "find", "content_type": "dance_challenge", "keywords": ["newjeans", "dance challenge"], "difficulty": "easy", "participants": "", "count": 5, "time_range": "this_week", "special_requirements": ["official choreography"], "confidence": 0.93}`,
	}
	p := newTestParser(completer)

	// Low-signal input so the quick pass stays below the threshold.
	result := p.Parse(context.Background(), "뉴진스 챌린지 5")
	req := result.Request

	if completer.calls != 1 {
		t.Fatalf("completer calls = %d, want 1", completer.calls)
	}
	if req.ContentFilter.ContentType != types.ContentDanceChallenge {
		t.Errorf("content type = %q, want dance_challenge", req.ContentFilter.ContentType)
	}
	if req.ContentFilter.Difficulty != types.DifficultyEasy {
		t.Errorf("difficulty = %q, want easy", req.ContentFilter.Difficulty)
	}
	if req.QuantityFilter.Count != 5 {
		t.Errorf("count = %d, want 5", req.QuantityFilter.Count)
	}
	if req.TimeFilter.TimeRange != types.TimeThisWeek {
		t.Errorf("time range = %q, want this_week", req.TimeFilter.TimeRange)
	}
	if req.Confidence != 0.93 {
		t.Errorf("confidence = %f, want 0.93", req.Confidence)
	}

	var found bool
	for _, kw := range req.ContentFilter.Keywords {
		if kw == "newjeans" {
			found = true
		}
	}
	if !found {
		t.Errorf("keywords = %v, want to include newjeans", req.ContentFilter.Keywords)
	}
	if len(req.ContentFilter.MustInclude) != 1 || req.ContentFilter.MustInclude[0] != "official choreography" {
		t.Errorf("must include = %v, want [official choreography]", req.ContentFilter.MustInclude)
	}
}

func TestParseRefinementNeverLowersConfidence(t *testing.T) {
	completer := &mockCompleter{
		response: `{"action": "", "content_type": "", "keywords": [], "difficulty": "", "participants": "", "count": 0, "time_range": "", "special_requirements": [], "confidence": 0.1}`,
	}
	p := newTestParser(completer)

	result := p.Parse(context.Background(), "뉴진스 챌린지")
	quick := quickParse(newContext("뉴진스 챌린지"), "1.0", result.Request.ParsedAt)

	if result.Request.Confidence < quick.Confidence {
		t.Errorf("confidence = %f, below quick confidence %f", result.Request.Confidence, quick.Confidence)
	}
}

func TestParseRefinementSkippedAboveThreshold(t *testing.T) {
	completer := &mockCompleter{response: `{}`}
	p := newTestParser(completer)

	p.Parse(context.Background(), "recommend 3 easy fitness challenges this week")
	if completer.calls != 0 {
		t.Errorf("completer calls = %d, want 0 for confident quick parse", completer.calls)
	}
}

func TestParseRefinementFailureDegrades(t *testing.T) {
	tests := []struct {
		name      string
		completer *mockCompleter
	}{
		{"transport error", &mockCompleter{err: fmt.Errorf("connection refused")}},
		{"no JSON in response", &mockCompleter{response: "I could not determine the intent."}},
		{"malformed JSON", &mockCompleter{response: `{"action": find}`}},
		{"confidence out of range", &mockCompleter{response: `{"action": "find", "confidence": 1.5}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(tt.completer)
			result := p.Parse(context.Background(), "뉴진스 챌린지")

			if len(result.Warnings) == 0 {
				t.Fatal("expected a degradation warning")
			}
			// The quick result is kept unchanged.
			if result.Request.ActionType != types.ActionFind {
				t.Errorf("action = %q, want find", result.Request.ActionType)
			}
			if result.Request.OriginalInput != "뉴진스 챌린지" {
				t.Errorf("original input = %q", result.Request.OriginalInput)
			}
		})
	}
}

// --- language detection ---

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  types.Language
	}{
		{"댄스 챌린지 찾아줘", types.LangKorean},
		{"find dance challenges", types.LangEnglish},
		// Mostly-Latin mixed text falls below the Hangul ratio threshold.
		{"댄스 challenge", types.LangEnglish},
		{"kpop 댄스", types.LangKorean},
		{"", types.LangEnglish},
		{"12345 !!!", types.LangEnglish},
	}

	for _, tt := range tests {
		if got := detectLanguage(tt.input); got != tt.want {
			t.Errorf("detectLanguage(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// --- helpers ---

func TestParseKoreanNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"100", 100},
		{"100만", 1_000_000},
		{"5천", 5_000},
		{"1억", 100_000_000},
		{"1,500", 1500},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := parseKoreanNumber(tt.input); got != tt.want {
			t.Errorf("parseKoreanNumber(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"object in prose", `Sure: {"a": {"b": 2}} done`, `{"a": {"b": 2}}`, true},
		{"braces in strings", `{"a": "}{"}`, `{"a": "}{"}`, true},
		{"escaped quote", `{"a": "say \"hi\""}`, `{"a": "say \"hi\""}`, true},
		{"no object", "nothing here", "", false},
		{"unbalanced", `{"a": 1`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONBlock(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("extractJSONBlock(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func testTime() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestRenderRefinementPromptIncludesInput(t *testing.T) {
	quick := quickParse(newContext("뉴진스 챌린지"), "1.0", testTime())
	prompt, err := renderRefinementPrompt("뉴진스 챌린지", quick)
	if err != nil {
		t.Fatalf("renderRefinementPrompt: %v", err)
	}
	if !strings.Contains(prompt, "뉴진스 챌린지") {
		t.Error("prompt does not contain the original input")
	}
	if !strings.Contains(prompt, `"original_input"`) {
		t.Error("prompt does not contain the quick result JSON")
	}
}
