// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the challenge-radar
// pipeline: the parsed user request, raw and classified videos, the query
// response envelope, and stage configuration.
//
// See docs/ARCHITECTURE § Data Structures.
package types

import "time"

// ActionType is the kind of action a user request asks for.
type ActionType string

const (
	ActionFind      ActionType = "find"      // "찾아줘", "보여줘", "find"
	ActionRecommend ActionType = "recommend" // "추천해줘", "recommend"
	ActionAnalyze   ActionType = "analyze"   // "분석해줘", "analyze"
	ActionCompare   ActionType = "compare"   // "비교해줘", "compare"
	ActionExplain   ActionType = "explain"   // "설명해줘", "explain"
)

// ContentType is the broad class of content a user request asks for.
type ContentType string

const (
	ContentDanceChallenge    ContentType = "dance_challenge"
	ContentFoodChallenge     ContentType = "food_challenge"
	ContentFitnessChallenge  ContentType = "fitness_challenge"
	ContentCreativeChallenge ContentType = "creative_challenge"
	ContentGameChallenge     ContentType = "game_challenge"
	ContentGeneralChallenge  ContentType = "general_challenge"
	ContentAnyVideo          ContentType = "any_video"
)

// ChallengeType is a finer-grained challenge classification carried by
// classified videos and, when the request names one, by the content filter.
type ChallengeType string

const (
	ChallengeDance    ChallengeType = "dance"
	ChallengeFood     ChallengeType = "food"
	ChallengeFitness  ChallengeType = "fitness"
	ChallengeCreative ChallengeType = "creative"
	ChallengeGame     ChallengeType = "game"
)

// DifficultyLevel grades how hard a challenge is to follow.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
	DifficultyExpert DifficultyLevel = "expert"
)

// ParticipantType describes who a challenge is aimed at.
type ParticipantType string

const (
	ParticipantAny        ParticipantType = "any"
	ParticipantIndividual ParticipantType = "individual"
	ParticipantCouple     ParticipantType = "couple"
	ParticipantGroup      ParticipantType = "group"
	ParticipantKids       ParticipantType = "kids"
	ParticipantFamily     ParticipantType = "family"
)

// TimeRange names the search window a request asks for.
type TimeRange string

const (
	TimeToday     TimeRange = "today"
	TimeThisWeek  TimeRange = "this_week"
	TimeThisMonth TimeRange = "this_month"
	TimeRecent    TimeRange = "recent" // default window, 7 days
	TimeLastWeek  TimeRange = "last_week"
	TimeLastMonth TimeRange = "last_month"
	TimeCustom    TimeRange = "custom"
)

// SortOrder selects the ranking strategy applied to filtered results.
type SortOrder string

const (
	SortRelevance      SortOrder = "relevance" // classification confidence, descending (default)
	SortViewCountDesc  SortOrder = "view_count_desc"
	SortViewCountAsc   SortOrder = "view_count_asc"
	SortLikeCountDesc  SortOrder = "like_count_desc"
	SortRecentFirst    SortOrder = "recent_first"
	SortOldestFirst    SortOrder = "oldest_first"
	SortDifficultyAsc  SortOrder = "difficulty_asc"
	SortDifficultyDesc SortOrder = "difficulty_desc"
)

// Language is the coarse output language detected from the request text.
type Language string

const (
	LangKorean  Language = "korean"
	LangEnglish Language = "english"
)

// ContentFilter holds the content-related constraints extracted from a request.
type ContentFilter struct {
	// ContentType is the broad content class (default general_challenge).
	ContentType ContentType `json:"content_type" yaml:"content_type"`

	// ChallengeType is the specific challenge class, if the request named one.
	ChallengeType ChallengeType `json:"challenge_type,omitempty" yaml:"challenge_type,omitempty"`

	// VideoCategory constrains the upstream classification category, if set.
	VideoCategory VideoCategory `json:"video_category,omitempty" yaml:"video_category,omitempty"`

	// Difficulty constrains the analyzed difficulty level, if set.
	Difficulty DifficultyLevel `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Participants constrains the target participant type (default any).
	Participants ParticipantType `json:"participants" yaml:"participants"`

	// Genre is a music genre or style hint (e.g. "K-pop").
	Genre string `json:"genre,omitempty" yaml:"genre,omitempty"`

	// Keywords are search terms extracted from the request.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// MustInclude keywords must all appear in an item's title+description.
	MustInclude []string `json:"must_include,omitempty" yaml:"must_include,omitempty"`

	// MustExclude keywords must not appear in an item's title+description.
	// MustInclude and MustExclude are applied as independent predicates;
	// an overlapping pair makes the filter unsatisfiable on purpose.
	MustExclude []string `json:"must_exclude,omitempty" yaml:"must_exclude,omitempty"`
}

// QuantityFilter holds count, ranking, and view-count constraints.
type QuantityFilter struct {
	// Count is the number of results requested (default 10, always >= 1).
	Count int `json:"count" yaml:"count"`

	// TopN is set when the request used an explicit "top N" pattern.
	TopN int `json:"top_n,omitempty" yaml:"top_n,omitempty"`

	// MinViews and MaxViews bound the view count when non-zero.
	MinViews int64 `json:"min_views,omitempty" yaml:"min_views,omitempty"`
	MaxViews int64 `json:"max_views,omitempty" yaml:"max_views,omitempty"`

	// SortOrder selects the ranking strategy (default relevance).
	SortOrder SortOrder `json:"sort_order" yaml:"sort_order"`
}

// TimeFilter holds the search window constraint.
type TimeFilter struct {
	TimeRange TimeRange `json:"time_range" yaml:"time_range"`

	// CustomDays is the window in days when TimeRange is custom.
	CustomDays int `json:"custom_days,omitempty" yaml:"custom_days,omitempty"`
}

// OutputPreferences holds presentation preferences. Language is detected
// from the request text, not declared by the user.
type OutputPreferences struct {
	Language Language `json:"language" yaml:"language"`
}

// ParsedUserRequest is the structured result of parsing one free-form
// user request. Every parse produces one, including for empty input;
// degraded parses carry low confidence and non-empty AmbiguousParts
// instead of failing.
type ParsedUserRequest struct {
	// OriginalInput preserves the raw request verbatim for audit.
	OriginalInput string `json:"original_input" yaml:"original_input"`

	// ActionType is what the user asked the system to do.
	ActionType ActionType `json:"action_type" yaml:"action_type"`

	// Confidence is the aggregate parse confidence in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	ContentFilter     ContentFilter     `json:"content_filter" yaml:"content_filter"`
	QuantityFilter    QuantityFilter    `json:"quantity_filter" yaml:"quantity_filter"`
	TimeFilter        TimeFilter        `json:"time_filter" yaml:"time_filter"`
	OutputPreferences OutputPreferences `json:"output_preferences" yaml:"output_preferences"`

	ParsedAt      time.Time `json:"parsed_at" yaml:"parsed_at"`
	ParserVersion string    `json:"parser_version" yaml:"parser_version"`

	// AmbiguousParts and Suggestions are non-empty only on degraded parses.
	AmbiguousParts []string `json:"ambiguous_parts,omitempty" yaml:"ambiguous_parts,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}
