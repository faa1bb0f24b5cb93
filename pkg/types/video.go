// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// VideoCategory is the upstream classification category for short-form video.
type VideoCategory string

const (
	CategoryChallenge      VideoCategory = "Challenge"
	CategoryInfoAdvice     VideoCategory = "Info/Advice"
	CategoryTrendingSounds VideoCategory = "Trending Sounds/BGM"
)

// SafetyLevel grades how safe a challenge is to attempt.
type SafetyLevel string

const (
	SafetySafe    SafetyLevel = "safe"
	SafetyCaution SafetyLevel = "caution"
	SafetyRisky   SafetyLevel = "risky"
)

// RawVideo is a video as returned by the collection collaborator, before
// classification. Snippet and statistics fields are flattened.
type RawVideo struct {
	VideoID      string    `json:"video_id" yaml:"video_id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	ChannelTitle string    `json:"channel_title" yaml:"channel_title"`
	PublishedAt  time.Time `json:"published_at" yaml:"published_at"`

	// Duration is the video length in seconds.
	Duration int `json:"duration" yaml:"duration"`

	ViewCount    int64 `json:"view_count" yaml:"view_count"`
	LikeCount    int64 `json:"like_count" yaml:"like_count"`
	CommentCount int64 `json:"comment_count" yaml:"comment_count"`
}

// VideoAnalysis carries the optional structured signals the classification
// collaborator derives for a video. A nil analysis means the classifier
// produced category and confidence only.
type VideoAnalysis struct {
	Difficulty   DifficultyLevel `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Participants ParticipantType `json:"participants,omitempty" yaml:"participants,omitempty"`
	Safety       SafetyLevel     `json:"safety,omitempty" yaml:"safety,omitempty"`
	EasyToFollow bool            `json:"easy_to_follow" yaml:"easy_to_follow"`
	MusicGenre   string          `json:"music_genre,omitempty" yaml:"music_genre,omitempty"`
}

// ClassifiedVideo is a video with classification results attached. The
// filtering and ranking engines treat it as read-only.
type ClassifiedVideo struct {
	VideoID      string    `json:"video_id" yaml:"video_id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	ChannelTitle string    `json:"channel_title,omitempty" yaml:"channel_title,omitempty"`
	PublishedAt  time.Time `json:"published_at" yaml:"published_at"`

	ViewCount    int64 `json:"view_count" yaml:"view_count"`
	LikeCount    int64 `json:"like_count" yaml:"like_count"`
	CommentCount int64 `json:"comment_count" yaml:"comment_count"`

	// Category is the classified category.
	Category VideoCategory `json:"category" yaml:"category"`

	// ChallengeType is set when the classifier recognized a specific
	// challenge class.
	ChallengeType ChallengeType `json:"challenge_type,omitempty" yaml:"challenge_type,omitempty"`

	// Confidence is the classification confidence in [0,1]. The default
	// "relevance" ranking sorts on this value.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Reasoning is the classifier's short justification.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Analysis holds optional structured accessibility signals.
	Analysis *VideoAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// CollectionRequest is the input to the collection collaborator.
type CollectionRequest struct {
	// Categories are the search terms derived from the parsed request.
	Categories []string `json:"categories" yaml:"categories"`

	// Days is the publication window: only videos published within the
	// last Days days are collected.
	Days int `json:"days" yaml:"days"`

	// MaxPerQuery caps results per search term.
	MaxPerQuery int `json:"max_per_query" yaml:"max_per_query"`

	// MaxTotal caps the combined, deduplicated result set. Zero means
	// no cap.
	MaxTotal int `json:"max_total" yaml:"max_total"`

	// RegionCode is the ISO 3166-1 alpha-2 search region.
	RegionCode string `json:"region_code" yaml:"region_code"`
}
