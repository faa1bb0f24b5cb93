// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a category, a challenge type, and optional
// accessibility signals to raw videos. The primary path sends batches to
// a completion backend; videos the backend misses or mangles fall back
// to keyword classification so the pipeline always gets a full pool.
//
// See docs/ARCHITECTURE § Classification.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// Completer abstracts the text-completion API so tests can supply a mock.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// batchSize is the number of videos sent per completion call. Larger
// batches save round trips but risk truncated JSON on long descriptions.
const batchSize = 10

// classificationPromptTmpl is the prompt sent to the completion backend
// for one batch of videos.
var classificationPromptTmpl = template.Must(template.New("classification").Parse(`You are a short-form video classification system. Classify each of the following videos.

For each video, identify:
- video_id: copied from the input unchanged
- category: one of "Challenge", "Info/Advice", "Trending Sounds/BGM"
- challenge_type: one of "dance", "food", "fitness", "creative", "game", or "" if the video is not a challenge
- confidence: a float between 0.0 and 1.0 for how certain you are about the category
- reasoning: one short sentence explaining the classification
- difficulty: one of "easy", "medium", "hard", "expert", or "" if not assessable
- participants: one of "individual", "couple", "group", "kids", "family", or "" if not assessable
- safety: one of "safe", "caution", "risky", or "" if not assessable
- easy_to_follow: true if a beginner could follow along
- music_genre: the music genre if identifiable (e.g. "K-pop"), else ""

Respond with a JSON object containing a "classifications" array with one element per video, in input order. Do not include any text outside the JSON object.

Example response:
{"classifications": [{"video_id": "abc123", "category": "Challenge", "challenge_type": "dance", "confidence": 0.95, "reasoning": "Choreographed routine set to a trending song.", "difficulty": "easy", "participants": "group", "safety": "safe", "easy_to_follow": true, "music_genre": "K-pop"}]}

Videos:
{{range .Videos}}- video_id: {{.VideoID}}
  title: {{.Title}}
  description: {{.Description}}
{{end}}`))

// classification is one element of the backend's response array.
type classification struct {
	VideoID       string  `json:"video_id"`
	Category      string  `json:"category"`
	ChallengeType string  `json:"challenge_type"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
	Difficulty    string  `json:"difficulty"`
	Participants  string  `json:"participants"`
	Safety        string  `json:"safety"`
	EasyToFollow  bool    `json:"easy_to_follow"`
	MusicGenre    string  `json:"music_genre"`
}

// classificationResponse is the backend's response envelope.
type classificationResponse struct {
	Classifications []classification `json:"classifications"`
}

var validCategories = map[types.VideoCategory]bool{
	types.CategoryChallenge:      true,
	types.CategoryInfoAdvice:     true,
	types.CategoryTrendingSounds: true,
}

var validChallengeTypes = map[types.ChallengeType]bool{
	types.ChallengeDance:    true,
	types.ChallengeFood:     true,
	types.ChallengeFitness:  true,
	types.ChallengeCreative: true,
	types.ChallengeGame:     true,
}

// LLMClassifier classifies videos through a completion backend with a
// keyword fallback per video.
type LLMClassifier struct {
	completer Completer
}

// New creates an LLMClassifier. completer may be nil; every video then
// takes the keyword fallback.
func New(completer Completer) *LLMClassifier {
	return &LLMClassifier{completer: completer}
}

// Classify classifies all videos. Backend failures degrade batch by
// batch to keyword classification with a warning; the output always has
// one classified video per input, in input order.
func (c *LLMClassifier) Classify(ctx context.Context, videos []types.RawVideo) ([]types.ClassifiedVideo, []string, error) {
	var out []types.ClassifiedVideo
	var warnings []string

	for start := 0; start < len(videos); start += batchSize {
		end := start + batchSize
		if end > len(videos) {
			end = len(videos)
		}
		batch := videos[start:end]

		classified, warn := c.classifyBatch(ctx, batch)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		out = append(out, classified...)
	}

	return out, warnings, nil
}

func (c *LLMClassifier) classifyBatch(ctx context.Context, batch []types.RawVideo) ([]types.ClassifiedVideo, string) {
	if c.completer == nil {
		return keywordClassifyAll(batch), ""
	}

	prompt, err := renderPrompt(batch)
	if err != nil {
		return keywordClassifyAll(batch), fmt.Sprintf("classification prompt failed, using keyword fallback: %v", err)
	}

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return keywordClassifyAll(batch), fmt.Sprintf("classification backend failed, using keyword fallback: %v", err)
	}

	block, ok := extractJSONBlock(raw)
	if !ok {
		return keywordClassifyAll(batch), "no JSON object in classification response, using keyword fallback"
	}

	var resp classificationResponse
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return keywordClassifyAll(batch), fmt.Sprintf("malformed classification JSON, using keyword fallback: %v", err)
	}

	byID := map[string]classification{}
	for _, cl := range resp.Classifications {
		byID[cl.VideoID] = cl
	}

	var out []types.ClassifiedVideo
	var missed int
	for _, v := range batch {
		cl, ok := byID[v.VideoID]
		if !ok || !validate(cl) {
			out = append(out, keywordClassify(v))
			missed++
			continue
		}
		out = append(out, convert(v, cl))
	}

	var warn string
	if missed > 0 {
		warn = fmt.Sprintf("%d of %d videos fell back to keyword classification", missed, len(batch))
	}
	return out, warn
}

func renderPrompt(batch []types.RawVideo) (string, error) {
	var buf bytes.Buffer
	if err := classificationPromptTmpl.Execute(&buf, struct{ Videos []types.RawVideo }{Videos: batch}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validate rejects classifications with an unknown category or an
// out-of-range confidence.
func validate(cl classification) bool {
	if !validCategories[types.VideoCategory(cl.Category)] {
		return false
	}
	if cl.Confidence < 0.0 || cl.Confidence > 1.0 {
		return false
	}
	if cl.ChallengeType != "" && !validChallengeTypes[types.ChallengeType(cl.ChallengeType)] {
		return false
	}
	return true
}

func convert(v types.RawVideo, cl classification) types.ClassifiedVideo {
	out := types.ClassifiedVideo{
		VideoID:       v.VideoID,
		Title:         v.Title,
		Description:   v.Description,
		ChannelTitle:  v.ChannelTitle,
		PublishedAt:   v.PublishedAt,
		ViewCount:     v.ViewCount,
		LikeCount:     v.LikeCount,
		CommentCount:  v.CommentCount,
		Category:      types.VideoCategory(cl.Category),
		ChallengeType: types.ChallengeType(cl.ChallengeType),
		Confidence:    cl.Confidence,
		Reasoning:     cl.Reasoning,
	}

	if cl.Difficulty != "" || cl.Participants != "" || cl.Safety != "" || cl.MusicGenre != "" || cl.EasyToFollow {
		out.Analysis = &types.VideoAnalysis{
			Difficulty:   types.DifficultyLevel(cl.Difficulty),
			Participants: types.ParticipantType(cl.Participants),
			Safety:       types.SafetyLevel(cl.Safety),
			EasyToFollow: cl.EasyToFollow,
			MusicGenre:   cl.MusicGenre,
		}
	}

	return out
}

// Keyword tables for the fallback path. Intentionally coarse: the
// fallback exists to keep the pipeline moving, not to compete with the
// backend.
var challengeKeywords = []struct {
	challengeType types.ChallengeType
	keywords      []string
}{
	{types.ChallengeDance, []string{"댄스", "춤", "안무", "dance", "choreography"}},
	{types.ChallengeFood, []string{"먹방", "음식", "요리", "food", "mukbang", "recipe"}},
	{types.ChallengeFitness, []string{"운동", "피트니스", "홈트", "fitness", "workout"}},
	{types.ChallengeCreative, []string{"그림", "만들기", "diy", "craft", "art"}},
	{types.ChallengeGame, []string{"게임", "퀴즈", "gaming", "quiz"}},
}

func keywordClassifyAll(batch []types.RawVideo) []types.ClassifiedVideo {
	out := make([]types.ClassifiedVideo, 0, len(batch))
	for _, v := range batch {
		out = append(out, keywordClassify(v))
	}
	return out
}

// keywordClassify assigns a category from title/description keywords at
// a fixed low confidence, with no analysis signals.
func keywordClassify(v types.RawVideo) types.ClassifiedVideo {
	text := strings.ToLower(v.Title + " " + v.Description)

	out := types.ClassifiedVideo{
		VideoID:      v.VideoID,
		Title:        v.Title,
		Description:  v.Description,
		ChannelTitle: v.ChannelTitle,
		PublishedAt:  v.PublishedAt,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		Category:     types.CategoryTrendingSounds,
		Confidence:   0.4,
		Reasoning:    "keyword fallback classification",
	}

	if strings.Contains(text, "챌린지") || strings.Contains(text, "challenge") {
		out.Category = types.CategoryChallenge
	}
	for _, entry := range challengeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				out.Category = types.CategoryChallenge
				out.ChallengeType = entry.challengeType
				return out
			}
		}
	}

	return out
}

// extractJSONBlock finds the first balanced top-level {...} block in the
// text, tolerating prose or code fences around the JSON.
func extractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
