// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// refinementPromptTmpl is the prompt sent to the completion backend when
// the quick pass is not confident enough. It shows the quick result and
// asks for corrections as a single JSON object.
var refinementPromptTmpl = template.Must(template.New("refinement").Parse(`You are a request-understanding system for a short-form video search tool. A rule-based parser produced a first interpretation of the user's request below, but with low confidence. Review the original request and correct or complete the interpretation.

Respond with a single JSON object and no other text, with these fields:
- action: one of "find", "recommend", "analyze", "compare", "explain"
- content_type: one of "dance_challenge", "food_challenge", "fitness_challenge", "creative_challenge", "game_challenge", "general_challenge", "any_video"
- keywords: an array of search terms present in or implied by the request
- difficulty: one of "easy", "medium", "hard", "expert", or "" if not specified
- participants: one of "individual", "couple", "group", "kids", "family", or "" if not specified
- count: the number of results requested (0 if not specified)
- time_range: one of "today", "this_week", "this_month", "recent", "last_week", "last_month", or "" if not specified
- special_requirements: an array of constraints the rule-based pass likely missed (phrases that must appear in results)
- confidence: a float between 0.0 and 1.0 for how certain you are about this interpretation

Example response:
{"action": "find", "content_type": "dance_challenge", "keywords": ["dance challenge", "kpop"], "difficulty": "easy", "participants": "", "count": 5, "time_range": "this_week", "special_requirements": [], "confidence": 0.93}

Original request:
{{.Input}}

Rule-based interpretation (JSON):
{{.Quick}}
`))

// refinement is the structured correction returned by the completion
// backend for one low-confidence parse.
type refinement struct {
	Action              string   `json:"action"`
	ContentType         string   `json:"content_type"`
	Keywords            []string `json:"keywords"`
	Difficulty          string   `json:"difficulty"`
	Participants        string   `json:"participants"`
	Count               int      `json:"count"`
	TimeRange           string   `json:"time_range"`
	SpecialRequirements []string `json:"special_requirements"`
	Confidence          float64  `json:"confidence"`
}

// renderRefinementPrompt executes the refinement template with the raw
// input and the quick result serialized as JSON.
func renderRefinementPrompt(input string, quick types.ParsedUserRequest) (string, error) {
	quickJSON, err := json.Marshal(quick)
	if err != nil {
		return "", fmt.Errorf("marshaling quick result: %w", err)
	}
	var buf bytes.Buffer
	data := struct {
		Input string
		Quick string
	}{Input: input, Quick: string(quickJSON)}
	if err := refinementPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// refine asks the completion backend to correct the quick result and
// merges the answer in. It returns the merged request; on any failure the
// quick result comes back unchanged together with the error so the caller
// can degrade with a warning instead of failing.
func refine(ctx context.Context, completer Completer, quick types.ParsedUserRequest) (types.ParsedUserRequest, error) {
	prompt, err := renderRefinementPrompt(quick.OriginalInput, quick)
	if err != nil {
		return quick, err
	}

	raw, err := completer.Complete(ctx, prompt)
	if err != nil {
		return quick, fmt.Errorf("calling completion backend: %w", err)
	}

	block, ok := extractJSONBlock(raw)
	if !ok {
		return quick, fmt.Errorf("no JSON object in completion response")
	}

	var ref refinement
	if err := json.Unmarshal([]byte(block), &ref); err != nil {
		return quick, fmt.Errorf("parsing refinement JSON: %w", err)
	}
	if ref.Confidence < 0.0 || ref.Confidence > 1.0 {
		return quick, fmt.Errorf("refinement confidence %f out of range [0,1]", ref.Confidence)
	}

	return mergeRefinement(quick, ref), nil
}

// mergeRefinement folds a refinement into the quick result. The quick
// result stays authoritative for fields the refinement leaves empty;
// keywords and special requirements are additive; confidence is the max
// of the two passes, never a downgrade.
func mergeRefinement(quick types.ParsedUserRequest, ref refinement) types.ParsedUserRequest {
	merged := quick

	if a := types.ActionType(ref.Action); validActions[a] {
		merged.ActionType = a
	}
	if ct := types.ContentType(ref.ContentType); validContentTypes[ct] {
		merged.ContentFilter.ContentType = ct
		if t, ok := challengeTypeFor[ct]; ok {
			merged.ContentFilter.ChallengeType = t
			merged.ContentFilter.VideoCategory = types.CategoryChallenge
		}
	}
	if d := types.DifficultyLevel(ref.Difficulty); validDifficulties[d] {
		merged.ContentFilter.Difficulty = d
	}
	if p := types.ParticipantType(ref.Participants); validParticipants[p] {
		merged.ContentFilter.Participants = p
	}
	if ref.Count >= 1 {
		merged.QuantityFilter.Count = ref.Count
	}
	if tr := types.TimeRange(ref.TimeRange); validTimeRanges[tr] {
		merged.TimeFilter.TimeRange = tr
	}

	for _, kw := range ref.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" && !containsFold(merged.ContentFilter.Keywords, kw) {
			merged.ContentFilter.Keywords = append(merged.ContentFilter.Keywords, kw)
		}
	}
	for _, req := range ref.SpecialRequirements {
		req = strings.TrimSpace(req)
		if req != "" && !containsFold(merged.ContentFilter.MustInclude, req) {
			merged.ContentFilter.MustInclude = append(merged.ContentFilter.MustInclude, req)
		}
	}

	if ref.Confidence > merged.Confidence {
		merged.Confidence = ref.Confidence
	}

	return merged
}

var validActions = map[types.ActionType]bool{
	types.ActionFind:      true,
	types.ActionRecommend: true,
	types.ActionAnalyze:   true,
	types.ActionCompare:   true,
	types.ActionExplain:   true,
}

var validContentTypes = map[types.ContentType]bool{
	types.ContentDanceChallenge:    true,
	types.ContentFoodChallenge:     true,
	types.ContentFitnessChallenge:  true,
	types.ContentCreativeChallenge: true,
	types.ContentGameChallenge:     true,
	types.ContentGeneralChallenge:  true,
	types.ContentAnyVideo:          true,
}

var validDifficulties = map[types.DifficultyLevel]bool{
	types.DifficultyEasy:   true,
	types.DifficultyMedium: true,
	types.DifficultyHard:   true,
	types.DifficultyExpert: true,
}

var validParticipants = map[types.ParticipantType]bool{
	types.ParticipantIndividual: true,
	types.ParticipantCouple:     true,
	types.ParticipantGroup:      true,
	types.ParticipantKids:       true,
	types.ParticipantFamily:     true,
}

var validTimeRanges = map[types.TimeRange]bool{
	types.TimeToday:     true,
	types.TimeThisWeek:  true,
	types.TimeThisMonth: true,
	types.TimeRecent:    true,
	types.TimeLastWeek:  true,
	types.TimeLastMonth: true,
}

// extractJSONBlock finds the first balanced top-level {...} block in the
// text. Completion backends wrap JSON in prose or code fences often
// enough that a plain Unmarshal of the whole response is not reliable.
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

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
