// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank filters and orders classified videos against a parsed
// request. Filtering is a pure predicate over the pool; ranking is a
// single stable sort plus truncation. Neither mutates items.
//
// See docs/ARCHITECTURE § Filtering and Ranking.
package rank

import (
	"strings"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// participantTerms maps a participant type to the title/description
// keywords used when an item carries no structured participant signal.
var participantTerms = map[types.ParticipantType][]string{
	types.ParticipantCouple:     {"커플", "둘이서", "couple", "duo"},
	types.ParticipantGroup:      {"그룹", "단체", "group", "team"},
	types.ParticipantKids:       {"아이들", "어린이", "kids", "children"},
	types.ParticipantFamily:     {"가족", "family"},
	types.ParticipantIndividual: {"혼자", "솔로", "solo"},
}

// Filter returns the videos that satisfy every predicate of the content
// and quantity filters. The input slice is never modified; re-filtering
// the output with the same filters returns it unchanged.
func Filter(pool []types.ClassifiedVideo, cf types.ContentFilter, qf types.QuantityFilter) []types.ClassifiedVideo {
	out := make([]types.ClassifiedVideo, 0, len(pool))
	for _, v := range pool {
		if matches(v, cf, qf) {
			out = append(out, v)
		}
	}
	return out
}

func matches(v types.ClassifiedVideo, cf types.ContentFilter, qf types.QuantityFilter) bool {
	if cf.VideoCategory != "" && v.Category != cf.VideoCategory {
		return false
	}
	if cf.ChallengeType != "" && v.ChallengeType != "" && v.ChallengeType != cf.ChallengeType {
		return false
	}
	if cf.Difficulty != "" && v.Analysis != nil && v.Analysis.Difficulty != "" && v.Analysis.Difficulty != cf.Difficulty {
		return false
	}
	if !matchesParticipants(v, cf.Participants) {
		return false
	}

	text := strings.ToLower(v.Title + " " + v.Description)
	for _, kw := range cf.MustInclude {
		if !strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	for _, kw := range cf.MustExclude {
		if strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}

	if qf.MinViews > 0 && v.ViewCount < qf.MinViews {
		return false
	}
	if qf.MaxViews > 0 && v.ViewCount > qf.MaxViews {
		return false
	}

	return true
}

// matchesParticipants checks the structured participant signal when the
// item has one, and otherwise falls back to keyword search over the
// title and description. With a non-any filter, no signal and no keyword
// match disqualifies the item.
func matchesParticipants(v types.ClassifiedVideo, want types.ParticipantType) bool {
	if want == "" || want == types.ParticipantAny {
		return true
	}
	if v.Analysis != nil && v.Analysis.Participants != "" && v.Analysis.Participants != types.ParticipantAny {
		return v.Analysis.Participants == want
	}

	text := strings.ToLower(v.Title + " " + v.Description)
	for _, term := range participantTerms[want] {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
