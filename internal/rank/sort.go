// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// difficultyOrdinal orders difficulty levels for the difficulty sorts.
// Items without a structured difficulty rank as easiest.
var difficultyOrdinal = map[types.DifficultyLevel]int{
	types.DifficultyEasy:   1,
	types.DifficultyMedium: 2,
	types.DifficultyHard:   3,
	types.DifficultyExpert: 4,
}

// Rank sorts a copy of the filtered videos by the requested strategy and
// truncates to the requested count. The sort is stable: equal keys keep
// their input order. A count below 1 is treated as 10.
func Rank(videos []types.ClassifiedVideo, qf types.QuantityFilter) []types.ClassifiedVideo {
	out := make([]types.ClassifiedVideo, len(videos))
	copy(out, videos)

	less := lessFunc(qf.SortOrder)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	count := qf.Count
	if count < 1 {
		count = 10
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func lessFunc(order types.SortOrder) func(a, b types.ClassifiedVideo) bool {
	switch order {
	case types.SortViewCountDesc:
		return func(a, b types.ClassifiedVideo) bool { return a.ViewCount > b.ViewCount }
	case types.SortViewCountAsc:
		return func(a, b types.ClassifiedVideo) bool { return a.ViewCount < b.ViewCount }
	case types.SortLikeCountDesc:
		return func(a, b types.ClassifiedVideo) bool { return a.LikeCount > b.LikeCount }
	case types.SortRecentFirst:
		return func(a, b types.ClassifiedVideo) bool { return a.PublishedAt.After(b.PublishedAt) }
	case types.SortOldestFirst:
		return func(a, b types.ClassifiedVideo) bool { return a.PublishedAt.Before(b.PublishedAt) }
	case types.SortDifficultyAsc:
		return func(a, b types.ClassifiedVideo) bool { return difficulty(a) < difficulty(b) }
	case types.SortDifficultyDesc:
		return func(a, b types.ClassifiedVideo) bool { return difficulty(a) > difficulty(b) }
	default:
		return func(a, b types.ClassifiedVideo) bool { return a.Confidence > b.Confidence }
	}
}

func difficulty(v types.ClassifiedVideo) int {
	if v.Analysis == nil {
		return 1
	}
	if ord, ok := difficultyOrdinal[v.Analysis.Difficulty]; ok {
		return ord
	}
	return 1
}
