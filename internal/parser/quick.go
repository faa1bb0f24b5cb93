// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// Numeric and time patterns used by the quick pass. The keyword tables in
// keywords.go cover everything a substring match can express; these cover
// the rest.
var (
	topNPattern    = regexp.MustCompile(`(?i)(?:top|상위|탑)\s*(\d+)`)
	countPattern   = regexp.MustCompile(`(\d+)\s*(?:개|명|인|번)`)
	numberPattern  = regexp.MustCompile(`\b(\d+)\b`)
	viewPattern    = regexp.MustCompile(`조회수\s*(\d+(?:만|억|천|,\d+)*)\s*(?:이상|넘는|초과)`)
	timeThis       = regexp.MustCompile(`(?:이번|this)\s*(?:주|달|월|week|month)`)
	timeLast       = regexp.MustCompile(`(?:지난|last)\s*(?:주|달|월|week|month)`)
	timeRecent     = regexp.MustCompile(`(?:최근|요즘|recent)`)
	timeDays       = regexp.MustCompile(`(\d+)\s*(?:일|days?)(?:간|동안|내)?`)
	dancePattern   = regexp.MustCompile(`댄스|춤|dance|안무|choreography`)
	weekIndicator  = regexp.MustCompile(`주|week`)
	monthIndicator = regexp.MustCompile(`달|월|month`)
)

// Per-rule local confidences. A matched rule records its value for the
// field it fills; fields whose rules all miss record the low default so
// they still weigh into the mean.
const (
	confKeywordHit    = 0.9
	confPatternHit    = 0.8
	confBareNumber    = 0.6
	confActionDefault = 0.3
	confFieldDefault  = 0.5
	confCountDefault  = 0.3
	confOutput        = 0.7
)

// quickParse runs the lexical pass over a parsing context. It never
// fails: every field falls back to its default and the confidence map
// records how sure each rule was. The aggregate confidence is the
// arithmetic mean of the recorded factors.
func quickParse(pc parseContext, version string, now time.Time) types.ParsedUserRequest {
	input := pc.normalizedInput
	factors := map[string]float64{}

	req := types.ParsedUserRequest{
		OriginalInput: pc.originalInput,
		ParsedAt:      now,
		ParserVersion: version,
		OutputPreferences: types.OutputPreferences{
			Language: pc.language,
		},
	}

	req.ActionType = extractAction(input, factors)
	req.ContentFilter = extractContentFilter(input, factors)
	req.QuantityFilter = extractQuantityFilter(input, factors)
	req.TimeFilter = extractTimeFilter(input, factors)
	factors["output"] = confOutput

	var sum float64
	for _, f := range factors {
		sum += f
	}
	req.Confidence = sum / float64(len(factors))

	return req
}

func extractAction(input string, factors map[string]float64) types.ActionType {
	if action, ok := lookupAction(input); ok {
		factors["action"] = confKeywordHit
		return action
	}
	factors["action"] = confActionDefault
	return types.ActionFind
}

func extractContentFilter(input string, factors map[string]float64) types.ContentFilter {
	cf := types.ContentFilter{
		ContentType:  types.ContentGeneralChallenge,
		Participants: types.ParticipantAny,
	}

	if ct, ok := lookupContentType(input); ok {
		cf.ContentType = ct
		cf.ChallengeType = challengeTypeFor[ct]
		cf.VideoCategory = types.CategoryChallenge
		factors["content_type"] = confKeywordHit
	} else if dancePattern.MatchString(input) {
		cf.ContentType = types.ContentDanceChallenge
		cf.ChallengeType = types.ChallengeDance
		cf.VideoCategory = types.CategoryChallenge
		factors["content_type"] = confPatternHit
	} else {
		factors["content_type"] = confFieldDefault
	}

	if strings.Contains(input, "kpop") || strings.Contains(input, "k-pop") || strings.Contains(input, "케이팝") {
		cf.Keywords = append(cf.Keywords, "kpop")
		cf.Genre = "K-pop"
	}

	if d, ok := lookupDifficulty(input); ok {
		cf.Difficulty = d
		factors["difficulty"] = confPatternHit
	}

	if p, ok := lookupParticipants(input); ok {
		cf.Participants = p
		factors["participants"] = confPatternHit
	}

	return cf
}

func extractQuantityFilter(input string, factors map[string]float64) types.QuantityFilter {
	qf := types.QuantityFilter{
		Count:     10,
		SortOrder: types.SortRelevance,
	}

	if order, ok := lookupSortOrder(input); ok {
		qf.SortOrder = order
		factors["sort"] = confPatternHit
	}

	if m := viewPattern.FindStringSubmatch(input); m != nil {
		qf.MinViews = parseKoreanNumber(m[1])
		factors["view_filter"] = confPatternHit
	}

	// An explicit "top N" is the strongest quantity signal and ends the pass.
	if m := topNPattern.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 {
			qf.TopN = n
			qf.Count = n
			factors["quantity"] = confKeywordHit
			return qf
		}
	}

	if m := countPattern.FindStringSubmatch(input); m != nil {
		if n, _ := strconv.Atoi(m[1]); n >= 1 {
			qf.Count = n
		}
		factors["quantity"] = confPatternHit
	} else if m := numberPattern.FindStringSubmatch(input); m != nil {
		if n, _ := strconv.Atoi(m[1]); n >= 1 {
			qf.Count = n
		}
		factors["quantity"] = confBareNumber
	} else {
		factors["quantity"] = confCountDefault
	}

	return qf
}

func extractTimeFilter(input string, factors map[string]float64) types.TimeFilter {
	tf := types.TimeFilter{TimeRange: types.TimeRecent}

	switch {
	case timeThis.MatchString(input):
		if weekIndicator.MatchString(input) {
			tf.TimeRange = types.TimeThisWeek
		} else if monthIndicator.MatchString(input) {
			tf.TimeRange = types.TimeThisMonth
		}
		factors["time"] = confKeywordHit
	case timeLast.MatchString(input):
		if weekIndicator.MatchString(input) {
			tf.TimeRange = types.TimeLastWeek
		} else if monthIndicator.MatchString(input) {
			tf.TimeRange = types.TimeLastMonth
		}
		factors["time"] = confKeywordHit
	case strings.Contains(input, "오늘") || strings.Contains(input, "today"):
		tf.TimeRange = types.TimeToday
		factors["time"] = confKeywordHit
	case timeRecent.MatchString(input):
		tf.TimeRange = types.TimeRecent
		factors["time"] = confPatternHit
	default:
		factors["time"] = confFieldDefault
	}

	// Explicit day counts override the named ranges.
	if m := timeDays.FindStringSubmatch(input); m != nil {
		if n, _ := strconv.Atoi(m[1]); n >= 1 {
			tf.TimeRange = types.TimeCustom
			tf.CustomDays = n
			factors["time"] = confKeywordHit
		}
	}

	return tf
}

// parseKoreanNumber converts numeric expressions with Korean magnitude
// suffixes (천 10^3, 만 10^4, 억 10^8) to an integer. Unparseable input
// yields zero.
func parseKoreanNumber(text string) int64 {
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, " ", "")

	multiplier := int64(1)
	switch {
	case strings.Contains(text, "억"):
		multiplier = 100_000_000
		text = strings.ReplaceAll(text, "억", "")
	case strings.Contains(text, "만"):
		multiplier = 10_000
		text = strings.ReplaceAll(text, "만", "")
	case strings.Contains(text, "천"):
		multiplier = 1_000
		text = strings.ReplaceAll(text, "천", "")
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return n * multiplier
}
