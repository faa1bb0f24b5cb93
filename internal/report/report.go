// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a ranked result list into a short summary and a
// long Markdown report. It is a pure formatting layer: it never re-runs
// filtering or ranking, and an empty list renders a "no results" text
// instead of failing.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwpark/challenge-radar/pkg/types"
)

var actionTextKorean = map[types.ActionType]string{
	types.ActionFind:      "찾았습니다",
	types.ActionRecommend: "추천드립니다",
	types.ActionAnalyze:   "분석했습니다",
	types.ActionCompare:   "비교했습니다",
	types.ActionExplain:   "설명드립니다",
}

var actionTextEnglish = map[types.ActionType]string{
	types.ActionFind:      "found",
	types.ActionRecommend: "recommended",
	types.ActionAnalyze:   "analyzed",
	types.ActionCompare:   "compared",
	types.ActionExplain:   "explained",
}

// Summary renders the short plain-text summary: headline, aggregate
// stats, and a top-3 list.
func Summary(req types.ParsedUserRequest, results []types.ClassifiedVideo) string {
	korean := req.OutputPreferences.Language == types.LangKorean

	if len(results) == 0 {
		if korean {
			return "검색 조건에 맞는 결과를 찾지 못했습니다."
		}
		return "No results matched the search criteria."
	}

	contentType := strings.ReplaceAll(string(req.ContentFilter.ContentType), "_", " ")
	totalViews := sumViews(results)
	avgViews := totalViews / int64(len(results))
	avgConfidence := averageConfidence(results)

	var b strings.Builder
	if korean {
		action := actionTextKorean[req.ActionType]
		if action == "" {
			action = actionTextKorean[types.ActionFind]
		}
		fmt.Fprintf(&b, "%s %d개를 %s.\n\n", contentType, len(results), action)
		b.WriteString("📊 **요약 통계:**\n")
		fmt.Fprintf(&b, "- 총 영상 수: %d개\n", len(results))
		fmt.Fprintf(&b, "- 총 조회수: %s회\n", comma(totalViews))
		fmt.Fprintf(&b, "- 평균 조회수: %s회\n", comma(avgViews))
		fmt.Fprintf(&b, "- 분석 신뢰도: %.2f\n\n", avgConfidence)
		b.WriteString("🏆 **TOP 3:**\n")
		for i, v := range top(results, 3) {
			fmt.Fprintf(&b, "\n%d. %s (%s회)", i+1, v.Title, comma(v.ViewCount))
		}
	} else {
		action := actionTextEnglish[req.ActionType]
		if action == "" {
			action = actionTextEnglish[types.ActionFind]
		}
		fmt.Fprintf(&b, "We %s %d %s videos.\n\n", action, len(results), contentType)
		b.WriteString("📊 **Summary statistics:**\n")
		fmt.Fprintf(&b, "- Total videos: %d\n", len(results))
		fmt.Fprintf(&b, "- Total views: %s\n", comma(totalViews))
		fmt.Fprintf(&b, "- Average views: %s\n", comma(avgViews))
		fmt.Fprintf(&b, "- Average confidence: %.2f\n\n", avgConfidence)
		b.WriteString("🏆 **TOP 3:**\n")
		for i, v := range top(results, 3) {
			fmt.Fprintf(&b, "\n%d. %s (%s views)", i+1, v.Title, comma(v.ViewCount))
		}
	}
	return strings.TrimSpace(b.String())
}

// Detailed renders the long Markdown report: search metadata, a per-item
// section with optional analysis details, and a trend-insight section.
// now anchors the recency calculation so tests are deterministic.
func Detailed(req types.ParsedUserRequest, results []types.ClassifiedVideo, now time.Time) string {
	korean := req.OutputPreferences.Language == types.LangKorean

	if len(results) == 0 {
		if korean {
			return "# 검색 결과 없음\n\n검색 조건에 맞는 결과를 찾지 못했습니다."
		}
		return "# No Results\n\nNo results matched the search criteria."
	}

	contentType := strings.ReplaceAll(string(req.ContentFilter.ContentType), "_", " ")

	var b strings.Builder
	if korean {
		fmt.Fprintf(&b, "# %s 분석 결과\n\n", titleCase(contentType))
		b.WriteString("## 📊 검색 정보\n")
		fmt.Fprintf(&b, "- **사용자 요청**: %q\n", req.OriginalInput)
		fmt.Fprintf(&b, "- **검색 액션**: %s\n", req.ActionType)
		fmt.Fprintf(&b, "- **검색된 결과**: %d개\n", len(results))
		fmt.Fprintf(&b, "- **분석 일시**: %s\n\n", now.Format("2006-01-02 15:04:05"))
		b.WriteString("## 🏆 결과 목록\n\n")
		for i, v := range results {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, v.Title)
			fmt.Fprintf(&b, "- **채널**: %s\n", v.ChannelTitle)
			fmt.Fprintf(&b, "- **조회수**: %s회\n", comma(v.ViewCount))
			fmt.Fprintf(&b, "- **신뢰도**: %.2f\n", v.Confidence)
			fmt.Fprintf(&b, "- **발행일**: %s\n", v.PublishedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "- **YouTube 링크**: https://www.youtube.com/watch?v=%s\n\n", v.VideoID)
			if v.Analysis != nil {
				b.WriteString("#### 📋 상세 분석:\n")
				fmt.Fprintf(&b, "- **난이도**: %s\n", orUnknown(string(v.Analysis.Difficulty)))
				fmt.Fprintf(&b, "- **안전도**: %s\n", orUnknown(string(v.Analysis.Safety)))
				fmt.Fprintf(&b, "- **음악 장르**: %s\n", orUnknown(v.Analysis.MusicGenre))
				if v.Analysis.EasyToFollow {
					b.WriteString("- **따라하기 용이성**: 쉬움\n\n")
				} else {
					b.WriteString("- **따라하기 용이성**: 어려움\n\n")
				}
			}
			b.WriteString("---\n\n")
		}
	} else {
		fmt.Fprintf(&b, "# %s Analysis\n\n", titleCase(contentType))
		b.WriteString("## 📊 Search Details\n")
		fmt.Fprintf(&b, "- **Request**: %q\n", req.OriginalInput)
		fmt.Fprintf(&b, "- **Action**: %s\n", req.ActionType)
		fmt.Fprintf(&b, "- **Results**: %d\n", len(results))
		fmt.Fprintf(&b, "- **Generated**: %s\n\n", now.Format("2006-01-02 15:04:05"))
		b.WriteString("## 🏆 Results\n\n")
		for i, v := range results {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, v.Title)
			fmt.Fprintf(&b, "- **Channel**: %s\n", v.ChannelTitle)
			fmt.Fprintf(&b, "- **Views**: %s\n", comma(v.ViewCount))
			fmt.Fprintf(&b, "- **Confidence**: %.2f\n", v.Confidence)
			fmt.Fprintf(&b, "- **Published**: %s\n", v.PublishedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "- **YouTube link**: https://www.youtube.com/watch?v=%s\n\n", v.VideoID)
			if v.Analysis != nil {
				b.WriteString("#### 📋 Analysis:\n")
				fmt.Fprintf(&b, "- **Difficulty**: %s\n", orUnknown(string(v.Analysis.Difficulty)))
				fmt.Fprintf(&b, "- **Safety**: %s\n", orUnknown(string(v.Analysis.Safety)))
				fmt.Fprintf(&b, "- **Music genre**: %s\n", orUnknown(v.Analysis.MusicGenre))
				if v.Analysis.EasyToFollow {
					b.WriteString("- **Easy to follow**: yes\n\n")
				} else {
					b.WriteString("- **Easy to follow**: no\n\n")
				}
			}
			b.WriteString("---\n\n")
		}
	}

	b.WriteString(trendSection(results, now, korean))
	return b.String()
}

// trendSection summarizes popularity and recency across the result set:
// the most viewed video, average views and likes, the share published in
// the last seven days, and the most frequent channel once there are at
// least three results.
func trendSection(results []types.ClassifiedVideo, now time.Time, korean bool) string {
	totalViews := sumViews(results)
	avgViews := totalViews / int64(len(results))

	var totalLikes int64
	for _, v := range results {
		totalLikes += v.LikeCount
	}
	avgLikes := totalLikes / int64(len(results))

	mostPopular := results[0]
	for _, v := range results[1:] {
		if v.ViewCount > mostPopular.ViewCount {
			mostPopular = v
		}
	}

	recentCount := 0
	for _, v := range results {
		if now.Sub(v.PublishedAt) <= 7*24*time.Hour {
			recentCount++
		}
	}
	recentPct := float64(recentCount) / float64(len(results)) * 100

	var b strings.Builder
	if korean {
		b.WriteString("## 📈 트렌드 분석\n\n")
		b.WriteString("### 🔥 인기도 분석\n")
		fmt.Fprintf(&b, "- **가장 인기있는 영상**: %s (%s회)\n", mostPopular.Title, comma(mostPopular.ViewCount))
		fmt.Fprintf(&b, "- **평균 조회수**: %s회\n", comma(avgViews))
		fmt.Fprintf(&b, "- **평균 좋아요**: %s개\n", comma(avgLikes))
		fmt.Fprintf(&b, "- **최근 7일 내 영상**: %d개 (%.1f%%)\n\n", recentCount, recentPct)
		b.WriteString("### 💡 인사이트\n")
		fmt.Fprintf(&b, "- 총 %d개 영상 중 평균 조회수는 %s회입니다.\n", len(results), comma(avgViews))
		fmt.Fprintf(&b, "- 최근 업로드된 콘텐츠가 %.1f%%를 차지합니다.\n", recentPct)
	} else {
		b.WriteString("## 📈 Trend Analysis\n\n")
		b.WriteString("### 🔥 Popularity\n")
		fmt.Fprintf(&b, "- **Most viewed video**: %s (%s views)\n", mostPopular.Title, comma(mostPopular.ViewCount))
		fmt.Fprintf(&b, "- **Average views**: %s\n", comma(avgViews))
		fmt.Fprintf(&b, "- **Average likes**: %s\n", comma(avgLikes))
		fmt.Fprintf(&b, "- **Published in the last 7 days**: %d (%.1f%%)\n\n", recentCount, recentPct)
		b.WriteString("### 💡 Insights\n")
		fmt.Fprintf(&b, "- Across %d videos the average view count is %s.\n", len(results), comma(avgViews))
		fmt.Fprintf(&b, "- Recently uploaded content makes up %.1f%% of the set.\n", recentPct)
	}

	if len(results) >= 3 {
		channel, count := mostFrequentChannel(results)
		if channel != "" {
			if korean {
				fmt.Fprintf(&b, "- 가장 활발한 채널: %s (%d개 영상)\n", channel, count)
			} else {
				fmt.Fprintf(&b, "- Most active channel: %s (%d videos)\n", channel, count)
			}
		}
	}

	return b.String()
}

// mostFrequentChannel returns the channel with the most videos in the
// set. Ties resolve to the channel seen earliest in rank order.
func mostFrequentChannel(results []types.ClassifiedVideo) (string, int) {
	counts := map[string]int{}
	var best string
	bestCount := 0
	for _, v := range results {
		if v.ChannelTitle == "" {
			continue
		}
		counts[v.ChannelTitle]++
		if counts[v.ChannelTitle] > bestCount {
			best = v.ChannelTitle
			bestCount = counts[v.ChannelTitle]
		}
	}
	return best, bestCount
}

func sumViews(results []types.ClassifiedVideo) int64 {
	var total int64
	for _, v := range results {
		total += v.ViewCount
	}
	return total
}

func averageConfidence(results []types.ClassifiedVideo) float64 {
	var total float64
	for _, v := range results {
		total += v.Confidence
	}
	return total / float64(len(results))
}

func top(results []types.ClassifiedVideo, n int) []types.ClassifiedVideo {
	if len(results) < n {
		return results
	}
	return results[:n]
}

// comma formats an integer with thousands separators.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
