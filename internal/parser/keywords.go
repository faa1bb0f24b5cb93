// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"strings"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// The lexical rule tables below drive the quick pass. Each table is an
// ordered slice: the first keyword found in the normalized input wins,
// so priority is the table order, not match length. Keywords are stored
// lowercased; the input is normalized before lookup.

type actionRule struct {
	keyword string
	action  types.ActionType
}

var actionRules = []actionRule{
	{"추천해줘", types.ActionRecommend},
	{"골라줘", types.ActionRecommend},
	{"선택해줘", types.ActionRecommend},
	{"추천", types.ActionRecommend},
	{"recommend", types.ActionRecommend},
	{"suggest", types.ActionRecommend},
	{"분석해줘", types.ActionAnalyze},
	{"살펴봐", types.ActionAnalyze},
	{"분석", types.ActionAnalyze},
	{"analyze", types.ActionAnalyze},
	{"비교해줘", types.ActionCompare},
	{"비교", types.ActionCompare},
	{"차이", types.ActionCompare},
	{"compare", types.ActionCompare},
	{" vs ", types.ActionCompare},
	{"설명해줘", types.ActionExplain},
	{"알려줘", types.ActionExplain},
	{"가르쳐줘", types.ActionExplain},
	{"뭐야", types.ActionExplain},
	{"explain", types.ActionExplain},
	{"찾아줘", types.ActionFind},
	{"보여줘", types.ActionFind},
	{"검색해줘", types.ActionFind},
	{"검색", types.ActionFind},
	{"알아봐", types.ActionFind},
	{"찾아봐", types.ActionFind},
	{"있나", types.ActionFind},
	{"있어", types.ActionFind},
	{"find", types.ActionFind},
	{"show", types.ActionFind},
	{"search", types.ActionFind},
}

type contentRule struct {
	keyword     string
	contentType types.ContentType
}

var contentRules = []contentRule{
	{"댄스 챌린지", types.ContentDanceChallenge},
	{"댄스챌린지", types.ContentDanceChallenge},
	{"춤챌린지", types.ContentDanceChallenge},
	{"댄스", types.ContentDanceChallenge},
	{"춤", types.ContentDanceChallenge},
	{"안무", types.ContentDanceChallenge},
	{"dance", types.ContentDanceChallenge},
	{"choreography", types.ContentDanceChallenge},
	{"k-pop", types.ContentDanceChallenge},
	{"kpop", types.ContentDanceChallenge},
	{"케이팝", types.ContentDanceChallenge},
	{"먹방", types.ContentFoodChallenge},
	{"음식", types.ContentFoodChallenge},
	{"요리", types.ContentFoodChallenge},
	{"쿡방", types.ContentFoodChallenge},
	{"레시피", types.ContentFoodChallenge},
	{"베이킹", types.ContentFoodChallenge},
	{"food", types.ContentFoodChallenge},
	{"recipe", types.ContentFoodChallenge},
	{"baking", types.ContentFoodChallenge},
	{"mukbang", types.ContentFoodChallenge},
	{"피트니스", types.ContentFitnessChallenge},
	{"운동", types.ContentFitnessChallenge},
	{"헬스", types.ContentFitnessChallenge},
	{"다이어트", types.ContentFitnessChallenge},
	{"홈트", types.ContentFitnessChallenge},
	{"요가", types.ContentFitnessChallenge},
	{"fitness", types.ContentFitnessChallenge},
	{"workout", types.ContentFitnessChallenge},
	{"yoga", types.ContentFitnessChallenge},
	{"pilates", types.ContentFitnessChallenge},
	{"창작", types.ContentCreativeChallenge},
	{"그림", types.ContentCreativeChallenge},
	{"만들기", types.ContentCreativeChallenge},
	{"diy", types.ContentCreativeChallenge},
	{"아트", types.ContentCreativeChallenge},
	{"craft", types.ContentCreativeChallenge},
	{"handmade", types.ContentCreativeChallenge},
	{"게임", types.ContentGameChallenge},
	{"놀이", types.ContentGameChallenge},
	{"퀴즈", types.ContentGameChallenge},
	{"gaming", types.ContentGameChallenge},
	{"quiz", types.ContentGameChallenge},
}

// challengeTypeFor maps a content type to its challenge-type counterpart.
var challengeTypeFor = map[types.ContentType]types.ChallengeType{
	types.ContentDanceChallenge:    types.ChallengeDance,
	types.ContentFoodChallenge:     types.ChallengeFood,
	types.ContentFitnessChallenge:  types.ChallengeFitness,
	types.ContentCreativeChallenge: types.ChallengeCreative,
	types.ContentGameChallenge:     types.ChallengeGame,
}

type difficultyRule struct {
	keyword    string
	difficulty types.DifficultyLevel
}

var difficultyRules = []difficultyRule{
	{"쉬운", types.DifficultyEasy},
	{"간단한", types.DifficultyEasy},
	{"초보자", types.DifficultyEasy},
	{"기초", types.DifficultyEasy},
	{"easy", types.DifficultyEasy},
	{"simple", types.DifficultyEasy},
	{"basic", types.DifficultyEasy},
	{"보통", types.DifficultyMedium},
	{"중간", types.DifficultyMedium},
	{"적당한", types.DifficultyMedium},
	{"medium", types.DifficultyMedium},
	{"어려운", types.DifficultyHard},
	{"고급", types.DifficultyHard},
	{"복잡한", types.DifficultyHard},
	{"힘든", types.DifficultyHard},
	{"hard", types.DifficultyHard},
	{"difficult", types.DifficultyHard},
	{"advanced", types.DifficultyHard},
}

type participantRule struct {
	keyword     string
	participant types.ParticipantType
}

var participantRules = []participantRule{
	{"커플", types.ParticipantCouple},
	{"둘이서", types.ParticipantCouple},
	{"couple", types.ParticipantCouple},
	{"duo", types.ParticipantCouple},
	{"그룹", types.ParticipantGroup},
	{"단체", types.ParticipantGroup},
	{"여러명", types.ParticipantGroup},
	{"group", types.ParticipantGroup},
	{"team", types.ParticipantGroup},
	{"아이들", types.ParticipantKids},
	{"어린이", types.ParticipantKids},
	{"kids", types.ParticipantKids},
	{"children", types.ParticipantKids},
	{"가족", types.ParticipantFamily},
	{"family", types.ParticipantFamily},
	{"혼자", types.ParticipantIndividual},
	{"솔로", types.ParticipantIndividual},
	{"solo", types.ParticipantIndividual},
}

type sortRule struct {
	keyword string
	order   types.SortOrder
}

var sortRules = []sortRule{
	{"조회수 높은 순", types.SortViewCountDesc},
	{"인기순", types.SortViewCountDesc},
	{"많이 본 순", types.SortViewCountDesc},
	{"most viewed", types.SortViewCountDesc},
	{"조회수 낮은 순", types.SortViewCountAsc},
	{"적게 본 순", types.SortViewCountAsc},
	{"좋아요 많은 순", types.SortLikeCountDesc},
	{"추천 많은 순", types.SortLikeCountDesc},
	{"most liked", types.SortLikeCountDesc},
	{"최신순", types.SortRecentFirst},
	{"새로운 순", types.SortRecentFirst},
	{"최근 순", types.SortRecentFirst},
	{"newest first", types.SortRecentFirst},
	{"오래된 순", types.SortOldestFirst},
	{"옛날 순", types.SortOldestFirst},
	{"oldest first", types.SortOldestFirst},
	{"쉬운 순", types.SortDifficultyAsc},
	{"난이도 낮은 순", types.SortDifficultyAsc},
	{"어려운 순", types.SortDifficultyDesc},
	{"난이도 높은 순", types.SortDifficultyDesc},
}

// lookupAction returns the first action rule found in the input.
func lookupAction(input string) (types.ActionType, bool) {
	for _, r := range actionRules {
		if strings.Contains(input, r.keyword) {
			return r.action, true
		}
	}
	return types.ActionFind, false
}

// lookupContentType returns the first content rule found in the input.
func lookupContentType(input string) (types.ContentType, bool) {
	for _, r := range contentRules {
		if strings.Contains(input, r.keyword) {
			return r.contentType, true
		}
	}
	return types.ContentGeneralChallenge, false
}

// lookupDifficulty returns the first difficulty rule found in the input.
func lookupDifficulty(input string) (types.DifficultyLevel, bool) {
	for _, r := range difficultyRules {
		if strings.Contains(input, r.keyword) {
			return r.difficulty, true
		}
	}
	return "", false
}

// lookupParticipants returns the first participant rule found in the input.
func lookupParticipants(input string) (types.ParticipantType, bool) {
	for _, r := range participantRules {
		if strings.Contains(input, r.keyword) {
			return r.participant, true
		}
	}
	return types.ParticipantAny, false
}

// lookupSortOrder returns the first sort rule found in the input.
func lookupSortOrder(input string) (types.SortOrder, bool) {
	for _, r := range sortRules {
		if strings.Contains(input, r.keyword) {
			return r.order, true
		}
	}
	return types.SortRelevance, false
}
