// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"strings"
	"unicode"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// parseContext carries the request-scoped parsing state: the raw input,
// a normalized form the rule tables run against, and a coarse language
// tag. A fresh context is built per Parse call; nothing is shared across
// concurrent parses.
type parseContext struct {
	originalInput   string
	normalizedInput string
	language        types.Language
}

func newContext(input string) parseContext {
	return parseContext{
		originalInput:   input,
		normalizedInput: strings.ToLower(strings.TrimSpace(input)),
		language:        detectLanguage(input),
	}
}

// detectLanguage counts Hangul syllables against all Hangul+Latin letters
// and tags the input korean when the ratio exceeds 0.3. This is a cheap
// heuristic, not a language-identification model; mixed text can and will
// mis-tag.
func detectLanguage(input string) types.Language {
	var hangul, letters int
	for _, r := range input {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3:
			hangul++
			letters++
		case unicode.In(r, unicode.Latin):
			letters++
		}
	}
	if letters > 0 && float64(hangul)/float64(letters) > 0.3 {
		return types.LangKorean
	}
	return types.LangEnglish
}
