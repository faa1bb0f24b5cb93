// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser turns free-form user requests into structured queries.
// A fast lexical pass handles every input on its own; a completion
// backend refines the result only when the lexical pass reports low
// confidence. Parse never fails: any internal error degrades to a
// low-confidence fallback result with warnings.
//
// See docs/ARCHITECTURE § Request Parsing.
package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// Completer abstracts the text-completion API used for refinement so
// tests can supply a mock. A nil Completer disables refinement; the
// quick pass alone then serves every request.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one parse. Warnings carry degradation notes
// (refinement failures, malformed completions); they never indicate that
// the Request is unusable.
type Result struct {
	Request  types.ParsedUserRequest
	Warnings []string
}

// Parser converts natural-language requests into ParsedUserRequests.
type Parser struct {
	completer Completer
	cfg       types.ParserConfig

	// now is the clock; tests substitute a fixed one.
	now func() time.Time
}

// New creates a Parser. completer may be nil to run without refinement.
func New(completer Completer, cfg types.ParserConfig) *Parser {
	if cfg.MinQuickConfidence <= 0 {
		cfg.MinQuickConfidence = 0.8
	}
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	return &Parser{
		completer: completer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Parse interprets one user request. It always returns a usable Result;
// a panic anywhere in the rule tables or refinement degrades to the
// fallback request rather than propagating.
func (p *Parser) Parse(ctx context.Context, input string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Request:  p.fallbackRequest(input),
				Warnings: []string{fmt.Sprintf("parser error, using fallback interpretation: %v", r)},
			}
		}
	}()

	pc := newContext(input)
	if pc.normalizedInput == "" {
		return Result{Request: p.fallbackRequest(input)}
	}

	req := quickParse(pc, p.cfg.Version, p.now())

	if req.Confidence >= p.cfg.MinQuickConfidence || p.completer == nil {
		return Result{Request: req}
	}

	refined, err := refine(ctx, p.completer, req)
	if err != nil {
		return Result{
			Request:  req,
			Warnings: []string{fmt.Sprintf("refinement unavailable, using quick interpretation: %v", err)},
		}
	}
	return Result{Request: refined}
}

// fallbackRequest is the guaranteed-usable interpretation: find anything
// matching the raw input, low confidence, with the whole input flagged
// as ambiguous.
func (p *Parser) fallbackRequest(input string) types.ParsedUserRequest {
	req := types.ParsedUserRequest{
		OriginalInput: input,
		ActionType:    types.ActionFind,
		Confidence:    0.3,
		ContentFilter: types.ContentFilter{
			ContentType:  types.ContentGeneralChallenge,
			Participants: types.ParticipantAny,
		},
		QuantityFilter: types.QuantityFilter{
			Count:     10,
			SortOrder: types.SortRelevance,
		},
		TimeFilter: types.TimeFilter{
			TimeRange: types.TimeRecent,
		},
		OutputPreferences: types.OutputPreferences{
			Language: detectLanguage(input),
		},
		ParsedAt:       p.now(),
		ParserVersion:  p.cfg.Version,
		AmbiguousParts: []string{input},
		Suggestions: []string{
			"Try naming a content type (dance, food, fitness), a count, and a time range.",
		},
	}
	if input != "" {
		req.ContentFilter.Keywords = []string{input}
	}
	return req
}
