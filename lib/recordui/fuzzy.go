// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult holds the outcome of matching a pattern against a
// single text field. Score is fzf's match quality (0 means no match);
// Positions are the matched rune indices in the text, ascending.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// fuzzyMatch runs fzf's V2 matching algorithm against one field.
// Matching is case-insensitive: both text and pattern are lowercased
// before the match (FuzzyMatchV2 expects a pre-lowered pattern, and
// lowering the text keeps position indices valid because Go's
// ToLower maps runes one to one).
//
// The slab is fzf's scratch allocation arena. Passing nil is valid
// and makes the algorithm allocate per call; callers matching many
// fields in a loop should allocate one slab and reuse it.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}

	loweredText := strings.ToLower(text)
	loweredPattern := []rune(strings.ToLower(string(pattern)))

	chars := util.ToChars([]byte(loweredText))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, loweredPattern, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = *positions
		// fzf reports positions in backtracking (descending) order.
		sort.Ints(matched.Positions)
	}
	return matched
}

// newSlab allocates a scratch arena sized for fzf's V2 algorithm.
// The sizes match fzf's own defaults; fields longer than the arena
// fall back to per-call allocation inside the algorithm.
func newSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}
