package compact

import (
	"os"
	"unicode/utf8"
)

// =============================================================================
// Token Counting Utilities
// =============================================================================
// Token estimation for context budget decisions. The heuristic is calibrated
// for Claude's tokenizer (~4 characters per token) and adjustable via
// memory.chars_per_token.

// TokenCounter provides token estimation.
type TokenCounter struct {
	charsPerToken float64
}

// NewTokenCounter creates a counter with the given calibration. Zero or
// negative falls back to the default 4.0.
func NewTokenCounter(charsPerToken float64) *TokenCounter {
	if charsPerToken <= 0 {
		charsPerToken = 4.0
	}
	return &TokenCounter{charsPerToken: charsPerToken}
}

// CountString estimates tokens in a string.
func (tc *TokenCounter) CountString(s string) int {
	if s == "" {
		return 0
	}
	// Rune count for proper unicode handling
	runeCount := utf8.RuneCountInString(s)
	return int(float64(runeCount) / tc.charsPerToken)
}

// CountFile estimates tokens in a file. Missing files count as zero.
func (tc *TokenCounter) CountFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return tc.CountString(string(data)), nil
}
