package utils

// Rough token estimation used to budget prompt sizes. Approximates
// 1 token ~= 4 characters; close enough for a hard ceiling.

// CountTokens estimates the number of tokens in the given text.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit naively truncates text to roughly fit within a
// token limit.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if CountTokens(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit*4])
}
