package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func encoding() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding("cl100k_base")
	})
	return enc, encErr
}

// CountTokens estimates tokens for text using cl100k_base, falling
// back to a 4-chars-per-token heuristic if the encoder can't load
// (e.g. no network access to fetch its vocab file).
func CountTokens(text string) int {
	e, err := encoding()
	if err != nil || e == nil {
		return len(text) / 4
	}
	return len(e.Encode(text, nil, nil))
}

// CountInputTokens sums CountTokens over every message's content plus
// a small per-message overhead for role framing.
func CountInputTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += CountTokens(string(m.Role)) + CountTokens(m.Content) + 4
	}
	return total
}

func CountOutputTokens(content string) int {
	return CountTokens(content)
}
