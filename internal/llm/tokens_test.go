package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens_EmptyStringIsZero(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
}

func TestCountTokens_LongerTextCountsMoreTokens(t *testing.T) {
	short := CountTokens("hello")
	long := CountTokens("hello, this is a much longer piece of text with many more words in it")
	assert.Greater(t, long, short)
}

func TestCountTokens_IsDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, CountTokens(text), CountTokens(text))
}

func TestCountInputTokens_SumsPerMessageWithOverhead(t *testing.T) {
	messages := []Message{
		{Role: RoleSystem, Content: "you are a helpful agent"},
		{Role: RoleUser, Content: "what is the weather"},
	}

	want := 0
	for _, m := range messages {
		want += CountTokens(string(m.Role)) + CountTokens(m.Content) + 4
	}
	assert.Equal(t, want, CountInputTokens(messages))
}

func TestCountInputTokens_EmptySliceIsZero(t *testing.T) {
	assert.Equal(t, 0, CountInputTokens(nil))
}

func TestCountOutputTokens_MatchesCountTokens(t *testing.T) {
	content := "done, the change has been applied"
	assert.Equal(t, CountTokens(content), CountOutputTokens(content))
}
