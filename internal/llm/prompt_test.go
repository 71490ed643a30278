package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(Request{
		Topic:      "Work-Life Balance",
		Stage:      "exploration",
		Competency: "active_listening",
		Style:      "supportive",
	})

	assert.Contains(t, prompt, "executive coach specializing in Work-Life Balance")
	assert.Contains(t, prompt, "Never give direct advice")
	assert.Contains(t, prompt, "Current conversation stage: exploration")
	assert.Contains(t, prompt, "active_listening")
	assert.Contains(t, prompt, "supportive")
}

func TestBuildSystemPrompt_EmptyTopic(t *testing.T) {
	prompt := BuildSystemPrompt(Request{})
	assert.Contains(t, prompt, "what matters most to them")
}

func TestBuildPrompt_HistoryIsBounded(t *testing.T) {
	var history []HistoryEntry
	for i := 0; i < 10; i++ {
		history = append(history, HistoryEntry{Role: "user", Content: "older message"})
	}
	history = append(history, HistoryEntry{Role: "coach", Content: "the most recent reply"})

	prompt := BuildPrompt(Request{
		UserMessage: "what should we explore next",
		History:     history,
	})

	assert.Contains(t, prompt, "the most recent reply")
	assert.Contains(t, prompt, "User: what should we explore next")
	assert.True(t, strings.HasSuffix(prompt, "Coach:"))
	assert.Equal(t, maxHistoryEntries-1, strings.Count(prompt, "older message"))
}

func TestBuildPrompt_MissingHistoryRole(t *testing.T) {
	prompt := BuildPrompt(Request{
		UserMessage: "hello",
		History:     []HistoryEntry{{Content: "an earlier note"}},
	})

	assert.Contains(t, prompt, "User: an earlier note")
}

func TestExtractQuestions(t *testing.T) {
	message := "I hear you. Short? What patterns do you notice in your week? " +
		"And what would you like to be different about your evenings?"

	questions := ExtractQuestions(message)

	assert.Equal(t, []string{
		"What patterns do you notice in your week?",
		"And what would you like to be different about your evenings?",
	}, questions)
}

func TestExtractQuestions_KeepsLastTwo(t *testing.T) {
	message := "What happened first in that meeting? What did you feel then afterwards? What will you do differently next time?"

	questions := ExtractQuestions(message)

	assert.Equal(t, []string{
		"What did you feel then afterwards?",
		"What will you do differently next time?",
	}, questions)
}

func TestExtractQuestions_NoQuestions(t *testing.T) {
	assert.Empty(t, ExtractQuestions("Keep going. You are doing fine."))
}
