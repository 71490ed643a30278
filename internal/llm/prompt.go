package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// maxHistoryEntries bounds how much prior conversation is replayed to the
// model.
const maxHistoryEntries = 6

// BuildSystemPrompt renders the coaching system prompt for a request.
func BuildSystemPrompt(req Request) string {
	topic := req.Topic
	if topic == "" {
		topic = "what matters most to them"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert ICF-certified executive coach specializing in %s.\n\n", topic)
	b.WriteString(`Key coaching principles:
- Use powerful questions to create awareness
- Listen actively and reflect what you hear
- Help the client discover their own insights
- Focus on action and accountability
- Be empathetic but challenge thinking patterns
- Never give direct advice - guide discovery

Conversation style:
- Warm, professional, supportive
- Ask 1-2 powerful questions per response
- Acknowledge emotions and patterns
- Use "I notice..." and "What do you think..." language
`)
	fmt.Fprintf(&b, "\nThe client is working on: %s\n", topic)
	if req.Stage != "" {
		fmt.Fprintf(&b, "Current conversation stage: %s (apply the %s competency).\n", req.Stage, req.Competency)
	}
	if req.Style != "" {
		fmt.Fprintf(&b, "Preferred communication style for this client right now: %s.\n", req.Style)
	}
	return b.String()
}

// BuildPrompt flattens system prompt, history and the current message into a
// single prompt for providers without a chat-message API.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(BuildSystemPrompt(req))
	b.WriteString("\nConversation so far:\n")

	history := req.History
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	for _, h := range history {
		role := h.Role
		if role == "" {
			role = "user"
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(role[:1])+role[1:], h.Content)
	}

	fmt.Fprintf(&b, "User: %s\nCoach:", req.UserMessage)
	return b.String()
}

var questionPattern = regexp.MustCompile(`[^.!?\n]*\?`)

// ExtractQuestions pulls coaching questions out of generated prose so they
// can be offered as structured follow-ups. Short fragments are dropped; at
// most the last two questions are kept.
func ExtractQuestions(message string) []string {
	matches := questionPattern.FindAllString(message, -1)

	var questions []string
	for _, q := range matches {
		q = strings.TrimSpace(strings.TrimLeft(q, "- "))
		if len(q) > 15 {
			questions = append(questions, q)
		}
	}

	if len(questions) > 2 {
		questions = questions[len(questions)-2:]
	}
	return questions
}
