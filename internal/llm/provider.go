package llm

import "context"

// Request contains coaching-prose generation parameters.
type Request struct {
	UserMessage string
	Topic       string
	Stage       string
	Competency  string
	Style       string
	History     []HistoryEntry
}

// HistoryEntry is one prior exchange supplied for conversational context.
type HistoryEntry struct {
	Role    string // "user" or "coach"
	Content string
}

// Response contains a generation result.
type Response struct {
	Message    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for generation backends.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces coaching prose for the request
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}
