package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/catalog"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/kumar241977/ai-coaching-assistant/internal/engine"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SessionCache is the optional read-through cache in front of the session
// store. *redis.SessionCache satisfies it.
type SessionCache interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

var _ SessionCache = (*redis.SessionCache)(nil)

// CoachingService orchestrates sessions: it serializes concurrent messages
// per session, runs the conversation engine, optionally enriches the reply
// with generated prose, and persists the resulting state.
type CoachingService struct {
	repo       domain.SessionRepository
	cache      SessionCache
	llmRouter  *llm.Router
	engine     *engine.Engine
	llmTimeout time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewCoachingService creates a new coaching service. cache and llmRouter may
// be nil; both are optional capabilities.
func NewCoachingService(
	repo domain.SessionRepository,
	cache SessionCache,
	llmRouter *llm.Router,
	eng *engine.Engine,
	llmTimeout time.Duration,
) *CoachingService {
	if llmTimeout <= 0 {
		llmTimeout = 15 * time.Second
	}
	return &CoachingService{
		repo:       repo,
		cache:      cache,
		llmRouter:  llmRouter,
		engine:     eng,
		llmTimeout: llmTimeout,
		locks:      make(map[uuid.UUID]*sessionLock),
	}
}

// lockSession serializes work on one session id. Messages to distinct
// sessions proceed concurrently.
func (s *CoachingService) lockSession(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// CreateSession starts a fresh session for the user and returns it together
// with the intake greeting. The greeting is part of the recorded history.
func (s *CoachingService) CreateSession(ctx context.Context, userID uuid.UUID) (*domain.Session, *engine.Result, error) {
	session := domain.NewSession(userID)

	greeting := s.engine.Greeting(session)
	session.AppendTurn(domain.Turn{
		Role:    domain.RoleCoach,
		Content: greeting.Message,
		Stage:   session.Stage,
	})

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.cacheSet(ctx, session)

	return session, greeting, nil
}

// GetSession loads a session by id.
func (s *CoachingService) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.loadSession(ctx, id)
}

// ListSessions returns summaries of the user's sessions, most recent first.
func (s *CoachingService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ProvidersInfo reports the registered generation providers.
func (s *CoachingService) ProvidersInfo() []llm.ProviderInfo {
	if s.llmRouter == nil {
		return nil
	}
	return s.llmRouter.GetProvidersInfo()
}

// Advance applies one inbound message to the session. Concurrent messages to
// the same session are processed one at a time; the session is persisted only
// when the engine accepted the input.
func (s *CoachingService) Advance(ctx context.Context, sessionID uuid.UUID, in engine.Input) (*engine.Result, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Advance(session, in)
	if err != nil {
		// Structural rejection; the session was not mutated.
		return nil, err
	}

	if in.Kind == engine.InputText {
		s.enrichWithLLM(ctx, session, in.Text, result)
	}

	if err := s.repo.Update(ctx, session); err != nil {
		// Drop the cached copy so a stale session cannot outlive the
		// failed write.
		s.cacheInvalidate(ctx, session.ID)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.cacheSet(ctx, session)

	return result, nil
}

// enrichWithLLM swaps the templated coaching message for generated prose when
// a configured provider is available. Any failure keeps the template.
func (s *CoachingService) enrichWithLLM(ctx context.Context, session *domain.Session, userText string, result *engine.Result) {
	if s.llmRouter == nil || !s.llmRouter.HasDefault() {
		return
	}

	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return
	}

	topicName := ""
	if topic, err := catalog.Topic(session.TopicKey); err == nil {
		topicName = topic.Name
	}

	req := llm.Request{
		UserMessage: userText,
		Topic:       topicName,
		Stage:       string(result.Stage),
		Competency:  string(result.Competency),
		Style:       string(result.Style),
		History:     historyForPrompt(session),
	}

	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	resp, err := provider.Generate(genCtx, req, "")
	if err != nil {
		log.Warn().Err(err).
			Str("provider", provider.Name()).
			Str("session_id", session.ID.String()).
			Msg("generation failed, falling back to template response")
		return
	}
	if resp.Message == "" {
		return
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("generated coaching response")

	result.Message = resp.Message
	if questions := llm.ExtractQuestions(resp.Message); len(questions) > 0 {
		result.Questions = questions
	}

	// Keep the recorded history in step with what the client saw.
	if n := len(session.History); n > 0 && session.History[n-1].Role == domain.RoleCoach {
		session.History[n-1].Content = resp.Message
	}
}

// historyForPrompt maps the session history to prompt entries, excluding the
// two turns appended for the message currently being answered.
func historyForPrompt(session *domain.Session) []llm.HistoryEntry {
	history := session.History
	if len(history) >= 2 {
		history = history[:len(history)-2]
	}
	entries := make([]llm.HistoryEntry, 0, len(history))
	for _, t := range history {
		entries = append(entries, llm.HistoryEntry{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	return entries
}

func (s *CoachingService) loadSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, session)
	return session, nil
}

func (s *CoachingService) cacheSet(ctx context.Context, session *domain.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, session); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("failed to cache session")
	}
}

func (s *CoachingService) cacheInvalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("session_id", id.String()).Msg("failed to invalidate cached session")
	}
}
