package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/kumar241977/ai-coaching-assistant/internal/engine"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(repo domain.SessionRepository, router *llm.Router) *CoachingService {
	return NewCoachingService(repo, nil, router, engine.New(engine.DefaultConfig()), time.Second)
}

func TestCoachingService_CreateSession(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	session, greeting, err := svc.CreateSession(ctx, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StageIntake, session.Stage)
	assert.NotEqual(t, uuid.Nil, session.UserID)
	assert.NotEmpty(t, greeting.Message)
	assert.Len(t, greeting.AvailableTopics, 4)

	// The greeting is recorded as the opening coach turn.
	require.Len(t, session.History, 1)
	assert.Equal(t, domain.RoleCoach, session.History[0].Role)

	mockRepo.AssertExpectations(t)
}

func TestCoachingService_AdvanceUnknownSession(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()

	missing := uuid.New()
	mockRepo.On("Get", ctx, missing).Return(nil, domain.ErrSessionNotFound)

	_, err := svc.Advance(ctx, missing, engine.Input{Kind: engine.InputText, Text: "hello"})

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	// A missing session must never be implicitly created.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCoachingService_AdvancePersistsAcceptedInput(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)
	mockRepo.On("Update", ctx, session).Return(nil)

	result, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputTopicSelection, Text: "work_life_balance"})
	require.NoError(t, err)

	assert.Equal(t, domain.StageExploration, result.Stage)
	mockRepo.AssertExpectations(t)
}

func TestCoachingService_AdvanceStructuralErrorDoesNotPersist(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)

	_, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputTopicSelection, Text: "alchemy"})

	var unknown *domain.UnknownTopicError
	require.ErrorAs(t, err, &unknown)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCoachingService_AdvanceUsesGeneratedProse(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	mockProvider := new(MockLLMProvider)

	mockProvider.On("Name").Return("mock")
	mockProvider.On("DefaultModel").Return("mock-model")
	mockProvider.On("IsConfigured").Return(true)
	mockProvider.On("Generate", mock.Anything, mock.AnythingOfType("llm.Request"), "").
		Return(&llm.Response{
			Message: "That sounds like a lot to carry. What would one protected evening look like?",
			Model:   "mock-model",
		}, nil)

	router := llm.NewRouter("mock")
	router.RegisterProvider(mockProvider)

	svc := newTestService(mockRepo, router)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	session.Stage = domain.StageExploration
	session.TopicKey = "work_life_balance"
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)
	mockRepo.On("Update", ctx, session).Return(nil)

	result, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputText, Text: "My evenings are gone"})
	require.NoError(t, err)

	assert.Contains(t, result.Message, "protected evening")
	require.NotEmpty(t, result.Questions)
	assert.Contains(t, result.Questions[0], "protected evening")

	// The recorded coach turn carries the generated prose.
	last := session.History[len(session.History)-1]
	assert.Equal(t, domain.RoleCoach, last.Role)
	assert.Equal(t, result.Message, last.Content)
}

func TestCoachingService_AdvanceFallsBackWhenGenerationFails(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	mockProvider := new(MockLLMProvider)

	mockProvider.On("Name").Return("mock")
	mockProvider.On("DefaultModel").Return("mock-model")
	mockProvider.On("IsConfigured").Return(true)
	mockProvider.On("Generate", mock.Anything, mock.AnythingOfType("llm.Request"), "").
		Return(nil, errors.New("provider unavailable"))

	router := llm.NewRouter("mock")
	router.RegisterProvider(mockProvider)

	svc := newTestService(mockRepo, router)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	session.Stage = domain.StageExploration
	session.TopicKey = "work_life_balance"
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)
	mockRepo.On("Update", ctx, session).Return(nil)

	result, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputText, Text: "My evenings are gone"})
	require.NoError(t, err)

	// Template content still serves the turn.
	assert.NotEmpty(t, result.Message)
	mockRepo.AssertExpectations(t)
}

func TestCoachingService_AdvanceInvalidatesCacheWhenPersistFails(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	mockCache := new(MockSessionCache)
	svc := NewCoachingService(mockRepo, mockCache, nil, engine.New(engine.DefaultConfig()), time.Second)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	mockCache.On("Get", ctx, session.ID).Return(nil, nil)
	mockCache.On("Set", ctx, session).Return(nil)
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)
	mockRepo.On("Update", ctx, session).Return(errors.New("connection reset"))
	mockCache.On("Invalidate", ctx, session.ID).Return(nil)

	_, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputTopicSelection, Text: "work_life_balance"})
	require.Error(t, err)

	// The cached copy must not outlive the failed write.
	mockCache.AssertCalled(t, "Invalidate", ctx, session.ID)
}

func TestCoachingService_ListSessionsDefaults(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("ListByUser", ctx, userID, 20, 0).Return([]domain.SessionSummary{}, nil)

	_, err := svc.ListSessions(ctx, userID, 0, -5)
	require.NoError(t, err)

	mockRepo.On("ListByUser", ctx, userID, 100, 10).Return([]domain.SessionSummary{}, nil)

	_, err = svc.ListSessions(ctx, userID, 500, 10)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestCoachingService_ConcurrentMessagesSameSession(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	svc := newTestService(mockRepo, nil)
	ctx := context.Background()

	session := domain.NewSession(uuid.New())
	session.Stage = domain.StageExploration
	session.TopicKey = "work_life_balance"
	mockRepo.On("Get", ctx, session.ID).Return(session, nil)
	mockRepo.On("Update", ctx, session).Return(nil)

	const n = 8
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Advance(ctx, session.ID, engine.Input{Kind: engine.InputText, Text: "another ordinary day"})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	// Each accepted message recorded exactly one user and one coach turn.
	assert.Equal(t, 2*n, len(session.History))
}
