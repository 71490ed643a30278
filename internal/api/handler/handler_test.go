package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/api"
	"github.com/kumar241977/ai-coaching-assistant/internal/api/handler"
	"github.com/kumar241977/ai-coaching-assistant/internal/config"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// memoryRepo is an in-memory SessionRepository for handler tests.
type memoryRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (r *memoryRepo) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SessionSummary
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s.Summary())
		}
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.MiddlewareTimeout = 30 * time.Second
	cfg.LLM.Timeout = time.Second

	router := api.NewRouter(cfg, newMemoryRepo(), nil, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, envelope
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["success"] != true {
		t.Error("expected success to be true")
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	// Create a session
	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	data := envelope["data"].(map[string]any)
	sessionID, _ := data["session_id"].(string)
	if sessionID == "" {
		t.Fatal("expected a session_id")
	}
	if data["stage"] != "intake" {
		t.Errorf("expected intake stage, got %v", data["stage"])
	}
	topics, _ := data["available_topics"].([]any)
	if len(topics) != 4 {
		t.Errorf("expected 4 available topics, got %d", len(topics))
	}

	messagesURL := fmt.Sprintf("%s/api/v1/sessions/%s/messages", srv.URL, sessionID)

	// Select a topic
	resp, envelope = doJSON(t, http.MethodPost, messagesURL, map[string]any{
		"type":    "topic_selection",
		"message": "work_life_balance",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	data = envelope["data"].(map[string]any)
	if data["stage"] != "exploration" {
		t.Errorf("expected exploration stage, got %v", data["stage"])
	}

	// Send a free-text message
	resp, envelope = doJSON(t, http.MethodPost, messagesURL, map[string]any{
		"type":    "text",
		"message": "I feel like I can't keep up with everything",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	data = envelope["data"].(map[string]any)
	emotion, _ := data["emotional_analysis"].(map[string]any)
	if emotion["sentiment"] != "negative" {
		t.Errorf("expected negative sentiment, got %v", emotion["sentiment"])
	}

	// Fetch the session; history carries the exchange
	resp, envelope = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/sessions/%s", srv.URL, sessionID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	data = envelope["data"].(map[string]any)
	history, _ := data["history"].([]any)
	if len(history) < 4 {
		t.Errorf("expected at least 4 turns of history, got %d", len(history))
	}
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unknown session is 404", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/v1/sessions/%s/messages", srv.URL, uuid.New())
		resp, _ := doJSON(t, http.MethodPost, url, map[string]any{"type": "text", "message": "hi"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
		}
	})

	t.Run("unknown topic is 400", func(t *testing.T) {
		resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
		}
		sessionID := envelope["data"].(map[string]any)["session_id"].(string)

		url := fmt.Sprintf("%s/api/v1/sessions/%s/messages", srv.URL, sessionID)
		resp, _ = doJSON(t, http.MethodPost, url, map[string]any{"type": "topic_selection", "message": "alchemy"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
		}
	})

	t.Run("commitment outside action planning is 409", func(t *testing.T) {
		resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
		}
		sessionID := envelope["data"].(map[string]any)["session_id"].(string)

		url := fmt.Sprintf("%s/api/v1/sessions/%s/messages", srv.URL, sessionID)
		resp, _ = doJSON(t, http.MethodPost, url, map[string]any{
			"type": "action_commitment",
			"commitment": map[string]string{
				"action":              "Say no more often",
				"by_when":             "Friday",
				"success_criteria":    "Fewer late nights",
				"potential_obstacles": "Escalations",
				"support_needed":      "Manager support",
			},
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
		}
	})

	t.Run("invalid message type is 400", func(t *testing.T) {
		resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
		}
		sessionID := envelope["data"].(map[string]any)["session_id"].(string)

		url := fmt.Sprintf("%s/api/v1/sessions/%s/messages", srv.URL, sessionID)
		resp, _ = doJSON(t, http.MethodPost, url, map[string]any{"type": "interpretive_dance"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
		}
	})
}

func TestListTopics(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/topics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	data := envelope["data"].(map[string]any)
	topics, _ := data["topics"].([]any)
	if len(topics) != 4 {
		t.Errorf("expected 4 topics, got %d", len(topics))
	}
}

func TestListLLMProviders_NoneConfigured(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/llm-providers", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	data := envelope["data"].(map[string]any)
	providers, _ := data["providers"].([]any)
	if len(providers) != 0 {
		t.Errorf("expected no providers, got %d", len(providers))
	}
}
