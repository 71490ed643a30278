package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/api/response"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/kumar241977/ai-coaching-assistant/internal/engine"
	"github.com/kumar241977/ai-coaching-assistant/internal/service"
)

var validate = validator.New()

// SessionHandler serves the session lifecycle endpoints
type SessionHandler struct {
	svc *service.CoachingService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc *service.CoachingService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionCreatedResponse struct {
	SessionID       uuid.UUID    `json:"session_id"`
	UserID          uuid.UUID    `json:"user_id"`
	Stage           domain.Stage `json:"stage"`
	Message         string       `json:"message"`
	Questions       []string     `json:"questions"`
	AvailableTopics []string     `json:"available_topics"`
}

// Create starts a new coaching session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Body is optional
	}

	userID := uuid.Nil
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			response.BadRequest(w, "invalid user_id")
			return
		}
		userID = parsed
	}

	session, greeting, err := h.svc.CreateSession(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to create session")
		return
	}

	response.Created(w, sessionCreatedResponse{
		SessionID:       session.ID,
		UserID:          session.UserID,
		Stage:           session.Stage,
		Message:         greeting.Message,
		Questions:       greeting.Questions,
		AvailableTopics: greeting.AvailableTopics,
	})
}

// Get returns a session with its full history
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response.OK(w, session)
}

// List returns session summaries for a user
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		response.BadRequest(w, "missing or invalid user_id")
		return
	}

	limit := 0
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	sessions, err := h.svc.ListSessions(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.SessionSummary{}
	}

	response.OK(w, sessions)
}

type messageRequest struct {
	Type       string                   `json:"type" validate:"required,oneof=text topic_selection action_commitment"`
	Message    string                   `json:"message"`
	Commitment *domain.ActionCommitment `json:"commitment"`
}

// Message applies one user message to a session
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "type must be one of: text, topic_selection, action_commitment")
		return
	}

	in := engine.Input{
		Kind:       engine.InputKind(req.Type),
		Text:       req.Message,
		Commitment: req.Commitment,
	}

	result, err := h.svc.Advance(r.Context(), sessionID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response.OK(w, result)
}

// writeDomainError maps domain errors onto HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		unknownTopic *domain.UnknownTopicError
		mismatch     *domain.StageMismatchError
		incomplete   *domain.IncompleteCommitmentError
	)

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		response.NotFound(w, "session not found")
	case errors.As(err, &unknownTopic):
		response.BadRequest(w, unknownTopic.Error())
	case errors.As(err, &mismatch):
		response.Conflict(w, mismatch.Error())
	case errors.As(err, &incomplete):
		response.UnprocessableEntity(w, map[string]any{
			"message": "incomplete action commitment",
			"missing": incomplete.Missing,
		})
	default:
		response.InternalError(w, "internal error")
	}
}
