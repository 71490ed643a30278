package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage is one phase of the fixed coaching conversation progression.
type Stage string

const (
	StageIntake         Stage = "intake"
	StageExploration    Stage = "exploration"
	StageReflection     Stage = "reflection"
	StageActionPlanning Stage = "action_planning"
	StageFollowUp       Stage = "follow_up"
)

// stageOrder fixes the forward progression. Transitions never move backward.
var stageOrder = []Stage{
	StageIntake,
	StageExploration,
	StageReflection,
	StageActionPlanning,
	StageFollowUp,
}

// Index returns the position of the stage in the fixed order, or -1 for an
// unknown stage.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the following stage. The last stage returns itself.
func (s Stage) Next() Stage {
	i := s.Index()
	if i < 0 || i == len(stageOrder)-1 {
		return s
	}
	return stageOrder[i+1]
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Stages returns the full stage order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	RoleUser  TurnRole = "user"
	RoleCoach TurnRole = "coach"
)

// Turn is one exchange unit in a session. Immutable once appended.
type Turn struct {
	Role      TurnRole        `json:"role"`
	Content   string          `json:"content"`
	Stage     Stage           `json:"stage"`
	Emotion   *EmotionReading `json:"emotion,omitempty"` // user turns only
	CreatedAt time.Time       `json:"created_at"`
}

// Session is the unit of a coaching engagement.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Stage      Stage             `json:"stage"`
	TopicKey   string            `json:"topic,omitempty"`
	History    []Turn            `json:"history"`
	Profile    EmotionalProfile  `json:"emotional_profile"`
	Commitment *ActionCommitment `json:"action_commitment,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewSession creates a fresh session in the Intake stage. A zero userID gets
// a generated one.
func NewSession(userID uuid.UUID) *Session {
	if userID == uuid.Nil {
		userID = uuid.New()
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Stage:     StageIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendTurn adds a turn to the history and bumps UpdatedAt.
func (s *Session) AppendTurn(t Turn) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.History = append(s.History, t)
	s.UpdatedAt = t.CreatedAt
}

// UserTurns returns all user-authored turns in order.
func (s *Session) UserTurns() []Turn {
	var turns []Turn
	for _, t := range s.History {
		if t.Role == RoleUser {
			turns = append(turns, t)
		}
	}
	return turns
}

// StageUserTurns counts user turns recorded while the session was in the
// given stage. Drives the advancement eligibility heuristic.
func (s *Session) StageUserTurns(stage Stage) int {
	n := 0
	for _, t := range s.History {
		if t.Role == RoleUser && t.Stage == stage {
			n++
		}
	}
	return n
}

// RecentUserTexts returns the raw text of up to limit most recent user
// turns, oldest first.
func (s *Session) RecentUserTexts(limit int) []string {
	turns := s.UserTurns()
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	texts := make([]string, 0, len(turns))
	for _, t := range turns {
		texts = append(texts, t.Content)
	}
	return texts
}

// SessionSummary is the listing projection of a session.
type SessionSummary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Stage     Stage     `json:"stage"`
	TopicKey  string    `json:"topic,omitempty"`
	Turns     int       `json:"turns"`
	Committed bool      `json:"committed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary projects the session into its listing form.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		UserID:    s.UserID,
		Stage:     s.Stage,
		TopicKey:  s.TopicKey,
		Turns:     len(s.History),
		Committed: s.Commitment != nil,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionRepository defines the interface for durable session storage.
// Update is a full replace of the stored session, atomic per session id.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]SessionSummary, error)
	Update(ctx context.Context, session *Session) error
}
