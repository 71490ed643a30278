package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// SessionRepository implements domain.SessionRepository on Postgres. The
// conversation state (history, profile, commitment) is stored as JSONB
// blobs; scalar columns carry what listings and filters need.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{pool: db.Pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	history, profile, commitment, err := marshalState(session)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO coaching_sessions (id, user_id, stage, topic, history, emotional_profile, action_commitment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		string(session.Stage),
		session.TopicKey,
		history,
		profile,
		commitment,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT id, user_id, stage, topic, history, emotional_profile, action_commitment, created_at, updated_at
		FROM coaching_sessions
		WHERE id = $1
	`
	var (
		s          domain.Session
		stage      string
		history    []byte
		profile    []byte
		commitment []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&stage,
		&s.TopicKey,
		&history,
		&profile,
		&commitment,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.Stage = domain.Stage(stage)
	if err := unmarshalState(&s, history, profile, commitment); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.SessionSummary, error) {
	query := `
		SELECT id, user_id, stage, topic, jsonb_array_length(history), action_commitment IS NOT NULL, created_at, updated_at
		FROM coaching_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []domain.SessionSummary
	for rows.Next() {
		var (
			sum   domain.SessionSummary
			stage string
		)
		if err := rows.Scan(
			&sum.ID,
			&sum.UserID,
			&stage,
			&sum.TopicKey,
			&sum.Turns,
			&sum.Committed,
			&sum.CreatedAt,
			&sum.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		sum.Stage = domain.Stage(stage)
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	history, profile, commitment, err := marshalState(session)
	if err != nil {
		return err
	}

	query := `
		UPDATE coaching_sessions
		SET stage = $1, topic = $2, history = $3, emotional_profile = $4, action_commitment = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.pool.Exec(ctx, query,
		string(session.Stage),
		session.TopicKey,
		history,
		profile,
		commitment,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func marshalState(s *domain.Session) (history, profile, commitment []byte, err error) {
	history, err = json.Marshal(s.History)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	profile, err = json.Marshal(s.Profile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if s.Commitment != nil {
		commitment, err = json.Marshal(s.Commitment)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal commitment: %w", err)
		}
	}
	return history, profile, commitment, nil
}

func unmarshalState(s *domain.Session, history, profile, commitment []byte) error {
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.History); err != nil {
			return fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &s.Profile); err != nil {
			return fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if len(commitment) > 0 {
		if err := json.Unmarshal(commitment, &s.Commitment); err != nil {
			return fmt.Errorf("failed to unmarshal commitment: %w", err)
		}
	}
	return nil
}
