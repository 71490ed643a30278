package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/config"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS coaching_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	topic TEXT NOT NULL DEFAULT '',
	history TEXT NOT NULL DEFAULT '[]',
	emotional_profile TEXT NOT NULL DEFAULT '{}',
	action_commitment TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_coaching_sessions_user ON coaching_sessions(user_id, updated_at DESC);
`

// SessionRepository implements domain.SessionRepository on a local SQLite
// file. Conversation state is serialized to JSON text columns, mirroring the
// Postgres layout so the backends stay interchangeable.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository opens the database file and ensures the schema exists.
func NewSessionRepository(ctx context.Context, cfg config.SQLiteConfig) (*SessionRepository, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SessionRepository{db: db}, nil
}

// Close closes the underlying database handle.
func (r *SessionRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database file is reachable.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	history, profile, commitment, err := marshalState(session)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO coaching_sessions (id, user_id, stage, topic, history, emotional_profile, action_commitment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		session.ID.String(),
		session.UserID.String(),
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
		WHERE id = ?
	`
	var (
		s          domain.Session
		rawID      string
		rawUserID  string
		stage      string
		history    string
		profile    string
		commitment sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID,
		&rawUserID,
		&stage,
		&s.TopicKey,
		&history,
		&profile,
		&commitment,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if s.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("failed to parse session id: %w", err)
	}
	if s.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	s.Stage = domain.Stage(stage)

	if err := unmarshalState(&s, history, profile, commitment.String); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.SessionSummary, error) {
	query := `
		SELECT id, user_id, stage, topic, json_array_length(history), action_commitment IS NOT NULL, created_at, updated_at
		FROM coaching_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []domain.SessionSummary
	for rows.Next() {
		var (
			sum       domain.SessionSummary
			rawID     string
			rawUserID string
			stage     string
		)
		if err := rows.Scan(
			&rawID,
			&rawUserID,
			&stage,
			&sum.TopicKey,
			&sum.Turns,
			&sum.Committed,
			&sum.CreatedAt,
			&sum.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		if sum.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("failed to parse session id: %w", err)
		}
		if sum.UserID, err = uuid.Parse(rawUserID); err != nil {
			return nil, fmt.Errorf("failed to parse user id: %w", err)
		}
		sum.Stage = domain.Stage(stage)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session summaries: %w", err)
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
		SET stage = ?, topic = ?, history = ?, emotional_profile = ?, action_commitment = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		string(session.Stage),
		session.TopicKey,
		history,
		profile,
		commitment,
		session.UpdatedAt,
		session.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func marshalState(s *domain.Session) (history, profile string, commitment any, err error) {
	h, err := json.Marshal(s.History)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	p, err := json.Marshal(s.Profile)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if s.Commitment == nil {
		return string(h), string(p), nil, nil
	}
	c, err := json.Marshal(s.Commitment)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to marshal commitment: %w", err)
	}
	return string(h), string(p), string(c), nil
}

func unmarshalState(s *domain.Session, history, profile, commitment string) error {
	if history != "" {
		if err := json.Unmarshal([]byte(history), &s.History); err != nil {
			return fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	if profile != "" {
		if err := json.Unmarshal([]byte(profile), &s.Profile); err != nil {
			return fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if commitment != "" {
		if err := json.Unmarshal([]byte(commitment), &s.Commitment); err != nil {
			return fmt.Errorf("failed to unmarshal commitment: %w", err)
		}
	}
	return nil
}
