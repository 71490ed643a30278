package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/config"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollection = "coaching_sessions"

// sessionDoc is the persisted shape of a session. IDs are stored as their
// string form so documents stay readable in the shell.
type sessionDoc struct {
	ID         string                   `bson:"_id"`
	UserID     string                   `bson:"user_id"`
	Stage      string                   `bson:"stage"`
	Topic      string                   `bson:"topic"`
	History    []domain.Turn            `bson:"history"`
	Profile    domain.EmotionalProfile  `bson:"emotional_profile"`
	Commitment *domain.ActionCommitment `bson:"action_commitment,omitempty"`
	CreatedAt  time.Time                `bson:"created_at"`
	UpdatedAt  time.Time                `bson:"updated_at"`
}

// SessionRepository implements domain.SessionRepository on MongoDB, storing
// each session as a single document.
type SessionRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewSessionRepository connects to MongoDB and prepares the sessions collection.
func NewSessionRepository(ctx context.Context, cfg config.MongoConfig) (*SessionRepository, error) {
	uri := fmt.Sprintf("mongodb://%s:%d", cfg.Host, cfg.Port)
	if cfg.User != "" && cfg.Password != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	}

	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(sessionsCollection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
	}
	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SessionRepository{client: client, coll: coll}, nil
}

// Close disconnects the client.
func (r *SessionRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Ping verifies connectivity.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(session)); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var doc sessionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return fromDoc(&doc)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.SessionSummary, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID.String()}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []domain.SessionSummary
	for cursor.Next(ctx) {
		var doc sessionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		s, err := fromDoc(&doc)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s.Summary())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return summaries, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	doc := toDoc(session)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func toDoc(s *domain.Session) *sessionDoc {
	return &sessionDoc{
		ID:         s.ID.String(),
		UserID:     s.UserID.String(),
		Stage:      string(s.Stage),
		Topic:      s.TopicKey,
		History:    s.History,
		Profile:    s.Profile,
		Commitment: s.Commitment,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func fromDoc(doc *sessionDoc) (*domain.Session, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session id: %w", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	return &domain.Session{
		ID:         id,
		UserID:     userID,
		Stage:      domain.Stage(doc.Stage),
		TopicKey:   doc.Topic,
		History:    doc.History,
		Profile:    doc.Profile,
		Commitment: doc.Commitment,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}
