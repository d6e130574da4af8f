package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

// SessionRepository implements repositories.SessionRepository using MongoDB
type SessionRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewSessionRepository creates a new MongoDB session repository
func NewSessionRepository(db *mongo.Database, logger *zap.Logger) repositories.SessionRepository {
	collection := db.Collection("sessions")

	// Create indexes in the background; failures are logged, not fatal
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		indexes := []mongo.IndexModel{
			{
				// Faster lookups of a device's sessions
				Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "last_active_at", Value: -1}},
			},
			{
				// Automatic cleanup of expired sessions
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		}

		if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
			logger.Warn("Failed to create session indexes", zap.Error(err))
		}
	}()

	return &SessionRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create implements repositories.SessionRepository
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastActiveAt.IsZero() {
		session.LastActiveAt = now
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID implements repositories.SessionRepository
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entities.Session, error) {
	if id == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	var session entities.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No session found, return nil without error
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	return &session, nil
}

// GetLastByDeviceID implements repositories.SessionRepository
func (r *SessionRepository) GetLastByDeviceID(ctx context.Context, deviceID string) (*entities.Session, error) {
	if deviceID == "" {
		return nil, errors.New("device ID cannot be empty")
	}

	filter := bson.M{"device_id": deviceID}
	opts := options.FindOne().SetSort(bson.M{"last_active_at": -1})

	var session entities.Session
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last session for device %s: %w", deviceID, err)
	}

	return &session, nil
}

// Update implements repositories.SessionRepository
func (r *SessionRepository) Update(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"device_id":       session.DeviceID,
			"last_active_at":  session.LastActiveAt,
			"last_segment_at": session.LastSegmentAt,
			"expires_at":      session.ExpiresAt,
			"status":          session.Status,
			"settings":        session.Settings,
			"segments":        session.Segments,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("session with ID %s not found", session.ID)
	}

	return nil
}

// AppendSegment implements repositories.SessionRepository
func (r *SessionRepository) AppendSegment(ctx context.Context, sessionID string, segment entities.Segment) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if err := segment.Validate(); err != nil {
		return fmt.Errorf("invalid segment: %w", err)
	}

	now := time.Now()
	update := bson.M{
		"$push": bson.M{"segments": segment},
		"$set": bson.M{
			"last_active_at":  now,
			"last_segment_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to append segment: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("session with ID %s not found", sessionID)
	}

	return nil
}

// ExpireSessions implements repositories.SessionRepository. The TTL
// index eventually removes expired documents; this keeps the status
// field accurate for sessions still in the window.
func (r *SessionRepository) ExpireSessions(ctx context.Context) error {
	filter := bson.M{
		"status":     entities.SessionStatusActive,
		"expires_at": bson.M{"$lt": time.Now()},
	}
	update := bson.M{
		"$set": bson.M{"status": entities.SessionStatusExpired},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to expire sessions: %w", err)
	}

	if result.ModifiedCount > 0 {
		r.logger.Info("Expired stale sessions", zap.Int64("count", result.ModifiedCount))
	}

	return nil
}
