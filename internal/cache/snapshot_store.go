package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockmate/interview-service/internal/session"
	"github.com/redis/go-redis/v9"
)

// SnapshotSchemaVersion tags every stored snapshot. Snapshots written by an
// incompatible build are discarded on read rather than interpreted.
const SnapshotSchemaVersion = 1

// ErrSnapshotInvalid is returned when a stored snapshot is corrupt or carries
// an unknown schema version. The entry has already been cleared; callers
// should send the user back to the start of the flow.
var ErrSnapshotInvalid = errors.New("cache: stored session snapshot is invalid")

// ErrSnapshotNotFound is returned when no snapshot exists for the session.
var ErrSnapshotNotFound = errors.New("cache: session snapshot not found")

const (
	snapshotKeyPrefix   = "interview:snapshot:"
	saveStatusKeyPrefix = "interview:save-status:"

	snapshotTTL = 2 * time.Hour

	// saveStatusTTL makes the "save failed" indicator self-clearing.
	saveStatusTTL = 5 * time.Second
)

// snapshotEnvelope is the stored shape: a schema version wrapping the
// controller snapshot.
type snapshotEnvelope struct {
	SchemaVersion int              `json:"schema_version"`
	SessionID     string           `json:"session_id"`
	SavedAt       time.Time        `json:"saved_at"`
	Snapshot      session.Snapshot `json:"snapshot"`
}

// SnapshotStore parks live controller state between requests. It replaces the
// browser-storage blobs of the original flow with an explicit, versioned
// schema and a discard-on-unknown policy.
type SnapshotStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewSnapshotStore(client *redis.Client, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		logger: logger,
	}
}

// Save stores the controller snapshot for a session.
func (s *SnapshotStore) Save(ctx context.Context, sessionID string, snap session.Snapshot) error {
	envelope := snapshotEnvelope{
		SchemaVersion: SnapshotSchemaVersion,
		SessionID:     sessionID,
		SavedAt:       time.Now(),
		Snapshot:      snap,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKeyPrefix+sessionID, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for a session. A corrupt or
// unknown-version entry is deleted and reported as ErrSnapshotInvalid.
func (s *SnapshotStore) Load(ctx context.Context, sessionID string) (session.Snapshot, error) {
	key := snapshotKeyPrefix + sessionID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Snapshot{}, ErrSnapshotNotFound
		}
		return session.Snapshot{}, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var envelope snapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn("Discarding corrupt session snapshot", "session_id", sessionID, "error", err)
		s.client.Del(ctx, key)
		return session.Snapshot{}, ErrSnapshotInvalid
	}
	if envelope.SchemaVersion != SnapshotSchemaVersion {
		s.logger.Warn("Discarding session snapshot with unknown schema version",
			"session_id", sessionID,
			"schema_version", envelope.SchemaVersion)
		s.client.Del(ctx, key)
		return session.Snapshot{}, ErrSnapshotInvalid
	}
	return envelope.Snapshot, nil
}

// Delete removes the snapshot for a session.
func (s *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, snapshotKeyPrefix+sessionID).Err()
}

// SaveStatus is the transient per-session answer-persistence indicator.
type SaveStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// SetSaveStatus records the outcome of the latest best-effort answer save.
// Error states expire on their own so they never block progression.
func (s *SnapshotStore) SetSaveStatus(ctx context.Context, sessionID string, status SaveStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal save status: %w", err)
	}
	ttl := saveStatusTTL
	if status.OK {
		ttl = snapshotTTL
	}
	return s.client.Set(ctx, saveStatusKeyPrefix+sessionID, data, ttl).Err()
}

// GetSaveStatus returns the current indicator. A missing key reads as OK
// since an expired error state has auto-cleared.
func (s *SnapshotStore) GetSaveStatus(ctx context.Context, sessionID string) (SaveStatus, error) {
	data, err := s.client.Get(ctx, saveStatusKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SaveStatus{OK: true}, nil
		}
		return SaveStatus{}, fmt.Errorf("failed to load save status: %w", err)
	}
	var status SaveStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return SaveStatus{OK: true}, nil
	}
	return status, nil
}
