package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

const checkpointKeyPrefix = "quality:session:"

// ErrCheckpointNotFound is returned when no checkpoint exists for a session
var ErrCheckpointNotFound = errors.New("session checkpoint not found")

// CheckpointStore persists session checkpoints so a reloaded task page resumes
// with the active time already banked.
type CheckpointStore struct {
	cache CacheService
	ttl   time.Duration
}

func NewCheckpointStore(cache CacheService, ttl time.Duration) *CheckpointStore {
	return &CheckpointStore{cache: cache, ttl: ttl}
}

func checkpointKey(sessionID string) string {
	return checkpointKeyPrefix + sessionID
}

// Save writes the checkpoint and refreshes its TTL
func (s *CheckpointStore) Save(ctx context.Context, checkpoint *models.SessionCheckpoint) error {
	if checkpoint.SessionID == "" {
		return fmt.Errorf("checkpoint session id is required")
	}
	return s.cache.Set(ctx, checkpointKey(checkpoint.SessionID), checkpoint, s.ttl)
}

func (s *CheckpointStore) Load(ctx context.Context, sessionID string) (*models.SessionCheckpoint, error) {
	var checkpoint models.SessionCheckpoint
	err := s.cache.Get(ctx, checkpointKey(sessionID), &checkpoint)
	if errors.Is(err, ErrCacheMiss) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

func (s *CheckpointStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, checkpointKey(sessionID))
}
