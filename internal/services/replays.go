package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/repo"
)

// ReplayStore keeps assistant replies keyed by (session id, Idempotency-Key)
// so a retried submission is answered without a second provider call.
type ReplayStore struct {
	DB  *gorm.DB
	TTL time.Duration
	now func() time.Time
}

// NewReplayStore creates a store whose records live for ttl.
func NewReplayStore(db *gorm.DB, ttl time.Duration) *ReplayStore {
	return &ReplayStore{DB: db, TTL: ttl, now: time.Now}
}

// Lookup returns the stored payload for (sessionID, key), if still valid.
func (s *ReplayStore) Lookup(ctx context.Context, sessionID, key string) ([]byte, bool) {
	rec, err := repo.FindReply(ctx, s.DB, sessionID, key, s.now().UTC())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Msg("stored reply lookup failed")
		}
		return nil, false
	}
	return rec.Payload, true
}

// Save records payload for (sessionID, key). A concurrent save of the same
// key keeps the first payload.
func (s *ReplayStore) Save(ctx context.Context, sessionID, key string, status int, payload []byte) {
	_, err := repo.SaveReply(ctx, s.DB, sessionID, key, status, payload, s.now().UTC(), s.TTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicateReply) {
		log.Warn().Err(err).Msg("stored reply save failed")
	}
}

// Forget drops the records of expired sessions. It matches
// SessionStore.OnExpire.
func (s *ReplayStore) Forget(ids []string) {
	ctx := context.Background()
	for _, id := range ids {
		if err := repo.DeleteSessionReplies(ctx, s.DB, id); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("stored reply cleanup failed")
		}
	}
}

// Purge removes expired records and returns how many were deleted.
func (s *ReplayStore) Purge(ctx context.Context) (int64, error) {
	return repo.PurgeReplies(ctx, s.DB, s.now().UTC())
}
