package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// ErrDuplicateReply is returned when a reply is already stored for the same
// session and key.
var ErrDuplicateReply = errors.New("reply already stored")

// FindReply returns the live reply stored for (sessionID, key), or ErrNotFound.
func FindReply(ctx context.Context, db *gorm.DB, sessionID, key string, now time.Time) (*domain.StoredReply, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var r domain.StoredReply
	err := db.WithContext(ctx).Where("session_id = ? AND key = ?", sessionID, key).Take(&r).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	case r.Expired(now):
		return nil, ErrNotFound
	}
	return &r, nil
}

// SaveReply stores payload under (sessionID, key) until now+ttl. An expired
// reply still holding the key is replaced.
func SaveReply(ctx context.Context, db *gorm.DB, sessionID, key string, status int, payload []byte, now time.Time, ttl time.Duration) (*domain.StoredReply, error) {
	r := &domain.StoredReply{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Key:       key,
		Status:    status,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).Create(r).Error
	if err != nil && isUniqueViolation(err) {
		// the key may be held by an expired reply awaiting purge
		res := db.WithContext(ctx).
			Where("session_id = ? AND key = ? AND expires_at <= ?", sessionID, key, now).
			Delete(&domain.StoredReply{})
		if res.Error == nil && res.RowsAffected > 0 {
			err = db.WithContext(ctx).Create(r).Error
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReply
		}
		return nil, err
	}
	return r, nil
}

// isUniqueViolation also matches the plain-text errors of the pure-Go driver,
// which does not translate them to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "constraint failed: unique")
}

// PurgeReplies deletes replies expired at now and returns how many went.
func PurgeReplies(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.StoredReply{})
	return res.RowsAffected, res.Error
}

// DeleteSessionReplies deletes every reply of a session.
func DeleteSessionReplies(ctx context.Context, db *gorm.DB, sessionID string) error {
	return db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&domain.StoredReply{}).Error
}
