package domain

import "time"

// StoredReply is the response body of a scout submission saved under the
// client's Idempotency-Key. A retry with the same key in the same session is
// answered from Payload without another provider call.
type StoredReply struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	SessionID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_reply_session_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_reply_session_key,priority:2"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	Payload   []byte    `gorm:"type:BLOB NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

func (StoredReply) TableName() string { return "scout_replies" }

// Expired reports whether the reply may no longer be replayed at now.
func (r StoredReply) Expired(now time.Time) bool { return !now.Before(r.ExpiresAt) }
