package domain

import "time"

// VerificationToken is the persisted half of an email-verification secret.
// Only the sha256 digest of the raw secret is stored; the raw value is
// delivered out-of-band exactly once and never written anywhere.
type VerificationToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index:idx_verification_user_used;not null" json:"user_id"`
	TokenHash string     `gorm:"size:128;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	UsedAt    *time.Time `gorm:"index:idx_verification_user_used" json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Active reports whether the token can still be consumed at the given
// instant: never used and not yet past its expiry.
func (t *VerificationToken) Active(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
