package domain

import "time"

// PasswordReset is a short-lived single-use token. Rows are deleted on
// successful use; expired rows are purged by the cleanup job.
type PasswordReset struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (p *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
