package domain

import "time"

// User is the credential record behind both authentication surfaces. The
// refresh token columns hold the single active refresh token for the account;
// every login or refresh overwrites them.
type User struct {
	ID                    uint       `gorm:"column:user_id;primaryKey" json:"userId"`
	Username              string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash          string     `gorm:"not null" json:"-"`
	RefreshToken          *string    `gorm:"size:64" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
