package models

import "time"

type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	MustChangePassword  bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}
