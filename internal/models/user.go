package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
}

// Subscription is a directed edge: UserID follows AuthorID.
type Subscription struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_author"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_author;index"`
	Author    User `gorm:"foreignKey:AuthorID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
