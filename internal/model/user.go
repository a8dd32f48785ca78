package model

import "time"

// User 账号。Followers/Following 由关系表装配，不落在 users 表上。
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	AvatarKey    string    `gorm:"type:varchar(255)" json:"-"`
	AvatarExists bool      `gorm:"not null;default:false" json:"avatarExists"`
	Bio          string    `gorm:"type:varchar(160)" json:"bio,omitempty"`
	Website      string    `gorm:"type:varchar(255)" json:"website,omitempty"`
	Location     string    `gorm:"type:varchar(100)" json:"location,omitempty"`
	Version      int64     `gorm:"not null;default:1" json:"-"`
	Followers    []string  `gorm:"-" json:"followers"`
	Following    []string  `gorm:"-" json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
