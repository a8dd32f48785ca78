package model

import "time"

// Post 推文。User/Username 是创建时从作者冗余过来的。
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	User      string    `gorm:"type:varchar(100);not null" json:"user"`
	Username  string    `gorm:"type:varchar(50);not null" json:"username"`
	UserID    string    `gorm:"type:varchar(36);index:idx_post_user;not null" json:"userId"`
	ImageKey  string    `gorm:"type:varchar(255)" json:"-"`
	HasImage  bool      `gorm:"-" json:"image,omitempty"`
	Likes     []string  `gorm:"-" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }
