package model

import "time"

// Follow 关注关系（A 关注 B），即 A.following 中的一条
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null"`
	FolloweeID string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_followee"`
	// idx_follow_pair = (follower_id, followee_id)，避免重复关注
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
