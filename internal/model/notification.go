package model

import "time"

// Notification 社交事件通知，只追加不修改
type Notification struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"type:varchar(50);not null" json:"username"`
	SenderID   string    `gorm:"type:varchar(36);not null;index" json:"notSenderId"`
	ReceiverID string    `gorm:"type:varchar(36);not null;index:idx_notification_receiver" json:"notReceiverId"`
	Type       string    `gorm:"type:varchar(50);not null" json:"notificationType"`
	PostText   string    `gorm:"type:text" json:"postText,omitempty"`
	CreatedAt  time.Time `gorm:"index:idx_notification_receiver" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }
