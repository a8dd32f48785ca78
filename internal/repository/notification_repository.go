package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirp/internal/model"
)

type NotificationRepository interface {
	Store[model.Notification]
	// ListByReceiver returns notifications addressed to receiverID, newest first.
	ListByReceiver(ctx context.Context, receiverID string) ([]*model.Notification, error)
}

type notificationRepository struct {
	*gormStore[model.Notification]
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{gormStore: newGormStore[model.Notification](db)}
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*model.Notification, error) {
	return r.FindMany(ctx, Filter{"receiver_id": receiverID}, "created_at DESC, id")
}
