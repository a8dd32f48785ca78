package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

type CreateNotificationInput struct {
	ReceiverID string `json:"notReceiverId" validate:"required"`
	// Type is a free-form tag such as "like" or "follow".
	Type     string `json:"notificationType" validate:"required,max=50"`
	PostText string `json:"postText"`
}

// UserRef is a notification participant resolved for display.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NotificationView is a notification with sender and receiver resolved to usernames.
type NotificationView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Sender    UserRef   `json:"notSenderId"`
	Receiver  UserRef   `json:"notReceiverId"`
	Type      string    `json:"notificationType"`
	PostText  string    `json:"postText,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationService 通知只追加，由调用方显式创建
type NotificationService interface {
	Create(ctx context.Context, sender *model.User, in CreateNotificationInput) (*model.Notification, error)
	// ListForReceiver 按时间倒序；没有通知时返回空切片
	ListForReceiver(ctx context.Context, receiverID string) ([]*NotificationView, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	cache         *cache.UserCache
}

func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, c *cache.UserCache) NotificationService {
	return &notificationService{notifications: notifications, users: users, cache: c}
}

func (s *notificationService) Create(ctx context.Context, sender *model.User, in CreateNotificationInput) (*model.Notification, error) {
	in.ReceiverID = strings.TrimSpace(in.ReceiverID)
	in.Type = strings.TrimSpace(in.Type)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.ReceiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorf(ErrNotFound, "Receiver not found")
		}
		return nil, err
	}

	n := &model.Notification{
		ID:         uuid.New().String(),
		Username:   sender.Username,
		SenderID:   sender.ID,
		ReceiverID: in.ReceiverID,
		Type:       in.Type,
		PostText:   strings.TrimSpace(in.PostText),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	metrics.NotificationsCreated.Inc()
	return n, nil
}

func (s *notificationService) ListForReceiver(ctx context.Context, receiverID string) ([]*NotificationView, error) {
	list, err := s.notifications.ListByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	out := make([]*NotificationView, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(list)+1)
	ids = append(ids, receiverID)
	for _, n := range list {
		ids = append(ids, n.SenderID)
	}
	snaps, err := s.cache.Snapshots(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	for _, n := range list {
		sender := UserRef{ID: n.SenderID, Username: n.Username}
		if snap, ok := snaps[n.SenderID]; ok {
			sender.Username = snap.Username
		}
		receiver := UserRef{ID: n.ReceiverID}
		if snap, ok := snaps[n.ReceiverID]; ok {
			receiver.Username = snap.Username
		}
		out = append(out, &NotificationView{
			ID:        n.ID,
			Username:  n.Username,
			Sender:    sender,
			Receiver:  receiver,
			Type:      n.Type,
			PostText:  n.PostText,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}
