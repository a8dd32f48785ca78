package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirp/internal/model"
)

type PostRepository interface {
	Store[model.Post]
	// ListByUser returns posts owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	// ListAll returns every post, newest first.
	ListAll(ctx context.Context) ([]*model.Post, error)
	IDsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type postRepository struct {
	*gormStore[model.Post]
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{gormStore: newGormStore[model.Post](db), db: db}
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.FindMany(ctx, Filter{"user_id": userID}, "created_at DESC, id")
}

func (r *postRepository) ListAll(ctx context.Context) ([]*model.Post, error) {
	return r.FindMany(ctx, nil, "created_at DESC, id")
}

func (r *postRepository) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&model.Post{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, translate(err)
}

func (r *postRepository) DeleteByUser(ctx context.Context, userID string) error {
	return translate(conn(ctx, r.db).Where("user_id = ?", userID).Delete(&model.Post{}).Error)
}
