package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

type LikeRepository interface {
	// Add reports false when userID already liked postID.
	Add(ctx context.Context, postID, userID string) (bool, error)
	// Remove reports false when there was nothing to remove.
	Remove(ctx context.Context, postID, userID string) (bool, error)
	Count(ctx context.Context, postID string) (int64, error)
	UserIDs(ctx context.Context, postID string) ([]string, error)
	UserIDsByPosts(ctx context.Context, postIDs []string) (map[string][]string, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByPosts(ctx context.Context, postIDs []string) error
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Add(ctx context.Context, postID, userID string) (bool, error) {
	l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, postID, userID string) (bool, error) {
	res := conn(ctx, r.db).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Like{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Count(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, translate(err)
}

func (r *likeRepository) UserIDs(ctx context.Context, postID string) ([]string, error) {
	ids := []string{}
	err := conn(ctx, r.db).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Order("created_at, id").
		Pluck("user_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, translate(err)
}

func (r *likeRepository) UserIDsByPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []model.Like
	if err := conn(ctx, r.db).
		Where("post_id IN ?", postIDs).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, l := range rows {
		out[l.PostID] = append(out[l.PostID], l.UserID)
	}
	return out, nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID string) error {
	return translate(conn(ctx, r.db).Where("user_id = ?", userID).Delete(&model.Like{}).Error)
}

func (r *likeRepository) DeleteByPosts(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	return translate(conn(ctx, r.db).Where("post_id IN ?", postIDs).Delete(&model.Like{}).Error)
}
