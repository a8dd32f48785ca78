package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

type FanRepository interface {
	Create(ctx context.Context, userID, fanID string) (bool, error)
	Delete(ctx context.Context, userID, fanID string) (bool, error)
	ListFans(ctx context.Context, userID string, offset, limit int) ([]*model.Fan, error)
	FanIDs(ctx context.Context, userID string) ([]string, error)
	DeleteAllFor(ctx context.Context, userID string) error
}

type fanRepository struct{ db *gorm.DB }

func NewFanRepository(db *gorm.DB) FanRepository { return &fanRepository{db: db} }

func (r *fanRepository) Create(ctx context.Context, userID, fanID string) (bool, error) {
	f := &model.Fan{ID: uuid.New().String(), UserID: userID, FanID: fanID}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *fanRepository) Delete(ctx context.Context, userID, fanID string) (bool, error) {
	res := conn(ctx, r.db).Where("user_id = ? AND fan_id = ?", userID, fanID).Delete(&model.Fan{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *fanRepository) ListFans(ctx context.Context, userID string, offset, limit int) ([]*model.Fan, error) {
	var res []*model.Fan
	q := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC, id")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&res).Error
	return res, translate(err)
}

func (r *fanRepository) FanIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&model.Fan{}).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Pluck("fan_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, translate(err)
}

func (r *fanRepository) DeleteAllFor(ctx context.Context, userID string) error {
	return translate(conn(ctx, r.db).
		Where("user_id = ? OR fan_id = ?", userID, userID).
		Delete(&model.Fan{}).Error)
}
