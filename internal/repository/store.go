package repository

import (
	"context"

	"gorm.io/gorm"
)

// Filter is an equality filter on column names, e.g. Filter{"user_id": id}.
type Filter map[string]any

// Store is the generic record contract shared by users, posts and notifications.
// Missing records yield ErrNotFound; empty result sets are not errors.
type Store[T any] interface {
	Create(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	FindMany(ctx context.Context, filter Filter, order string) ([]*T, error)
	// Save upserts by primary key.
	Save(ctx context.Context, rec *T) error
	DeleteByID(ctx context.Context, id string) error
}

type gormStore[T any] struct{ db *gorm.DB }

func newGormStore[T any](db *gorm.DB) *gormStore[T] { return &gormStore[T]{db: db} }

func (s *gormStore[T]) Create(ctx context.Context, rec *T) error {
	return translate(conn(ctx, s.db).Create(rec).Error)
}

func (s *gormStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := conn(ctx, s.db).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s *gormStore[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var rec T
	q := conn(ctx, s.db)
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	if err := q.Take(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s *gormStore[T]) FindMany(ctx context.Context, filter Filter, order string) ([]*T, error) {
	var res []*T
	q := conn(ctx, s.db)
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, translate(err)
	}
	return res, nil
}

func (s *gormStore[T]) Save(ctx context.Context, rec *T) error {
	return translate(conn(ctx, s.db).Save(rec).Error)
}

func (s *gormStore[T]) DeleteByID(ctx context.Context, id string) error {
	res := conn(ctx, s.db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
