package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirp/internal/model"
)

type UserRepository interface {
	Store[model.User]
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	// Update writes u only if its Version still matches the stored row, then bumps Version.
	Update(ctx context.Context, u *model.User) error
}

type userRepository struct {
	*gormStore[model.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{gormStore: newGormStore[model.User](db), db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOne(ctx, Filter{"email": email})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.FindOne(ctx, Filter{"username": username})
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	var res []*model.User
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&res).Error
	return res, translate(err)
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	now := time.Now()
	res := conn(ctx, r.db).Model(&model.User{}).
		Where("id = ? AND version = ?", u.ID, u.Version).
		Updates(map[string]any{
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"avatar_key":    u.AvatarKey,
			"avatar_exists": u.AvatarExists,
			"bio":           u.Bio,
			"website":       u.Website,
			"location":      u.Location,
			"version":       u.Version + 1,
			"updated_at":    now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var cnt int64
		if err := conn(ctx, r.db).Model(&model.User{}).Where("id = ?", u.ID).Count(&cnt).Error; err != nil {
			return translate(err)
		}
		if cnt == 0 {
			return ErrNotFound
		}
		return ErrStaleVersion
	}
	u.Version++
	u.UpdatedAt = now
	return nil
}
