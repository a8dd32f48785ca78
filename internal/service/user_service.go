package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/hash"
	"github.com/d60-Lab/chirp/pkg/logger"
)

// UpdateUserInput holds the patchable profile fields; nil means unchanged.
type UpdateUserInput struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
	Password     *string `json:"password" validate:"omitempty,min=6,maxbytes=72"`
	Bio          *string `json:"bio" validate:"omitempty,max=160"`
	Website      *string `json:"website" validate:"omitempty,url,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=100"`
	AvatarExists *bool   `json:"avatarExists"`
}

// UpdatableUserFields lists the keys a profile patch may carry.
var UpdatableUserFields = []string{"name", "email", "password", "bio", "website", "location", "avatarExists"}

// UserService 用户资料、头像与注销
type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	// Update 只能修改自己；并发修改返回 ErrConflict
	Update(ctx context.Context, actor *model.User, id string, in UpdateUserInput) (*model.User, error)
	// Delete 在一个事务里删除用户及其关系、点赞与推文，通知保留
	Delete(ctx context.Context, actor *model.User, id string) (*model.User, error)
	UploadAvatar(ctx context.Context, actor *model.User, id string, raw []byte) error
	Avatar(ctx context.Context, id string) ([]byte, error)
}

type userService struct {
	tx          repository.Transactor
	users       repository.UserRepository
	follows     repository.FollowRepository
	fans        repository.FanRepository
	posts       repository.PostRepository
	likes       repository.LikeRepository
	cache       *cache.UserCache
	invalidator *CacheInvalidator
	media       media.Store
	hasher      *hash.HashService
}

type UserServiceDeps struct {
	Tx          repository.Transactor
	Users       repository.UserRepository
	Follows     repository.FollowRepository
	Fans        repository.FanRepository
	Posts       repository.PostRepository
	Likes       repository.LikeRepository
	Cache       *cache.UserCache
	Invalidator *CacheInvalidator
	Media       media.Store
	Hasher      *hash.HashService
}

func NewUserService(d UserServiceDeps) UserService {
	return &userService{
		tx:          d.Tx,
		users:       d.Users,
		follows:     d.Follows,
		fans:        d.Fans,
		posts:       d.Posts,
		likes:       d.Likes,
		cache:       d.Cache,
		invalidator: d.Invalidator,
		media:       d.Media,
		hasher:      d.Hasher,
	}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hydrateRelations(ctx, s.cache, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.FindMany(ctx, nil, "created_at, id")
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := hydrateRelations(ctx, s.cache, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, actor *model.User, id string, in UpdateUserInput) (*model.User, error) {
	if actor.ID != id {
		return nil, errorf(ErrForbidden, "You can only update your own profile")
	}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, newValidationError(map[string]string{"name": "is required"}, nil)
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != u.ID:
				return nil, newValidationError(map[string]string{"email": "is already taken"}, ErrConflict)
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}
		}
		u.Email = email
	}
	if in.Password != nil {
		pw, err := s.hasher.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = pw
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Website != nil {
		u.Website = strings.TrimSpace(*in.Website)
	}
	if in.Location != nil {
		u.Location = strings.TrimSpace(*in.Location)
	}
	if in.AvatarExists != nil {
		u.AvatarExists = *in.AvatarExists
	}

	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	if err := hydrateRelations(ctx, s.cache, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if actor.ID != id {
		return nil, errorf(ErrForbidden, "You can only delete your own account")
	}

	var (
		deleted   *model.User
		imageKeys []string
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		u, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if u.Followers, err = s.fans.FanIDs(ctx, id); err != nil {
			return err
		}
		if u.Following, err = s.follows.FolloweeIDs(ctx, id); err != nil {
			return err
		}

		posts, err := s.posts.ListByUser(ctx, id)
		if err != nil {
			return err
		}
		postIDs := make([]string, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
			if p.ImageKey != "" {
				imageKeys = append(imageKeys, p.ImageKey)
			}
		}
		if u.AvatarKey != "" {
			imageKeys = append(imageKeys, u.AvatarKey)
		}

		steps := []func() error{
			func() error { return s.likes.DeleteByPosts(ctx, postIDs) },
			func() error { return s.likes.DeleteByUser(ctx, id) },
			func() error { return s.follows.DeleteAllFor(ctx, id) },
			func() error { return s.fans.DeleteAllFor(ctx, id) },
			func() error { return s.posts.DeleteByUser(ctx, id) },
			func() error { return s.users.DeleteByID(ctx, id) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		deleted = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := []string{cache.UserKey(id), cache.FollowersKey(id), cache.FollowingKey(id)}
	for _, f := range deleted.Followers {
		keys = append(keys, cache.FollowingKey(f))
	}
	for _, f := range deleted.Following {
		keys = append(keys, cache.FollowersKey(f))
	}
	s.invalidate(ctx, keys...)

	for _, key := range imageKeys {
		if err := s.media.Delete(ctx, key); err != nil {
			logger.Warn("delete media failed", zap.String("key", key), zap.String("user", id), zap.Error(err))
		}
	}
	return deleted, nil
}

func (s *userService) UploadAvatar(ctx context.Context, actor *model.User, id string, raw []byte) error {
	if actor.ID != id {
		return errorf(ErrForbidden, "You can only change your own avatar")
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	png, err := media.ResizeAvatar(bytes.NewReader(raw))
	if err != nil {
		return newValidationError(map[string]string{"avatar": "must be a jpg, jpeg or png image"}, err)
	}

	key := media.AvatarKey(u.ID)
	if err := s.media.Put(ctx, key, png, media.ContentTypePNG); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	u.AvatarKey = key
	u.AvatarExists = true
	return s.save(ctx, u)
}

func (s *userService) Avatar(ctx context.Context, id string) ([]byte, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.AvatarExists || u.AvatarKey == "" {
		return nil, errorf(ErrNotFound, "Avatar not found")
	}
	data, err := s.media.Get(ctx, u.AvatarKey)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return nil, errorf(ErrNotFound, "Avatar not found")
		}
		return nil, err
	}
	return data, nil
}

func (s *userService) find(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorf(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

// save writes u guarded by its version and drops the cached snapshot.
func (s *userService) save(ctx context.Context, u *model.User) error {
	err := s.users.Update(ctx, u)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStaleVersion):
		return errorf(ErrConflict, "User was modified concurrently, retry the update")
	case errors.Is(err, repository.ErrNotFound):
		return errorf(ErrNotFound, "User not found")
	case errors.Is(err, repository.ErrDuplicate):
		return newValidationError(map[string]string{"email": "is already taken"}, ErrConflict)
	default:
		return fmt.Errorf("update user: %w", err)
	}
	s.invalidate(ctx, cache.UserKey(u.ID))
	return nil
}

func (s *userService) invalidate(ctx context.Context, keys ...string) {
	invalidateKeys(ctx, s.cache, s.invalidator, keys...)
}
