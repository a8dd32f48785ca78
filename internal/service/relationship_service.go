package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// MaxPageSize caps relation list pages.
const MaxPageSize = 100

// RelationshipService 关系链服务。关注表与粉丝表在同一事务内双写。
type RelationshipService interface {
	// Follow 已关注时直接返回成功
	Follow(ctx context.Context, actor *model.User, targetID string) (*model.User, error)
	// Unfollow 未关注时同样返回成功
	Unfollow(ctx context.Context, actor *model.User, targetID string) (*model.User, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error)
}

type relationshipService struct {
	tx          repository.Transactor
	users       repository.UserRepository
	followRepo  repository.FollowRepository
	fanRepo     repository.FanRepository
	cache       *cache.UserCache
	invalidator *CacheInvalidator
}

// NewRelationshipService wires the service. Index keys are dropped right after commit;
// a non-nil invalidator adds a delayed second delete.
func NewRelationshipService(tx repository.Transactor, users repository.UserRepository, followRepo repository.FollowRepository, fanRepo repository.FanRepository, c *cache.UserCache, invalidator *CacheInvalidator) RelationshipService {
	return &relationshipService{
		tx:          tx,
		users:       users,
		followRepo:  followRepo,
		fanRepo:     fanRepo,
		cache:       c,
		invalidator: invalidator,
	}
}

func (s *relationshipService) Follow(ctx context.Context, actor *model.User, targetID string) (*model.User, error) {
	if actor.ID == targetID {
		return nil, errorf(ErrSelfReference, "You can't follow yourself!")
	}
	target, err := s.target(ctx, targetID, "User to follow not found")
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		created, err := s.followRepo.Create(ctx, actor.ID, target.ID)
		if err != nil {
			return err
		}
		// 粉丝表也走幂等插入，顺带修复历史上的单边记录
		fanCreated, err := s.fanRepo.Create(ctx, target.ID, actor.ID)
		if err != nil {
			return err
		}
		changed = created || fanCreated
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}
	if changed {
		metrics.RelationChanges.WithLabelValues("follow").Inc()
		s.invalidate(ctx, actor.ID, target.ID)
	}
	return target, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, actor *model.User, targetID string) (*model.User, error) {
	if actor.ID == targetID {
		return nil, errorf(ErrSelfReference, "You can't unfollow yourself!")
	}
	target, err := s.target(ctx, targetID, "User to unfollow not found")
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		removed, err := s.followRepo.Delete(ctx, actor.ID, target.ID)
		if err != nil {
			return err
		}
		fanRemoved, err := s.fanRepo.Delete(ctx, target.ID, actor.ID)
		if err != nil {
			return err
		}
		changed = removed || fanRemoved
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unfollow: %w", err)
	}
	if changed {
		metrics.RelationChanges.WithLabelValues("unfollow").Inc()
		s.invalidate(ctx, actor.ID, target.ID)
	}
	return target, nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if _, err := s.target(ctx, userID, "User not found"); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	return s.cache.FollowingIDs(ctx, userID, offset, limit)
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if _, err := s.target(ctx, userID, "User not found"); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	return s.cache.FollowerIDs(ctx, userID, offset, limit)
}

func (s *relationshipService) target(ctx context.Context, id, notFoundMsg string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorf(ErrNotFound, "%s", notFoundMsg)
		}
		return nil, err
	}
	return u, nil
}

func (s *relationshipService) invalidate(ctx context.Context, followerID, followeeID string) {
	invalidateKeys(ctx, s.cache, s.invalidator, cache.FollowingKey(followerID), cache.FollowersKey(followeeID))
}

func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return (page - 1) * pageSize, pageSize
}
