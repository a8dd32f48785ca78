package service

import (
	"context"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// EngagementService 点赞。与关注不同，重复点赞直接报错。
type EngagementService interface {
	// Like 返回点赞后的总数
	Like(ctx context.Context, actor *model.User, postID string) (int64, error)
	// Unlike 返回更新后的推文
	Unlike(ctx context.Context, actor *model.User, postID string) (*model.Post, error)
}

type engagementService struct {
	tx    repository.Transactor
	posts repository.PostRepository
	likes repository.LikeRepository
}

func NewEngagementService(tx repository.Transactor, posts repository.PostRepository, likes repository.LikeRepository) EngagementService {
	return &engagementService{tx: tx, posts: posts, likes: likes}
}

func (s *engagementService) Like(ctx context.Context, actor *model.User, postID string) (int64, error) {
	var total int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := findPost(ctx, s.posts, postID); err != nil {
			return err
		}
		added, err := s.likes.Add(ctx, postID, actor.ID)
		if err != nil {
			return err
		}
		if !added {
			return errorf(ErrAlreadyLiked, "You have already liked this tweet")
		}
		total, err = s.likes.Count(ctx, postID)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.LikeChanges.WithLabelValues("like").Inc()
	return total, nil
}

func (s *engagementService) Unlike(ctx context.Context, actor *model.User, postID string) (*model.Post, error) {
	var post *model.Post
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := findPost(ctx, s.posts, postID)
		if err != nil {
			return err
		}
		removed, err := s.likes.Remove(ctx, postID, actor.ID)
		if err != nil {
			return err
		}
		if !removed {
			return errorf(ErrNotLiked, "You have not liked this tweet yet")
		}
		if err := hydratePosts(ctx, s.likes, p); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.LikeChanges.WithLabelValues("unlike").Inc()
	return post, nil
}
