package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

type CreatePostInput struct {
	Text string `json:"text" validate:"required,max=280"`
	// Image is the raw upload; it is resized before storage.
	Image []byte `json:"-"`
}

// PostService 推文的创建与查询。点赞见 EngagementService。
type PostService interface {
	Create(ctx context.Context, author *model.User, in CreatePostInput) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	ListAll(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	// UploadImage 只有作者本人可以设置配图
	UploadImage(ctx context.Context, actor *model.User, postID string, raw []byte) error
	Image(ctx context.Context, postID string) ([]byte, error)
}

type postService struct {
	posts repository.PostRepository
	likes repository.LikeRepository
	media media.Store
}

func NewPostService(posts repository.PostRepository, likes repository.LikeRepository, store media.Store) PostService {
	return &postService{posts: posts, likes: likes, media: store}
}

func (s *postService) Create(ctx context.Context, author *model.User, in CreatePostInput) (*model.Post, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	p := &model.Post{
		ID:       uuid.New().String(),
		Text:     in.Text,
		User:     author.Name,
		Username: author.Username,
		UserID:   author.ID,
	}
	if len(in.Image) > 0 {
		png, err := media.ResizePostImage(bytes.NewReader(in.Image))
		if err != nil {
			return nil, newValidationError(map[string]string{"image": "must be a jpg, jpeg or png image"}, err)
		}
		p.ImageKey = media.PostImageKey(p.ID)
		if err := s.media.Put(ctx, p.ImageKey, png, media.ContentTypePNG); err != nil {
			return nil, fmt.Errorf("store post image: %w", err)
		}
	}
	if err := s.posts.Create(ctx, p); err != nil {
		if p.ImageKey != "" {
			s.dropImage(ctx, p.ImageKey)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	metrics.PostsCreated.Inc()
	p.Likes = []string{}
	p.HasImage = p.ImageKey != ""
	return p, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	p, err := findPost(ctx, s.posts, id)
	if err != nil {
		return nil, err
	}
	if err := hydratePosts(ctx, s.likes, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *postService) ListAll(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return posts, hydratePosts(ctx, s.likes, posts...)
}

func (s *postService) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return posts, hydratePosts(ctx, s.likes, posts...)
}

func (s *postService) UploadImage(ctx context.Context, actor *model.User, postID string, raw []byte) error {
	p, err := findPost(ctx, s.posts, postID)
	if err != nil {
		return err
	}
	if p.UserID != actor.ID {
		return errorf(ErrForbidden, "You can only change images on your own tweets")
	}
	png, err := media.ResizePostImage(bytes.NewReader(raw))
	if err != nil {
		return newValidationError(map[string]string{"image": "must be a jpg, jpeg or png image"}, err)
	}

	key := media.PostImageKey(p.ID)
	if err := s.media.Put(ctx, key, png, media.ContentTypePNG); err != nil {
		return fmt.Errorf("store post image: %w", err)
	}
	if p.ImageKey != key {
		p.ImageKey = key
		if err := s.posts.Save(ctx, p); err != nil {
			return fmt.Errorf("save post: %w", err)
		}
	}
	return nil
}

func (s *postService) Image(ctx context.Context, postID string) ([]byte, error) {
	p, err := findPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}
	if p.ImageKey == "" {
		return nil, errorf(ErrNotFound, "Tweet image not found")
	}
	data, err := s.media.Get(ctx, p.ImageKey)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return nil, errorf(ErrNotFound, "Tweet image not found")
		}
		return nil, err
	}
	return data, nil
}

func (s *postService) dropImage(ctx context.Context, key string) {
	if err := s.media.Delete(ctx, key); err != nil {
		logger.Warn("delete orphaned post image failed", zap.String("key", key), zap.Error(err))
	}
}

func findPost(ctx context.Context, posts repository.PostRepository, id string) (*model.Post, error) {
	p, err := posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorf(ErrNotFound, "Tweet not found")
		}
		return nil, err
	}
	return p, nil
}

// hydratePosts 批量装配 likes 与配图标记
func hydratePosts(ctx context.Context, likes repository.LikeRepository, posts ...*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	byPost, err := likes.UserIDsByPosts(ctx, ids)
	if err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for _, p := range posts {
		p.Likes = byPost[p.ID]
		if p.Likes == nil {
			p.Likes = []string{}
		}
		p.HasImage = p.ImageKey != ""
	}
	return nil
}
