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
	"github.com/d60-Lab/chirp/pkg/hash"
	"github.com/d60-Lab/chirp/pkg/jwt"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

const loginFailed = "Unable to login!"

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Bio      string `json:"bio" validate:"max=160"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
	Location string `json:"location" validate:"max=100"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Bio = strings.TrimSpace(in.Bio)
	in.Website = strings.TrimSpace(in.Website)
	in.Location = strings.TrimSpace(in.Location)
}

// AuthService 凭证校验：注册、登录、令牌鉴权
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 不区分“邮箱不存在”和“密码错误”
	Login(ctx context.Context, email, password string) (*model.User, string, time.Time, error)
	// Authenticate 解析令牌并解析出仍然存在的用户
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	cache  *cache.UserCache
	hasher *hash.HashService
	tokens *jwt.TokenService
}

func NewAuthService(users repository.UserRepository, c *cache.UserCache, hasher *hash.HashService, tokens *jwt.TokenService) AuthService {
	return &authService{users: users, cache: c, hasher: hasher, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "username", in.Username, s.users.FindByUsername); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "email", in.Email, s.users.FindByEmail); err != nil {
		return nil, err
	}

	pw, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pw,
		Bio:          in.Bio,
		Website:      in.Website,
		Location:     in.Location,
		Version:      1,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// 并发注册撞上唯一索引
			return nil, newValidationError(map[string]string{"username": "username or email already in use"}, ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.RegisterSuccess.Inc()
	u.Followers, u.Following = []string{}, []string{}
	return u, nil
}

func (s *authService) checkUnique(ctx context.Context, field, value string, find func(context.Context, string) (*model.User, error)) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return newValidationError(map[string]string{field: "is already taken"}, ErrConflict)
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup %s: %w", field, err)
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, time.Time, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginFailure.WithLabelValues("unknown_email").Inc()
			return nil, "", time.Time{}, errorf(ErrAuthentication, loginFailed)
		}
		return nil, "", time.Time{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.CheckPasswordHash(password, u.PasswordHash) {
		metrics.LoginFailure.WithLabelValues("bad_password").Inc()
		return nil, "", time.Time{}, errorf(ErrAuthentication, loginFailed)
	}

	token, exp, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := hydrateRelations(ctx, s.cache, u); err != nil {
		return nil, "", time.Time{}, err
	}
	metrics.LoginSuccess.Inc()
	return u, token, exp, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrAuthentication)
		}
		return nil, err
	}
	return u, nil
}

// hydrateRelations 从关系索引装配 followers/following
func hydrateRelations(ctx context.Context, c *cache.UserCache, u *model.User) error {
	followers, err := c.FollowerIDs(ctx, u.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("load followers: %w", err)
	}
	following, err := c.FollowingIDs(ctx, u.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("load following: %w", err)
	}
	u.Followers, u.Following = followers, following
	return nil
}
