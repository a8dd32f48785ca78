package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/testutil"
	"github.com/d60-Lab/chirp/pkg/hash"
	"github.com/d60-Lab/chirp/pkg/jwt"
)

type fixture struct {
	db            *gorm.DB
	users         repository.UserRepository
	follows       repository.FollowRepository
	fans          repository.FanRepository
	posts         repository.PostRepository
	likes         repository.LikeRepository
	notifications repository.NotificationRepository
	cache         *cache.UserCache
	media         *media.MemoryStore
	tokens        *jwt.TokenService

	auth          AuthService
	relations     RelationshipService
	engagement    EngagementService
	notifSvc      NotificationService
	userSvc       UserService
	postSvc       PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:            db,
		users:         repository.NewUserRepository(db),
		follows:       repository.NewFollowRepository(db),
		fans:          repository.NewFanRepository(db),
		posts:         repository.NewPostRepository(db),
		likes:         repository.NewLikeRepository(db),
		notifications: repository.NewNotificationRepository(db),
		media:         media.NewMemoryStore(),
		tokens:        jwt.NewTokenService("test-secret", "chirp-test", 7*24*time.Hour),
	}
	tx := repository.NewTransactor(db)
	hasher := hash.NewHashServiceWithCost(bcrypt.MinCost)
	f.cache = cache.NewUserCache(nil, f.users, f.follows, f.fans, time.Minute)

	f.auth = NewAuthService(f.users, f.cache, hasher, f.tokens)
	f.relations = NewRelationshipService(tx, f.users, f.follows, f.fans, f.cache, nil)
	f.engagement = NewEngagementService(tx, f.posts, f.likes)
	f.notifSvc = NewNotificationService(f.notifications, f.users, f.cache)
	f.userSvc = NewUserService(UserServiceDeps{
		Tx:      tx,
		Users:   f.users,
		Follows: f.follows,
		Fans:    f.fans,
		Posts:   f.posts,
		Likes:   f.likes,
		Cache:   f.cache,
		Media:   f.media,
		Hasher:  hasher,
	})
	f.postSvc = NewPostService(f.posts, f.likes, f.media)
	return f
}

func (f *fixture) register(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     username + " display",
		Username: username,
		Email:    username + "@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, author *model.User, text string) *model.Post {
	t.Helper()
	p, err := f.postSvc.Create(context.Background(), author, CreatePostInput{Text: text})
	require.NoError(t, err)
	return p
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y), B: uint8(x), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
