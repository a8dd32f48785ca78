package service

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	u, err := f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{
		Name:     strPtr("Alice L."),
		Bio:      strPtr("hi"),
		Email:    strPtr("New@X.com"),
		Password: strPtr("another1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", u.Name)
	assert.Equal(t, "new@x.com", u.Email)
	assert.EqualValues(t, 2, u.Version)

	_, _, _, err = f.auth.Login(ctx, "new@x.com", "another1")
	assert.NoError(t, err)
}

func TestUpdateRules(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	_, err := f.userSvc.Update(ctx, bob, alice.ID, UpdateUserInput{Bio: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{Email: strPtr("bob@x.com")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{Name: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{Password: strPtr("123")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{Password: strPtr(strings.Repeat("p", 73))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.userSvc.Update(ctx, alice, alice.ID, UpdateUserInput{Website: strPtr("https://x.com/" + strings.Repeat("a", 250))})
	assert.ErrorIs(t, err, ErrValidation)
}

// staleUsers loses every versioned write, as if another request got there first.
type staleUsers struct{ repository.UserRepository }

func (staleUsers) Update(context.Context, *model.User) error { return repository.ErrStaleVersion }

func TestUpdateStaleVersionIsConflict(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	svc := NewUserService(UserServiceDeps{
		Tx:      repository.NewTransactor(f.db),
		Users:   staleUsers{f.users},
		Follows: f.follows,
		Fans:    f.fans,
		Posts:   f.posts,
		Likes:   f.likes,
		Cache:   f.cache,
		Media:   f.media,
	})
	_, err := svc.Update(context.Background(), alice, alice.ID, UpdateUserInput{Bio: strPtr("x")})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	_, err := f.relations.Follow(ctx, alice, bob.ID)
	require.NoError(t, err)
	_, err = f.relations.Follow(ctx, bob, alice.ID)
	require.NoError(t, err)
	ap, err := f.postSvc.Create(ctx, alice, CreatePostInput{Text: "mine", Image: pngBytes(t, 20, 20)})
	require.NoError(t, err)
	bp := f.post(t, bob, "bob's")
	_, err = f.engagement.Like(ctx, bob, ap.ID)
	require.NoError(t, err)
	_, err = f.engagement.Like(ctx, alice, bp.ID)
	require.NoError(t, err)
	require.NoError(t, f.userSvc.UploadAvatar(ctx, alice, alice.ID, pngBytes(t, 40, 40)))

	_, err = f.userSvc.Delete(ctx, bob, alice.ID)
	require.ErrorIs(t, err, ErrForbidden)

	deleted, err := f.userSvc.Delete(ctx, alice, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, deleted.Followers)
	assert.Equal(t, []string{bob.ID}, deleted.Following)

	_, err = f.userSvc.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	b, err := f.userSvc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, b.Followers)
	assert.Empty(t, b.Following)

	got, err := f.postSvc.Get(ctx, bp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	_, err = f.postSvc.Get(ctx, ap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.media.Get(ctx, ap.ImageKey)
	assert.Error(t, err)

	_, err = f.userSvc.Delete(ctx, alice, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvatar(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	_, err := f.userSvc.Avatar(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.userSvc.UploadAvatar(ctx, bob, alice.ID, pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.userSvc.UploadAvatar(ctx, alice, alice.ID, []byte("not an image"))
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.userSvc.UploadAvatar(ctx, alice, alice.ID, pngBytes(t, 500, 300)))
	data, err := f.userSvc.Avatar(ctx, alice.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())

	u, err := f.userSvc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, u.AvatarExists)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users, err := f.userSvc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	f.register(t, "alice")
	f.register(t, "bob")
	users, err = f.userSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotNil(t, u.Followers)
	}
}
