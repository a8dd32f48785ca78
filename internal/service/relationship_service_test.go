package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUnfollowSymmetry(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	target, err := f.relations.Follow(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", target.Username)

	a, err := f.userSvc.Get(ctx, alice.ID)
	require.NoError(t, err)
	b, err := f.userSvc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, a.Following)
	assert.Equal(t, []string{alice.ID}, b.Followers)
	assert.Empty(t, a.Followers)
	assert.Empty(t, b.Following)

	_, err = f.relations.Unfollow(ctx, alice, bob.ID)
	require.NoError(t, err)

	a, _ = f.userSvc.Get(ctx, alice.ID)
	b, _ = f.userSvc.Get(ctx, bob.ID)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
}

func TestFollowIsIdempotent(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.relations.Follow(ctx, alice, bob.ID)
		require.NoError(t, err)
	}
	following, err := f.follows.FolloweeIDs(ctx, alice.ID)
	require.NoError(t, err)
	fans, err := f.fans.FanIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, following, 1)
	assert.Len(t, fans, 1)

	// unfollowing twice is also fine
	for i := 0; i < 2; i++ {
		_, err := f.relations.Unfollow(ctx, alice, bob.ID)
		require.NoError(t, err)
	}
}

func TestFollowRepairsOneSidedEdge(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	_, err := f.follows.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = f.relations.Follow(ctx, alice, bob.ID)
	require.NoError(t, err)
	fans, err := f.fans.FanIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, fans)
}

func TestSelfReferenceLeavesStateAlone(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	_, err := f.relations.Follow(ctx, alice, alice.ID)
	assert.ErrorIs(t, err, ErrSelfReference)
	_, err = f.relations.Unfollow(ctx, alice, alice.ID)
	assert.ErrorIs(t, err, ErrSelfReference)

	a, err := f.userSvc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, a.Following)
	assert.Empty(t, a.Followers)
}

func TestFollowUnknownTarget(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	_, err := f.relations.Follow(context.Background(), alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.relations.Unfollow(context.Background(), alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFansPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	star := f.register(t, "star")
	for i := 0; i < 5; i++ {
		fan := f.register(t, fmt.Sprintf("fan%d", i))
		_, err := f.relations.Follow(ctx, fan, star.ID)
		require.NoError(t, err)
	}

	page1, err := f.relations.ListFans(ctx, star.ID, 1, 2)
	require.NoError(t, err)
	page3, err := f.relations.ListFans(ctx, star.ID, 3, 2)
	require.NoError(t, err)
	all, err := f.relations.ListFans(ctx, star.ID, 1, 50)
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page3, 1)
	assert.Len(t, all, 5)
	assert.Equal(t, all[:2], page1)

	following, err := f.relations.ListFollowing(ctx, star.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, following)

	_, err = f.relations.ListFans(ctx, "missing", 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageBounds(t *testing.T) {
	off, lim := pageBounds(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, 10, lim)

	off, lim = pageBounds(3, 500)
	assert.Equal(t, 200, off)
	assert.Equal(t, MaxPageSize, lim)
}
