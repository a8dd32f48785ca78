package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/testutil"
)

func newUser(id string) *model.User {
	return &model.User{ID: id, Name: id, Username: id, Email: id + "@example.com", PasswordHash: "hash"}
}

func TestUserStore(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice")))
	require.NoError(t, repo.Create(ctx, newUser("bob")))

	t.Run("find by id", func(t *testing.T) {
		u, err := repo.FindByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.EqualValues(t, 1, u.Version)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find one by email and username", func(t *testing.T) {
		u, err := repo.FindByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.ID)

		u, err = repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.ID)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find many", func(t *testing.T) {
		all, err := repo.FindMany(ctx, nil, "username")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alice", all[0].Username)

		none, err := repo.FindMany(ctx, Filter{"username": "carol"}, "")
		require.NoError(t, err)
		assert.Empty(t, none)

		some, err := repo.FindByIDs(ctx, []string{"bob", "ghost"})
		require.NoError(t, err)
		require.Len(t, some, 1)
		assert.Equal(t, "bob", some[0].ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := newUser("alice2")
		dup.Username = "alice"
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("save upserts", func(t *testing.T) {
		c := newUser("carol")
		require.NoError(t, repo.Save(ctx, c))
		c.Bio = "hi"
		require.NoError(t, repo.Save(ctx, c))

		got, err := repo.FindByID(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Bio)
	})

	t.Run("delete by id", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, "carol"))
		assert.ErrorIs(t, repo.DeleteByID(ctx, "carol"), ErrNotFound)
	})
}

func TestUserUpdateVersion(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("alice")))

	first, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)

	first.Bio = "first writer"
	require.NoError(t, repo.Update(ctx, first))
	assert.EqualValues(t, 2, first.Version)

	second.Bio = "second writer"
	assert.ErrorIs(t, repo.Update(ctx, second), ErrStaleVersion)

	got, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Bio)

	assert.ErrorIs(t, repo.Update(ctx, newUser("ghost")), ErrNotFound)
}

func TestFollowAndFanRepositories(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	fans := NewFanRepository(db)
	ctx := context.Background()

	created, err := follows.Create(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = follows.Create(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, created, "duplicate follow is a no-op")

	_, err = follows.Create(ctx, "a", "c")
	require.NoError(t, err)
	_, err = fans.Create(ctx, "b", "a")
	require.NoError(t, err)

	ok, err := follows.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := follows.FolloweeIDs(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, ids)

	page, err := follows.ListFollowings(ctx, "a", 0, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	fanIDs, err := fans.FanIDs(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, fanIDs)

	empty, err := fans.FanIDs(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	removed, err := follows.Delete(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = follows.Delete(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, follows.DeleteAllFor(ctx, "a"))
	require.NoError(t, fans.DeleteAllFor(ctx, "a"))
	ids, err = follows.FolloweeIDs(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, ids)
	fanIDs, err = fans.FanIDs(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, fanIDs)
}

func TestTransactorRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	tx := NewTransactor(db)
	follows := NewFollowRepository(db)
	fans := NewFanRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := follows.Create(ctx, "a", "b"); err != nil {
			return err
		}
		if _, err := fans.Create(ctx, "b", "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := follows.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
	fanIDs, err := fans.FanIDs(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, fanIDs)
}

func TestLikeRepository(t *testing.T) {
	db := testutil.NewDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	added, err := likes.Add(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = likes.Add(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = likes.Add(ctx, "p1", "u2")
	require.NoError(t, err)
	_, err = likes.Add(ctx, "p2", "u1")
	require.NoError(t, err)

	cnt, err := likes.Count(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	byPost, err := likes.UserIDsByPosts(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, byPost["p1"])
	assert.Equal(t, []string{"u1"}, byPost["p2"])
	assert.Empty(t, byPost["p3"])

	removed, err := likes.Remove(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = likes.Remove(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, likes.DeleteByUser(ctx, "u1"))
	require.NoError(t, likes.DeleteByPosts(ctx, nil))
	ids, err := likes.UserIDs(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPostRepository(t *testing.T) {
	db := testutil.NewDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"p1", "p2", "p3"} {
		owner := "alice"
		if id == "p3" {
			owner = "bob"
		}
		require.NoError(t, posts.Create(ctx, &model.Post{
			ID: id, Text: id, User: owner, Username: owner, UserID: owner,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p3", all[0].ID)

	mine, err := posts.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "p2", mine[0].ID)

	ids, err := posts.IDsByUser(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)

	require.NoError(t, posts.DeleteByUser(ctx, "alice"))
	_, err = posts.FindByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationRepositoryOrdersNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, repo.Create(ctx, &model.Notification{
			ID: id, Username: "bob", SenderID: "bob", ReceiverID: "alice", Type: "like",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{
		ID: "other", Username: "bob", SenderID: "bob", ReceiverID: "carol", Type: "follow",
	}))

	got, err := repo.ListByReceiver(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"n3", "n2", "n1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	none, err := repo.ListByReceiver(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
