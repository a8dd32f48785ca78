package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/internal/model"
)

func TestCreateNotification(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	n, err := f.notifSvc.Create(ctx, alice, CreateNotificationInput{
		ReceiverID: bob.ID, Type: "like", PostText: " nice ",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", n.Username)
	assert.Equal(t, alice.ID, n.SenderID)
	assert.Equal(t, bob.ID, n.ReceiverID)
	assert.Equal(t, "nice", n.PostText)

	_, err = f.notifSvc.Create(ctx, alice, CreateNotificationInput{ReceiverID: bob.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.notifSvc.Create(ctx, alice, CreateNotificationInput{Type: "follow"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.notifSvc.Create(ctx, alice, CreateNotificationInput{ReceiverID: "ghost", Type: "follow"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForReceiverNewestFirst(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.register(t, "alice"), f.register(t, "bob"), f.register(t, "carol")
	ctx := context.Background()

	empty, err := f.notifSvc.ListForReceiver(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Now().Add(-time.Hour)
	for i, sender := range []*model.User{alice, carol, alice} {
		require.NoError(t, f.notifications.Create(ctx, &model.Notification{
			ID:         []string{"n1", "n2", "n3"}[i],
			Username:   sender.Username,
			SenderID:   sender.ID,
			ReceiverID: bob.ID,
			Type:       "follow",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	views, err := f.notifSvc.ListForReceiver(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "n3", views[0].ID)
	assert.Equal(t, "n2", views[1].ID)
	assert.Equal(t, "n1", views[2].ID)
	assert.Equal(t, UserRef{ID: carol.ID, Username: "carol"}, views[1].Sender)
	assert.Equal(t, UserRef{ID: bob.ID, Username: "bob"}, views[0].Receiver)
}

func TestListFallsBackToStoredUsername(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.register(t, "alice"), f.register(t, "bob")
	ctx := context.Background()

	_, err := f.notifSvc.Create(ctx, alice, CreateNotificationInput{ReceiverID: bob.ID, Type: "follow"})
	require.NoError(t, err)
	_, err = f.userSvc.Delete(ctx, alice, alice.ID)
	require.NoError(t, err)

	views, err := f.notifSvc.ListForReceiver(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, UserRef{ID: alice.ID, Username: "alice"}, views[0].Sender)
}
