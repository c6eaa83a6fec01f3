package dataaccess

import (
	"context"
	"testing"
	"time"

	"github.com/azorva/warden/pkg/custom"
	"github.com/azorva/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestReminderDal_RoundTrip(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewReminderDal(l, store)
	ctx := context.Background()

	reminder := &entities.Reminder{
		ID:        "rem-1",
		GuildID:   "guild-1",
		UserID:    "user-1",
		ChannelID: "chan-1",
		Task:      "water the plants",
		DueAt:     custom.Datetime(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, dal.SaveReminder(ctx, reminder))

	got, err := dal.GetReminder(ctx, "rem-1")
	require.NoError(t, err)
	require.Equal(t, reminder.UserID, got.UserID)
	require.Equal(t, reminder.ChannelID, got.ChannelID)
	require.Equal(t, reminder.Task, got.Task)
	require.Equal(t, reminder.DueAt.Time(), got.DueAt.Time())
}

func TestReminderDal_GetReminder_NotFound(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewReminderDal(l, store)

	_, err := dal.GetReminder(context.Background(), "missing-rem")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReminderDal_DeleteCancelsPending(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewReminderDal(l, store)
	ctx := context.Background()

	reminder := &entities.Reminder{
		ID:      "rem-1",
		GuildID: "guild-1",
		UserID:  "user-1",
		Task:    "feed the cat",
	}
	require.NoError(t, dal.SaveReminder(ctx, reminder))
	require.NoError(t, dal.DeleteReminder(ctx, "rem-1"))

	// The pre-delivery re-read must see the tombstone as not-found so the
	// timer skips delivery.
	_, err := dal.GetReminder(ctx, "rem-1")
	require.ErrorIs(t, err, ErrNotFound)
}
