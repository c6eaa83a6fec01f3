package dataaccess

import (
	"context"
	"testing"
	"time"

	"github.com/azorva/warden/pkg/custom"
	"github.com/azorva/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestTicketDal_RoundTrip(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewTicketDal(l, store)
	ctx := context.Background()

	ticket := &entities.Ticket{
		ChannelID:     "chan-1",
		GuildID:       "guild-1",
		OwnerID:       "user-1",
		OwnerUsername: "wolf",
		CategoryID:    "general-support",
		Status:        entities.TicketStatusOpen,
		CreatedAt:     custom.Datetime(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, dal.SaveTicket(ctx, ticket))

	got, err := dal.GetTicket(ctx, "chan-1")
	require.NoError(t, err)
	require.Equal(t, ticket.OwnerID, got.OwnerID)
	require.Equal(t, ticket.CategoryID, got.CategoryID)
	require.Equal(t, entities.TicketStatusOpen, got.Status)
}

func TestTicketDal_GetTicket_NotFound(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewTicketDal(l, store)

	_, err := dal.GetTicket(context.Background(), "missing-chan")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTicketDal_DeleteTicket(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewTicketDal(l, store)
	ctx := context.Background()

	ticket := &entities.Ticket{
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		OwnerID:   "user-1",
		Status:    entities.TicketStatusOpen,
	}
	require.NoError(t, dal.SaveTicket(ctx, ticket))
	require.NoError(t, dal.DeleteTicket(ctx, "chan-1"))

	// Deletion tombstones the key; the read must report not-found, not an error.
	_, err := dal.GetTicket(ctx, "chan-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTicketDal_ClaimPersistsOnce(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewTicketDal(l, store)
	ctx := context.Background()

	ticket := &entities.Ticket{
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		OwnerID:   "user-1",
		Status:    entities.TicketStatusOpen,
	}
	require.NoError(t, dal.SaveTicket(ctx, ticket))

	// First claim.
	got, err := dal.GetTicket(ctx, "chan-1")
	require.NoError(t, err)
	require.True(t, got.Claim("staff-1"))
	require.NoError(t, dal.SaveTicket(ctx, got))

	// Second claim by someone else is a no-op; the first claimant survives.
	got, err = dal.GetTicket(ctx, "chan-1")
	require.NoError(t, err)
	require.False(t, got.Claim("staff-2"))
	require.NoError(t, dal.SaveTicket(ctx, got))

	got, err = dal.GetTicket(ctx, "chan-1")
	require.NoError(t, err)
	require.Equal(t, "staff-1", got.ClaimedBy)
	require.Equal(t, entities.TicketStatusClaimed, got.Status)
}
