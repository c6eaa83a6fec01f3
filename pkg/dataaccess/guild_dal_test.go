package dataaccess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuildDal_GetConfig_Defaults(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewGuildDal(l, store)

	cfg, err := dal.GetConfig(context.Background(), "guild-1")
	require.NoError(t, err)
	require.Equal(t, "guild-1", cfg.GuildID)
	require.Equal(t, DefaultSocialLink, cfg.SocialLink)
	require.Empty(t, cfg.SupportRoleID)
	require.Empty(t, cfg.AnnounceChannelID)
}

func TestGuildDal_GetConfig_ReadsStoredFields(t *testing.T) {
	store, l, fs := newFakeStore(t)
	dal := NewGuildDal(l, store)

	fs.set("support_role_id_guild-1", "role-9")
	fs.set("announce_channel_guild-1", "chan-5")
	fs.set("social_link_guild-1", "https://x.com/example")

	cfg, err := dal.GetConfig(context.Background(), "guild-1")
	require.NoError(t, err)
	require.Equal(t, "role-9", cfg.SupportRoleID)
	require.Equal(t, "chan-5", cfg.AnnounceChannelID)
	require.Equal(t, "https://x.com/example", cfg.SocialLink)
}

func TestGuildDal_SetField_RoundTrip(t *testing.T) {
	store, l, _ := newFakeStore(t)
	dal := NewGuildDal(l, store)
	ctx := context.Background()

	require.NoError(t, dal.SetField(ctx, "guild-1", FieldReportsChannel, "chan-7"))

	got, found, err := dal.GetField(ctx, "guild-1", FieldReportsChannel)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "chan-7", got)

	// A different guild must not see the value.
	_, found, err = dal.GetField(ctx, "guild-2", FieldReportsChannel)
	require.NoError(t, err)
	require.False(t, found)
}

func TestGuildDal_TombstoneReadsAsAbsent(t *testing.T) {
	store, l, fs := newFakeStore(t)
	dal := NewGuildDal(l, store)

	fs.set("social_link_guild-1", "")

	cfg, err := dal.GetConfig(context.Background(), "guild-1")
	require.NoError(t, err)
	require.Equal(t, DefaultSocialLink, cfg.SocialLink)
}
