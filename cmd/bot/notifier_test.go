package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuildDal struct {
	configs map[string]*entities.GuildConfig
}

func (f *fakeGuildDal) GetConfig(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg, ok := f.configs[guildID]
	if !ok {
		return &entities.GuildConfig{
			GuildID:    guildID,
			SocialLink: dataaccess.DefaultSocialLink,
		}, nil
	}
	return cfg, nil
}

func (f *fakeGuildDal) GetField(_ context.Context, _, _ string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeGuildDal) SetField(_ context.Context, _, _, _ string) error {
	return nil
}

type fakeNotifierAPI struct {
	guilds   []*discordgo.Guild
	channels map[string]*discordgo.Channel

	sent map[string][]*discordgo.MessageEmbed
}

func (f *fakeNotifierAPI) Guilds() []*discordgo.Guild {
	return f.guilds
}

func (f *fakeNotifierAPI) Channel(channelID string) (*discordgo.Channel, error) {
	c, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return c, nil
}

func (f *fakeNotifierAPI) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if f.sent == nil {
		f.sent = make(map[string][]*discordgo.MessageEmbed)
	}
	f.sent[channelID] = append(f.sent[channelID], embed)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSocialNotifier_PostsToConfiguredGuilds(t *testing.T) {
	t.Parallel()

	dal := &fakeGuildDal{
		configs: map[string]*entities.GuildConfig{
			"guild1": {
				GuildID:           "guild1",
				SocialLink:        "https://example.com/social",
				AnnounceChannelID: "chan1",
				SocialsChannelID:  "socials1",
			},
		},
	}
	api := &fakeNotifierAPI{
		guilds: []*discordgo.Guild{{ID: "guild1"}},
		channels: map[string]*discordgo.Channel{
			"chan1": {ID: "chan1", Type: discordgo.ChannelTypeGuildText},
		},
	}

	n := newSocialNotifier(testLogger(), dal, api)
	n.notifyAll(context.Background())

	require.Len(t, api.sent["chan1"], 1)
	embed := api.sent["chan1"][0]
	assert.Contains(t, embed.Description, "https://example.com/social")
	assert.Contains(t, embed.Description, "<#socials1>")
}

func TestSocialNotifier_SkipsUnconfiguredGuild(t *testing.T) {
	t.Parallel()

	dal := &fakeGuildDal{
		configs: map[string]*entities.GuildConfig{
			"configured": {
				GuildID:           "configured",
				SocialLink:        dataaccess.DefaultSocialLink,
				AnnounceChannelID: "chan1",
			},
		},
	}
	api := &fakeNotifierAPI{
		guilds: []*discordgo.Guild{
			{ID: "unconfigured"},
			{ID: "configured"},
		},
		channels: map[string]*discordgo.Channel{
			"chan1": {ID: "chan1", Type: discordgo.ChannelTypeGuildText},
		},
	}

	n := newSocialNotifier(testLogger(), dal, api)
	n.notifyAll(context.Background())

	// The unconfigured guild is skipped without blocking the other.
	assert.Len(t, api.sent, 1)
	assert.Len(t, api.sent["chan1"], 1)
}

func TestSocialNotifier_SkipsNonTextChannel(t *testing.T) {
	t.Parallel()

	dal := &fakeGuildDal{
		configs: map[string]*entities.GuildConfig{
			"guild1": {
				GuildID:           "guild1",
				SocialLink:        dataaccess.DefaultSocialLink,
				AnnounceChannelID: "voice1",
			},
		},
	}
	api := &fakeNotifierAPI{
		guilds: []*discordgo.Guild{{ID: "guild1"}},
		channels: map[string]*discordgo.Channel{
			"voice1": {ID: "voice1", Type: discordgo.ChannelTypeGuildVoice},
		},
	}

	n := newSocialNotifier(testLogger(), dal, api)
	n.notifyAll(context.Background())

	assert.Empty(t, api.sent)
}

func TestSocialNotifier_ChannelLookupFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	dal := &fakeGuildDal{
		configs: map[string]*entities.GuildConfig{
			"broken": {
				GuildID:           "broken",
				SocialLink:        dataaccess.DefaultSocialLink,
				AnnounceChannelID: "deleted",
			},
			"healthy": {
				GuildID:           "healthy",
				SocialLink:        dataaccess.DefaultSocialLink,
				AnnounceChannelID: "chan1",
			},
		},
	}
	api := &fakeNotifierAPI{
		guilds: []*discordgo.Guild{
			{ID: "broken"},
			{ID: "healthy"},
		},
		channels: map[string]*discordgo.Channel{
			"chan1": {ID: "chan1", Type: discordgo.ChannelTypeGuildText},
		},
	}

	n := newSocialNotifier(testLogger(), dal, api)
	n.notifyAll(context.Background())

	assert.Len(t, api.sent["chan1"], 1)
}
