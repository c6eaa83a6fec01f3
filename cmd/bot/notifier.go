package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/cmd/bot/monitoring"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/logging"
)

// notifierInterval is how often the social reminder is posted to each guild.
const notifierInterval = 2 * time.Hour

// notifierAPI is the slice of the Discord API the notifier needs. It is
// satisfied by sessionNotifierAPI in production and by fakes in tests.
type notifierAPI interface {
	// Guilds returns the guilds the bot is currently a member of.
	Guilds() []*discordgo.Guild

	// Channel looks up a channel by its ID.
	Channel(channelID string) (*discordgo.Channel, error)

	// SendEmbed posts an embed to the given channel.
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

type sessionNotifierAPI struct {
	s *discordgo.Session
}

func (n *sessionNotifierAPI) Guilds() []*discordgo.Guild {
	return n.s.State.Guilds
}

func (n *sessionNotifierAPI) Channel(channelID string) (*discordgo.Channel, error) {
	return n.s.Channel(channelID)
}

func (n *sessionNotifierAPI) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := n.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// socialNotifier periodically posts a social media reminder to every guild's
// announcement channel. Guilds with no announcement channel configured are
// skipped until an admin sets one.
type socialNotifier struct {
	l   *slog.Logger
	dal dataaccess.GuildDal
	api notifierAPI
}

func newSocialNotifier(l *slog.Logger, dal dataaccess.GuildDal, api notifierAPI) *socialNotifier {
	return &socialNotifier{
		l:   l,
		dal: dal,
		api: api,
	}
}

// Run posts reminders on a fixed interval until the context is cancelled. The
// first post happens after a full interval, not at startup.
func (n *socialNotifier) Run(ctx context.Context) {
	t := time.NewTicker(notifierInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			n.l.Info("Social notifier stopping")
			return
		case <-t.C:
			n.notifyAll(ctx)
		}
	}
}

// notifyAll posts the reminder to every guild. A failure in one guild never
// blocks the others.
func (n *socialNotifier) notifyAll(ctx context.Context) {
	for _, g := range n.api.Guilds() {
		if err := n.notifyGuild(ctx, g.ID); err != nil {
			monitoring.TotalSocialReminders.WithLabelValues(g.ID, "error").Inc()
			n.l.Warn("Error sending social reminder",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()))
			continue
		}
	}
}

func (n *socialNotifier) notifyGuild(ctx context.Context, guildID string) error {
	cfg, err := n.dal.GetConfig(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error reading guild configuration: %w", err)
	}

	if cfg.AnnounceChannelID == "" {
		monitoring.TotalSocialReminders.WithLabelValues(guildID, "skipped").Inc()
		n.l.Debug("No announcement channel configured, skipping social reminder",
			slog.String(logging.KeyGuildID, guildID))
		return nil
	}

	channel, err := n.api.Channel(cfg.AnnounceChannelID)
	if err != nil {
		return fmt.Errorf("error looking up announcement channel: %w", err)
	} else if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
		monitoring.TotalSocialReminders.WithLabelValues(guildID, "skipped").Inc()
		n.l.Warn("Announcement channel is not a text channel, skipping social reminder",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyChannelID, cfg.AnnounceChannelID))
		return nil
	}

	description := fmt.Sprintf("Go follow our socials!\n%s", cfg.SocialLink)
	if cfg.SocialsChannelID != "" {
		description = fmt.Sprintf("%s\n\nSee <#%s> for all our links.", description, cfg.SocialsChannelID)
	}

	if err := n.api.SendEmbed(cfg.AnnounceChannelID, &discordgo.MessageEmbed{
		Title:       "📣 Social Reminder",
		Description: description,
		Color:       0x1DA1F2,
	}); err != nil {
		return fmt.Errorf("error sending social reminder: %w", err)
	}

	monitoring.TotalSocialReminders.WithLabelValues(guildID, "sent").Inc()
	return nil
}
