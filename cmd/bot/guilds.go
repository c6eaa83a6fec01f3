package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/cmd/bot/monitoring"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/logging"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		// Seed the default configuration so the notifier has something to
		// work with before an admin runs the settings command.
		if err := seedGuildConfig(context.Background(), a, g.ID); err != nil {
			a.Log().Error("Error seeding guild configuration",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()))
		}
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		a.Log().Info(fmt.Sprintf("Left guild %s", g.Name))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}

// seedGuildConfig writes default values for configuration fields that have
// never been set. Existing values are left alone.
func seedGuildConfig(ctx context.Context, a IApp, guildID string) error {
	_, found, err := a.GuildDal().GetField(ctx, guildID, dataaccess.FieldSocialLink)
	if err != nil {
		return fmt.Errorf("error reading social link: %w", err)
	}
	if !found {
		if err := a.GuildDal().SetField(ctx, guildID, dataaccess.FieldSocialLink, dataaccess.DefaultSocialLink); err != nil {
			return fmt.Errorf("error seeding social link: %w", err)
		}
		a.Log().Info("Seeded default social link", slog.String(logging.KeyGuildID, guildID))
	}
	return nil
}
