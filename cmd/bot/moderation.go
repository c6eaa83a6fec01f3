package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/logging"
	"github.com/azorva/warden/pkg/messages"
)

const (
	// reportCmdName submits an issue or feedback to staff.
	reportCmdName = "report"

	// purgeCmdName bulk deletes recent messages in a channel.
	purgeCmdName = "purge"

	// issueOptName is the name of the issue option on the report command.
	issueOptName = "issue"

	// countOptName is the name of the count option on the purge command.
	countOptName = "count"

	// reportsChannelName is the name used when lazily provisioning the
	// reports channel.
	reportsChannelName = "reports"

	// adminRoleName is the role the reports channel is shared with.
	adminRoleName = "Admin"

	// maxPurgeCount is the platform limit for a single bulk delete.
	maxPurgeCount = 100
)

var (
	reportCmd = &discordgo.ApplicationCommand{
		Name:        reportCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "🚩 Submit an issue or feedback.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        issueOptName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Describe the issue or feedback.",
				Required:    true,
			},
		},
	}

	purgeCmd = &discordgo.ApplicationCommand{
		Name:        purgeCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "🧹 Bulk delete recent messages in this channel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        countOptName,
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "Number of messages to delete (1-100).",
				Required:    true,
			},
		},
	}
)

// reportCmdHandler forwards the report to the guild's reports channel,
// provisioning a staff-only channel on first use.
func reportCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	issue := i.ApplicationCommandData().Options[0].StringValue()

	channelID, err := ensureReportsChannel(a, i.GuildID)
	if err != nil {
		a.Log().Error("Error provisioning reports channel",
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyError, err.Error()))
		return respondEphemeral(a, i, "❌ Reports channel not found. Please contact an admin.")
	}

	guildName := i.GuildID
	if guild, err := a.Session().Guild(i.GuildID); err == nil {
		guildName = guild.Name
	}

	if _, err := a.Session().ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title: "🚩 New Report",
		Color: 0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "User",
				Value: fmt.Sprintf("<@%s> (%s)", i.Member.User.ID, i.Member.User.ID),
			},
			{
				Name:  "Issue",
				Value: issue,
			},
			{
				Name:   "Server",
				Value:  guildName,
				Inline: true,
			},
			{
				Name:   "Channel",
				Value:  fmt.Sprintf("<#%s>", i.ChannelID),
				Inline: true,
			},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("error forwarding report: %w", err)
	}

	return respondEphemeral(a, i, "✅ Thank you for your report! Our team will review it shortly.")
}

// ensureReportsChannel returns the guild's reports channel, creating a
// staff-only channel and persisting its ID on first use.
func ensureReportsChannel(a IApp, guildID string) (string, error) {
	ctx := context.Background()

	channelID, found, err := a.GuildDal().GetField(ctx, guildID, dataaccess.FieldReportsChannel)
	if err != nil {
		return "", fmt.Errorf("error reading reports channel: %w", err)
	}
	if found {
		// Verify the configured channel still exists.
		if _, err := a.Session().Channel(channelID); err == nil {
			return channelID, nil
		}
		a.Log().Warn("Configured reports channel no longer exists, recreating",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyChannelID, channelID))
	}

	staffID, err := reportsAudienceID(a, guildID)
	if err != nil {
		return "", err
	}

	channel, err := a.Session().GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: reportsChannelName,
		Type: discordgo.ChannelTypeGuildText,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    staffID.id,
				Type:  staffID.kind,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating reports channel: %w", err)
	}

	if err := a.GuildDal().SetField(ctx, guildID, dataaccess.FieldReportsChannel, channel.ID); err != nil {
		return "", fmt.Errorf("error saving reports channel: %w", err)
	}
	return channel.ID, nil
}

type overwriteTarget struct {
	id   string
	kind discordgo.PermissionOverwriteType
}

// reportsAudienceID picks who can see the reports channel: the Admin role
// when one exists, otherwise the guild owner.
func reportsAudienceID(a IApp, guildID string) (*overwriteTarget, error) {
	roles, err := a.Session().GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing guild roles: %w", err)
	}
	for _, r := range roles {
		if r.Name == adminRoleName {
			return &overwriteTarget{id: r.ID, kind: discordgo.PermissionOverwriteTypeRole}, nil
		}
	}

	guild, err := a.Session().Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return &overwriteTarget{id: guild.OwnerID, kind: discordgo.PermissionOverwriteTypeMember}, nil
}

// purgeCmdHandler bulk deletes up to 100 recent messages, preserving pinned
// ones.
func purgeCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !isAdmin(i.Member) {
		return respondEphemeral(a, i, messages.ErrAdministratorOnly)
	}

	count := i.ApplicationCommandData().Options[0].IntValue()
	if count < 1 || count > maxPurgeCount {
		return respondEphemeral(a, i, "❌ Please provide a number between **1 and 100**.")
	}

	msgs, err := a.Session().ChannelMessages(i.ChannelID, int(count), "", "", "")
	if err != nil {
		return fmt.Errorf("error fetching messages: %w", err)
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Pinned {
			continue
		}
		ids = append(ids, m.ID)
	}

	switch len(ids) {
	case 0:
		return respondEphemeral(a, i, "Nothing to delete — all recent messages are pinned.")
	case 1:
		if err := a.Session().ChannelMessageDelete(i.ChannelID, ids[0]); err != nil {
			return fmt.Errorf("error deleting message: %w", err)
		}
	default:
		if err := a.Session().ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
			return fmt.Errorf("error bulk deleting messages: %w", err)
		}
	}

	return respondEphemeral(a, i, fmt.Sprintf("✅ Deleted **%d** message(s).", len(ids)))
}
