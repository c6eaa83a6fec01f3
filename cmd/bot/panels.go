package main

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/categories"
	"github.com/azorva/warden/pkg/interactions"
	"github.com/azorva/warden/pkg/messages"
)

const (
	// SupportCmdName is the command that opens a per-user ticket panel.
	SupportCmdName = "support"

	// PanelCmdName is the command that installs the persistent global panel.
	PanelCmdName = "panel"

	// panelEmbedTitle identifies the persistent panel message so it can be
	// updated in place instead of duplicated.
	panelEmbedTitle = "🎫 Open a Support Ticket"
)

var (
	// supportCmd opens an ephemeral, per-user category selection panel.
	supportCmd = &discordgo.ApplicationCommand{
		Name:        SupportCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Open a support ticket with category selection.",
	}

	// panelCmd sends or updates the persistent ticket panel in a channel.
	panelCmd = &discordgo.ApplicationCommand{
		Name:        PanelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Send or update the persistent ticket panel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "channel",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "The channel to place the panel in.",
				Required:    true,
			},
		},
	}
)

// categorySelectRow builds the select menu listing every registered
// category. An empty targetUserID produces a global panel.
func categorySelectRow(targetUserID string) discordgo.ActionsRow {
	all := categories.All()
	opts := make([]discordgo.SelectMenuOption, 0, len(all))
	for _, c := range all {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       c.Label,
			Value:       c.ID,
			Description: c.Description,
		})
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    interactions.NewCategorySelect(targetUserID).Encode(),
				Placeholder: "Select a category...",
				Options:     opts,
			},
		},
	}
}

func panelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       panelEmbedTitle,
		Description: "Select the category below.\n**Everyone can create any ticket** — response permissions vary by type.",
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Support Team",
		},
	}
}

// supportCmdHandler replies with a category panel only its invoker can use.
func supportCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "🎫 Select Ticket Category",
					Description: "Choose a category below. Anyone can create any ticket — response access varies.",
					Color:       0x5865F2,
				},
			},
			Components: []discordgo.MessageComponent{
				categorySelectRow(i.Member.User.ID),
			},
		},
	})
}

// panelCmdHandler installs the global panel, editing the existing panel
// message in place when one is found.
func panelCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !isAdmin(i.Member) {
		return respondEphemeral(a, i, messages.ErrAdministratorOnly)
	}

	channel := i.ApplicationCommandData().Options[0].ChannelValue(a.Session())
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for the panel.")
	}

	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	existing := findExistingPanel(a, channel.ID)

	row := categorySelectRow("")
	embed := panelEmbed()

	if existing != nil {
		if _, err := a.Session().ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel: channel.ID,
			ID:      existing.ID,
			Embed:   embed,
			Components: []discordgo.MessageComponent{
				row,
			},
		}); err != nil {
			return fmt.Errorf("error updating panel message: %w", err)
		}
		return followUpEphemeral(a, i, fmt.Sprintf("Updated existing ticket panel in <#%s>", channel.ID))
	}

	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			row,
		},
	}); err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}
	return followUpEphemeral(a, i, fmt.Sprintf("Sent new ticket panel to <#%s>", channel.ID))
}

// findExistingPanel scans the channel's recent messages for a panel the bot
// already posted. Best effort; a scan failure just means a fresh panel.
func findExistingPanel(a IApp, channelID string) *discordgo.Message {
	msgs, err := a.Session().ChannelMessages(channelID, 50, "", "", "")
	if err != nil {
		return nil
	}

	botID := a.Session().State.User.ID
	for _, m := range msgs {
		if m.Author == nil || m.Author.ID != botID {
			continue
		}
		for _, e := range m.Embeds {
			if strings.Contains(e.Title, panelEmbedTitle) {
				return m
			}
		}
	}
	return nil
}
