package main

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
)

// helpCmdName lists every command grouped by category.
const helpCmdName = "help"

var helpCmd = &discordgo.ApplicationCommand{
	Name:        helpCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "📘 View all commands with categories.",
}

// commandGroup is a display grouping of related commands.
type commandGroup struct {
	label    string
	commands []*discordgo.ApplicationCommand
}

// helpGroups returns the command groups in display order. The help command
// itself is not listed.
func helpGroups() []commandGroup {
	return []commandGroup{
		{
			label:    "Tickets",
			commands: []*discordgo.ApplicationCommand{supportCmd, panelCmd},
		},
		{
			label:    "Info",
			commands: []*discordgo.ApplicationCommand{rulesCmd, faqCmd, linksCmd},
		},
		{
			label:    "Moderation",
			commands: []*discordgo.ApplicationCommand{reportCmd, purgeCmd},
		},
		{
			label:    "Personal",
			commands: []*discordgo.ApplicationCommand{remindMeCmd},
		},
		{
			label:    "Admin",
			commands: []*discordgo.ApplicationCommand{settingsCmd},
		},
	}
}

// helpEmbed renders every group as an embed field of "/name — description"
// lines.
func helpEmbed() *discordgo.MessageEmbed {
	groups := helpGroups()
	fields := make([]*discordgo.MessageEmbedField, 0, len(groups))
	for _, g := range groups {
		var sb strings.Builder
		for _, cmd := range g.commands {
			sb.WriteString(fmt.Sprintf("**/%s** — %s\n", cmd.Name, cmd.Description))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  g.label,
			Value: sb.String(),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "📚 Command Help Center",
		Description: "All commands, grouped by category.",
		Color:       0x5865F2,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /command_name to execute any command",
		},
	}
}

// helpCmdHandler replies with the command listing, visible only to the invoker.
func helpCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{helpEmbed()},
		},
	})
}
