package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/messages"
)

const (
	// settingsCmdName is the command for all configuration commands.
	settingsCmdName = "settings"

	// supportRoleCmdName sets the role that handles support tickets.
	supportRoleCmdName = "support_role"

	// announceChannelCmdName sets the channel social reminders post to.
	announceChannelCmdName = "announce_channel"

	// socialsChannelCmdName sets the channel mentioned in social reminders.
	socialsChannelCmdName = "socials_channel"

	// reportsChannelCmdName sets the channel reports are forwarded to.
	reportsChannelCmdName = "reports_channel"

	// socialLinkCmdName sets the social media link.
	socialLinkCmdName = "social_link"

	// channelOptName is the name of the channel option on the channel
	// subcommands.
	channelOptName = "channel"

	// roleOptName is the name of the role option.
	roleOptName = "role"

	// linkOptName is the name of the link option.
	linkOptName = "link"
)

var (
	// settingsCmd is the command for all configuration commands.
	settingsCmd = &discordgo.ApplicationCommand{
		Name:        settingsCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for all configuration commands.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        supportRoleCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the role that handles support tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        roleOptName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "The role you want to handle tickets.",
						Required:    true,
					},
				},
			},
			{
				Name:        announceChannelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel social reminders are posted to.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "The channel to post reminders in.",
						Required:    true,
					},
				},
			},
			{
				Name:        socialsChannelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel mentioned in social reminders.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "The channel holding your social links.",
						Required:    true,
					},
				},
			},
			{
				Name:        reportsChannelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel reports are forwarded to.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "The channel to forward reports to.",
						Required:    true,
					},
				},
			},
			{
				Name:        socialLinkCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the social media link used in reminders.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        linkOptName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The link to push in social reminders.",
						Required:    true,
					},
				},
			},
		},
	}
)

// settingsCmdHandler routes the configuration subcommands. Every subcommand
// is administrator only.
func settingsCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !isAdmin(i.Member) {
		return respondEphemeral(a, i, messages.ErrAdministratorOnly)
	}

	subCmd := i.ApplicationCommandData().Options[0]

	switch subCmd.Name {
	case supportRoleCmdName:
		role := subCmd.Options[0].RoleValue(a.Session(), i.GuildID)
		return setGuildField(a, i, dataaccess.FieldSupportRole, role.ID,
			fmt.Sprintf("Support role set to <@&%s>", role.ID))
	case announceChannelCmdName:
		return setChannelField(a, i, subCmd, dataaccess.FieldAnnounceChannel, "Announcement channel")
	case socialsChannelCmdName:
		return setChannelField(a, i, subCmd, dataaccess.FieldSocialsChannel, "Socials channel")
	case reportsChannelCmdName:
		return setChannelField(a, i, subCmd, dataaccess.FieldReportsChannel, "Reports channel")
	case socialLinkCmdName:
		link := subCmd.Options[0].StringValue()
		return setGuildField(a, i, dataaccess.FieldSocialLink, link,
			fmt.Sprintf("Social link set to %s", link))
	default:
		return fmt.Errorf("unhandled sub command %s", subCmd.Name)
	}
}

// setChannelField validates the channel option and stores its ID.
func setChannelField(a IApp, i *discordgo.InteractionCreate, subCmd *discordgo.ApplicationCommandInteractionDataOption, field, label string) error {
	channel := subCmd.Options[0].ChannelValue(a.Session())
	if channel == nil || (channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews) {
		return respondEphemeral(a, i, "You must provide a text channel.")
	}
	return setGuildField(a, i, field, channel.ID,
		fmt.Sprintf("%s set to <#%s>", label, channel.ID))
}

// setGuildField writes a configuration field and confirms to the invoker.
func setGuildField(a IApp, i *discordgo.InteractionCreate, field, value, confirmation string) error {
	if err := a.GuildDal().SetField(context.Background(), i.GuildID, field, value); err != nil {
		return fmt.Errorf("error setting guild field: %w", err)
	}

	if err := respondEphemeral(a, i, confirmation); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
