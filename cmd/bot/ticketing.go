package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/cmd/bot/monitoring"
	"github.com/azorva/warden/pkg/categories"
	"github.com/azorva/warden/pkg/custom"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/entities"
	"github.com/azorva/warden/pkg/interactions"
	"github.com/azorva/warden/pkg/logging"
	"github.com/azorva/warden/pkg/messages"
)

const (
	// ClaimEmoji is the emoji that will be used for the claim button. (Ticket)
	ClaimEmoji = "\U0001F3AB"

	// CloseEmoji is the emoji that will be used for the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// supportRoleName is the name the support role is created under on first use.
	supportRoleName = "Support"

	// ticketGraceDelay is how long a closure announcement stays visible
	// before the channel is deleted.
	ticketGraceDelay = 5 * time.Second

	// maxChannelNameLen is the platform's channel name limit.
	maxChannelNameLen = 99
)

// ticketChannelName builds the channel name for a new ticket.
func ticketChannelName(categoryID, username string) string {
	name := fmt.Sprintf("%s-%s", categoryID, strings.ToLower(username))
	if len(name) > maxChannelNameLen {
		name = name[:maxChannelNameLen]
	}
	return name
}

// ticketOverwrites computes the permission overwrites for a new ticket
// channel. The owner and the bot always have access; the support role is
// granted access unless the category is admin-only, in which case the given
// administrator snapshot is granted instead. Later-promoted admins do not
// retroactively gain access.
func ticketOverwrites(guildID, ownerID, botID, supportRoleID string, adminIDs []string, cat *entities.Category) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:    guildID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: 0,
			Deny:  discordgo.PermissionAll,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    ownerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		},
		// The bot needs access to post the welcome message and controls.
		{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  0,
		},
	}

	if cat.ResponseAccess.AdminOnly {
		for _, id := range adminIDs {
			if id == ownerID || id == botID {
				continue
			}
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    id,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionAllText,
				Deny:  discordgo.PermissionMentionEveryone,
			})
		}
		return overwrites
	}

	if supportRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    supportRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		})
	}
	return overwrites
}

// newTicketMessage builds the welcome message posted inside a fresh ticket
// channel, carrying the claim and close controls.
func newTicketMessage(cat *entities.Category, ownerID, supportRoleID string) *discordgo.MessageSend {
	mention := "@here"
	if supportRoleID != "" && !cat.ResponseAccess.AdminOnly {
		mention = fmt.Sprintf("<@&%s>", supportRoleID)
	}

	return &discordgo.MessageSend{
		Content: mention,
		Embed: &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s Ticket", cat.Label),
			Description: fmt.Sprintf("Hello <@%s>,\nA team member will be with you shortly.\n\n**Category:** %s", ownerID, cat.Label),
			Color:       0x5865F2,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Thank you for your patience!",
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Claim", ClaimEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: interactions.NewClaimTicket().Encode(),
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Close", CloseEmoji),
						Style:    discordgo.SecondaryButton,
						CustomID: interactions.NewCloseTicket().Encode(),
					},
				},
			},
		},
	}
}

// categorySelectHandler creates a ticket from a category selection.
func categorySelectHandler(a IApp, i *discordgo.InteractionCreate, p *interactions.Payload) error {
	actor := i.Member.User

	if !p.AllowsActor(actor.ID) {
		return respondEphemeral(a, i, messages.ErrPanelNotForYou)
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(a, i, messages.ErrInvalidCategory)
	}

	cat, ok := categories.FindByID(values[0])
	if !ok {
		// Never default an unknown category.
		return respondEphemeral(a, i, messages.ErrInvalidCategory)
	}

	// Provisioning can take several round trips, so acknowledge now and
	// follow up when the channel exists.
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	// From here on, this handler owns the single follow-up: failures are
	// reported to the user directly rather than bubbled to the boundary.
	channel, err := provisionTicket(a, i, cat)
	if err != nil {
		a.Log().Error("Error provisioning ticket",
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, actor.ID),
			slog.String(logging.KeyError, err.Error()))
		return followUpEphemeral(a, i, messages.ErrTicketCreationFailed)
	}

	monitoring.TotalTicketsCreated.WithLabelValues(cat.ID).Inc()

	return followUpEphemeral(a, i, fmt.Sprintf("Your ticket has been created: <#%s> — please check there.", channel.ID))
}

// provisionTicket performs the full resource-allocation sequence for a new
// ticket. A failure before channel creation aborts cleanly; a failure after
// leaves the channel in place, which is accepted rather than cleaned up.
func provisionTicket(a IApp, i *discordgo.InteractionCreate, cat *entities.Category) (*discordgo.Channel, error) {
	ctx := context.Background()
	actor := i.Member.User

	supportRoleID := ""
	if !cat.ResponseAccess.AdminOnly {
		var err error
		supportRoleID, err = ensureSupportRole(ctx, a, i.GuildID)
		if err != nil {
			return nil, fmt.Errorf("error ensuring support role: %w", err)
		}
	}

	parentID, err := ensureTicketParent(a, i.GuildID, cat)
	if err != nil {
		return nil, fmt.Errorf("error ensuring ticket parent: %w", err)
	}

	var adminIDs []string
	if cat.ResponseAccess.AdminOnly {
		adminIDs, err = adminMemberIDs(a, i.GuildID)
		if err != nil {
			return nil, fmt.Errorf("error enumerating administrators: %w", err)
		}
	}

	botID := a.Session().State.User.ID

	channel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticketChannelName(cat.ID, actor.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket for %s | Category: %s", actor.Username, cat.Label),
		PermissionOverwrites: ticketOverwrites(i.GuildID, actor.ID, botID, supportRoleID, adminIDs, cat),
		ParentID:             parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket := &entities.Ticket{
		ChannelID:     channel.ID,
		GuildID:       i.GuildID,
		OwnerID:       actor.ID,
		OwnerUsername: actor.Username,
		CategoryID:    cat.ID,
		Status:        entities.TicketStatusOpen,
		CreatedAt:     custom.Datetime(time.Now().UTC()),
	}

	if err := a.TicketDal().SaveTicket(ctx, ticket); err != nil {
		// The channel already exists; leaving it without a record is the
		// accepted partial-failure mode.
		return nil, fmt.Errorf("error saving ticket record: %w", err)
	}

	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, newTicketMessage(cat, actor.ID, supportRoleID)); err != nil {
		a.Log().Error("Error sending welcome message",
			slog.String(logging.KeyChannelID, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	return channel, nil
}

// ensureSupportRole returns the configured support role, creating it on
// first use. The lookup-then-create by name is not race-free: two
// simultaneous first tickets can both miss the lookup and create duplicate
// roles. A single gateway event stream makes the window one in-flight
// handler, so this is tolerated rather than locked.
func ensureSupportRole(ctx context.Context, a IApp, guildID string) (string, error) {
	cfg, err := a.GuildDal().GetConfig(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("error getting guild configuration: %w", err)
	}

	roles, err := a.Session().GuildRoles(guildID)
	if err != nil {
		return "", fmt.Errorf("error listing roles: %w", err)
	}

	if cfg.SupportRoleID != "" {
		for _, r := range roles {
			if r.ID == cfg.SupportRoleID {
				return r.ID, nil
			}
		}
		a.Log().Warn("Configured support role no longer exists, re-provisioning",
			slog.String(logging.KeyGuildID, guildID))
	}

	// Reuse an existing role by name before creating one.
	for _, r := range roles {
		if r.Name == supportRoleName {
			if err := a.GuildDal().SetField(ctx, guildID, dataaccess.FieldSupportRole, r.ID); err != nil {
				return "", fmt.Errorf("error saving support role: %w", err)
			}
			return r.ID, nil
		}
	}

	perms := int64(discordgo.PermissionAllText)
	color := 0x5865F2
	role, err := a.Session().GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        supportRoleName,
		Color:       &color,
		Permissions: &perms,
	})
	if err != nil {
		return "", fmt.Errorf("error creating support role: %w", err)
	}

	a.Log().Info("Created support role", slog.String(logging.KeyGuildID, guildID))

	if err := a.GuildDal().SetField(ctx, guildID, dataaccess.FieldSupportRole, role.ID); err != nil {
		return "", fmt.Errorf("error saving support role: %w", err)
	}
	return role.ID, nil
}

// ensureTicketParent finds the category container channel tickets of this
// category live under, creating it on first use. Same lookup-then-create
// caveat as ensureSupportRole.
func ensureTicketParent(a IApp, guildID string, cat *entities.Category) (string, error) {
	channels, err := a.Session().GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("error listing channels: %w", err)
	}

	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildCategory && c.Name == cat.ParentName {
			return c.ID, nil
		}
	}

	a.Log().Warn("Ticket parent category does not exist, creating it now",
		slog.String(logging.KeyGuildID, guildID))

	parent, err := a.Session().GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: cat.ParentName,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			// Deny @everyone; per-ticket overwrites grant access.
			{
				ID:    guildID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: 0,
				Deny:  discordgo.PermissionAll,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating parent category: %w", err)
	}
	return parent.ID, nil
}

// memberLister returns one page of guild members starting after the given
// member ID.
type memberLister func(after string, limit int) ([]*discordgo.Member, error)

// memberPageSize is the API's maximum page size for member listing.
const memberPageSize = 1000

// allGuildMembers drains the member list page by page. A short page marks
// the end of the list.
func allGuildMembers(list memberLister) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := list(after, memberPageSize)
		if err != nil {
			return nil, fmt.Errorf("error listing members after %q: %w", after, err)
		}
		all = append(all, page...)
		if len(page) < memberPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// adminMemberIDs snapshots the members currently holding administrator
// permission. The snapshot is taken at ticket creation; later promotions do
// not retroactively gain access to existing tickets.
func adminMemberIDs(a IApp, guildID string) ([]string, error) {
	guild, err := a.Session().Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}

	roles, err := a.Session().GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}

	adminRoles := make(map[string]struct{})
	for _, r := range roles {
		if r.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator {
			adminRoles[r.ID] = struct{}{}
		}
	}

	members, err := allGuildMembers(func(after string, limit int) ([]*discordgo.Member, error) {
		return a.Session().GuildMembers(guildID, after, limit)
	})
	if err != nil {
		return nil, err
	}

	ids := []string{guild.OwnerID}
	for _, m := range members {
		if m.User == nil || m.User.ID == guild.OwnerID {
			continue
		}
		for _, r := range m.Roles {
			if _, ok := adminRoles[r]; ok {
				ids = append(ids, m.User.ID)
				break
			}
		}
	}
	return ids, nil
}

// canManageTicket applies the single ticket-management authorization policy:
// support role or administrator. Used for both claim and close.
func canManageTicket(member *discordgo.Member, supportRoleID string) bool {
	return hasRole(member, supportRoleID) || isAdmin(member)
}

// claimTicketHandler claims the ticket backing the channel the button lives in.
func claimTicketHandler(a IApp, i *discordgo.InteractionCreate, _ *interactions.Payload) error {
	ctx := context.Background()

	ticket, err := a.TicketDal().GetTicket(ctx, i.ChannelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return fmt.Errorf("error getting ticket: %w", err)
	}

	cfg, err := a.GuildDal().GetConfig(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}

	if !canManageTicket(i.Member, cfg.SupportRoleID) {
		return respondEphemeral(a, i, messages.ErrUnauthorizedTicket)
	}

	actor := i.Member.User

	// A closed ticket rejects claims with no claimant recorded, so it must
	// be recognized before blaming an existing claimant.
	if ticket.Status == entities.TicketStatusClosed {
		return respondEphemeral(a, i, "This ticket is already closed.")
	}

	if !ticket.Claim(actor.ID) {
		// Re-claiming is a no-op; tell the actor who holds it.
		if ticket.ClaimedBy == actor.ID {
			return respondEphemeral(a, i, "You have already claimed this ticket.")
		}
		return respondEphemeral(a, i, fmt.Sprintf("This ticket is already claimed by <@%s>.", ticket.ClaimedBy))
	}

	if err := a.TicketDal().SaveTicket(ctx, ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	// Announce the claim to the channel.
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has claimed this ticket.", actor.ID),
		},
	})
}

// closeTicketHandler closes the ticket and schedules the channel for
// deletion after a short grace delay so the announcement stays visible.
func closeTicketHandler(a IApp, i *discordgo.InteractionCreate, _ *interactions.Payload) error {
	ctx := context.Background()

	ticket, err := a.TicketDal().GetTicket(ctx, i.ChannelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			// Also the path taken when close fires twice: the record is
			// tombstoned with the channel.
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return fmt.Errorf("error getting ticket: %w", err)
	}

	cfg, err := a.GuildDal().GetConfig(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}

	if !canManageTicket(i.Member, cfg.SupportRoleID) {
		return respondEphemeral(a, i, messages.ErrUnauthorizedTicket)
	}

	if ticket.Status == entities.TicketStatusClosed {
		return respondEphemeral(a, i, "This ticket is already closed.")
	}

	// Best-effort transcript; closure never waits on it.
	go captureTranscript(a, ticket, cfg.ReportsChannelID)

	ticket.Close()
	if err := a.TicketDal().SaveTicket(ctx, ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	actor := i.Member.User

	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has closed this ticket. This channel will be deleted shortly.", actor.ID),
		},
	}); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	time.AfterFunc(ticketGraceDelay, func() {
		if _, err := a.Session().ChannelDelete(ticket.ChannelID); err != nil {
			// Not retried; the ticket stays closed either way.
			a.Log().Error("Error deleting ticket channel",
				slog.String(logging.KeyChannelID, ticket.ChannelID),
				slog.String(logging.KeyError, err.Error()))
		}
		if err := a.TicketDal().DeleteTicket(context.Background(), ticket.ChannelID); err != nil {
			a.Log().Error("Error deleting ticket record",
				slog.String(logging.KeyChannelID, ticket.ChannelID),
				slog.String(logging.KeyError, err.Error()))
		}
	})
	return nil
}

// captureTranscript copies the tail of the ticket channel into the reports
// channel. Best effort: any failure is logged and never affects closure.
func captureTranscript(a IApp, ticket *entities.Ticket, reportsChannelID string) {
	if reportsChannelID == "" {
		return
	}

	msgs, err := a.Session().ChannelMessages(ticket.ChannelID, 100, "", "", "")
	if err != nil {
		a.Log().Error("Error fetching ticket transcript",
			slog.String(logging.KeyChannelID, ticket.ChannelID),
			slog.String(logging.KeyError, err.Error()))
		return
	}

	var sb strings.Builder
	// Messages arrive newest first.
	for idx := len(msgs) - 1; idx >= 0; idx-- {
		m := msgs[idx]
		sb.WriteString(fmt.Sprintf("[%s] %s\n", m.Author.Username, m.Content))
	}

	transcript := sb.String()
	if len(transcript) > 3900 {
		transcript = transcript[len(transcript)-3900:]
	}
	if transcript == "" {
		transcript = "(no messages)"
	}

	if _, err := a.Session().ChannelMessageSendEmbed(reportsChannelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Transcript: %s", ticketChannelName(ticket.CategoryID, ticket.OwnerUsername)),
		Description: transcript,
		Color:       0x5865F2,
	}); err != nil {
		a.Log().Error("Error posting transcript",
			slog.String(logging.KeyChannelID, reportsChannelID),
			slog.String(logging.KeyError, err.Error()))
	}
}
