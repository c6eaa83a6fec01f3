package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/kvstore"
	"github.com/azorva/warden/pkg/logging"
	"github.com/azorva/warden/pkg/messages"
)

// respondError sends the failure reply for the given handler error. Store
// outages get their own message; everything else gets the generic one. If
// the interaction was already acknowledged (e.g. deferred before the
// failure), a follow-up is attempted instead; the two paths together
// guarantee exactly one terminal response without ever double-acknowledging.
func respondError(a IApp, i *discordgo.InteractionCreate, cause error) {
	content := messages.ErrUserErrorProcessing
	if errors.Is(cause, kvstore.ErrStoreUnavailable) {
		content = messages.ErrStoreDegraded
	}

	if err := respondEphemeral(a, i, content); err == nil {
		return
	}

	if _, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		a.Log().Error("Error sending fallback error response", slog.String(logging.KeyError, err.Error()))
	}
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// deferEphemeral acknowledges the interaction immediately so slow
// provisioning work can follow up later without hitting the platform's
// acknowledgment deadline.
func deferEphemeral(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// followUpEphemeral completes a deferred interaction.
func followUpEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	if _, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		return fmt.Errorf("error sending follow up: %w", err)
	}
	return nil
}

// hasRole reports whether the member holds the given role.
func hasRole(member *discordgo.Member, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// isAdmin reports whether the member has administrator permission.
func isAdmin(member *discordgo.Member) bool {
	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}
