package entities

import (
	"github.com/azorva/warden/pkg/custom"
)

// Reminder is a personal reminder set by a user.
type Reminder struct {
	// ID is the reminder's unique ID.
	ID string `json:"id"`

	// GuildID is the guild the reminder was set in.
	GuildID string `json:"guild_id"`

	// UserID is the user to remind.
	UserID string `json:"user_id"`

	// ChannelID is the fallback channel if the user's DMs are closed.
	ChannelID string `json:"channel_id"`

	// Task is what to remind the user about.
	Task string `json:"task"`

	// DueAt is when the reminder fires.
	DueAt custom.Datetime `json:"due_at"`
}
