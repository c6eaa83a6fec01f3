package entities

import (
	"github.com/azorva/warden/pkg/custom"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	// TicketStatusOpen is a ticket that has been created and not yet claimed.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClaimed is a ticket a staff member has taken on.
	TicketStatusClaimed TicketStatus = "claimed"

	// TicketStatusClosed is a terminal state; the channel is reclaimed shortly after.
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is a ticket. The channel it lives in backs its identity; the record
// is persisted in the store keyed by the channel ID.
type Ticket struct {
	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id"`

	// OwnerID is the ID of the user that created the ticket.
	OwnerID string `json:"owner_id"`

	// OwnerUsername is the username of the user that created the ticket.
	OwnerUsername string `json:"owner_username"`

	// CategoryID is the ID of the category the ticket was created under.
	CategoryID string `json:"category_id"`

	// ClaimedBy is the ID of the user that claimed the ticket.
	ClaimedBy string `json:"claimed_by"`

	// Status is the lifecycle state of the ticket.
	Status TicketStatus `json:"status"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at"`
}

// Claim records the claimant. It reports whether the claim took effect; a
// ticket that already has a claimant keeps it, so a second claim is a no-op.
func (t *Ticket) Claim(userID string) bool {
	if t.Status == TicketStatusClosed {
		return false
	}
	if t.ClaimedBy != "" {
		return false
	}
	t.ClaimedBy = userID
	t.Status = TicketStatusClaimed
	return true
}

// Close marks the ticket closed. Closed is terminal.
func (t *Ticket) Close() {
	t.Status = TicketStatusClosed
}
