// Package messages holds the user-visible reply strings so handlers stay
// consistent about wording.
package messages

const (
	// ErrUserErrorProcessing is the generic failure reply.
	ErrUserErrorProcessing = "There was an error while processing your request. Please try again later."

	// ErrPanelNotForYou is sent when a per-user panel is used by someone else.
	ErrPanelNotForYou = "This panel is not for you."

	// ErrInvalidCategory is sent when a selection carries an unknown category.
	ErrInvalidCategory = "Invalid category selected."

	// ErrNotATicket is sent when a ticket control is used outside a ticket channel.
	ErrNotATicket = "This channel is not an open ticket."

	// ErrUnauthorizedTicket is sent when the actor lacks the support role and
	// administrator permission.
	ErrUnauthorizedTicket = "You need the support role or administrator permission to do that."

	// ErrAdministratorOnly is sent when a command requires administrator permission.
	ErrAdministratorOnly = "You must be an administrator to use this command."

	// ErrTicketCreationFailed is sent when provisioning a ticket fails.
	ErrTicketCreationFailed = "Failed to create your ticket. Please contact staff."

	// ErrStoreDegraded is sent when the persistence service is unreachable.
	ErrStoreDegraded = "The configuration store is currently unreachable. Please try again shortly."
)
