// Package interactions types the component custom IDs the bot emits and
// routes on. Discord carries a single opaque string per component; this
// package is the only place that string shape is known, everything else
// works with the tagged Payload.
package interactions

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates component interactions.
type Kind int

const (
	// KindCategorySelect is a ticket-category select menu.
	KindCategorySelect Kind = iota

	// KindClaimTicket is the claim button inside a ticket channel.
	KindClaimTicket

	// KindCloseTicket is the close button inside a ticket channel.
	KindCloseTicket
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindCategorySelect:
		return "category_select"
	case KindClaimTicket:
		return "claim_ticket"
	case KindCloseTicket:
		return "close_ticket"
	}
	return fmt.Sprintf("unknown_kind_(%d)", int(k))
}

const (
	// categorySelectID is the custom ID stem for category select menus.
	categorySelectID = "ticket_category_select"

	// claimButtonID is the custom ID for the claim button.
	claimButtonID = "claim_ticket_button"

	// closeButtonID is the custom ID for the close button.
	closeButtonID = "close_ticket_button"

	// targetSep separates the stem from the target user on per-user panels.
	targetSep = ":"
)

// ErrUnknownComponent is returned when a custom ID does not belong to us.
var ErrUnknownComponent = errors.New("unknown component custom id")

// Payload is a parsed component interaction.
type Payload struct {
	// Kind is the component variant.
	Kind Kind

	// TargetUserID is set on per-user panels; empty means the panel is
	// global and accepts any actor.
	TargetUserID string
}

// NewCategorySelect returns the payload for a category select panel. An empty
// targetUserID makes the panel global.
func NewCategorySelect(targetUserID string) *Payload {
	return &Payload{
		Kind:         KindCategorySelect,
		TargetUserID: targetUserID,
	}
}

// NewClaimTicket returns the payload for a claim button.
func NewClaimTicket() *Payload {
	return &Payload{Kind: KindClaimTicket}
}

// NewCloseTicket returns the payload for a close button.
func NewCloseTicket() *Payload {
	return &Payload{Kind: KindCloseTicket}
}

// Encode renders the payload as a Discord custom ID.
func (p *Payload) Encode() string {
	switch p.Kind {
	case KindCategorySelect:
		if p.TargetUserID == "" {
			return categorySelectID
		}
		return categorySelectID + targetSep + p.TargetUserID
	case KindClaimTicket:
		return claimButtonID
	case KindCloseTicket:
		return closeButtonID
	}
	return ""
}

// Parse decodes a custom ID into a payload. Custom IDs not emitted by this
// package return ErrUnknownComponent; they are never defaulted.
func Parse(customID string) (*Payload, error) {
	switch {
	case customID == claimButtonID:
		return NewClaimTicket(), nil
	case customID == closeButtonID:
		return NewCloseTicket(), nil
	case customID == categorySelectID:
		return NewCategorySelect(""), nil
	case strings.HasPrefix(customID, categorySelectID+targetSep):
		target := strings.TrimPrefix(customID, categorySelectID+targetSep)
		if target == "" {
			return nil, fmt.Errorf("%w: empty target user in %q", ErrUnknownComponent, customID)
		}
		return NewCategorySelect(target), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, customID)
}

// AllowsActor reports whether the actor may use this panel. Global panels
// accept anyone; per-user panels only their target.
func (p *Payload) AllowsActor(actorID string) bool {
	return p.TargetUserID == "" || p.TargetUserID == actorID
}
