package entities

// ResponseAccess controls who is granted access to respond inside a ticket
// of a given category. The ticket owner always has access regardless.
type ResponseAccess struct {
	// SupportOnly grants the support role access.
	SupportOnly bool `json:"support_only"`

	// AdminOnly restricts access to administrators; the support role is
	// never granted access to tickets of such a category.
	AdminOnly bool `json:"admin_only"`
}

// Category is a ticket category. Categories are immutable and registered at
// startup.
type Category struct {
	// ID is the unique identifier used in select menus and ticket records.
	ID string `json:"id"`

	// Label is the display name.
	Label string `json:"label"`

	// Description is the short description shown in select menus.
	Description string `json:"description"`

	// ParentName is the display name of the parent grouping the ticket
	// channels are created under.
	ParentName string `json:"parent_name"`

	// ResponseAccess controls who may respond in tickets of this category.
	ResponseAccess ResponseAccess `json:"response_access"`
}
