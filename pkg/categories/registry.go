// Package categories holds the static ticket category registry. Categories
// are compiled in; there is no runtime mutation.
package categories

import (
	"github.com/azorva/warden/pkg/entities"
)

// Category IDs.
const (
	GeneralSupport   = "general-support"
	RoleRequest      = "role-request"
	OrgRoleCreation  = "org-role-creation"
	ContactOwners    = "contact-owners"
	StaffApplication = "staff-application"
)

// registered is the closed list of ticket categories, in display order.
var registered = []*entities.Category{
	{
		ID:          GeneralSupport,
		Label:       "General Support",
		Description: "Any reports, general inquiries or questions.",
		ParentName:  "🎫・General Support",
		ResponseAccess: entities.ResponseAccess{
			SupportOnly: true,
		},
	},
	{
		ID:          RoleRequest,
		Label:       "Role Request",
		Description: "Request a Role",
		ParentName:  "🎫・Role Requests",
		ResponseAccess: entities.ResponseAccess{
			SupportOnly: true,
		},
	},
	{
		ID:          OrgRoleCreation,
		Label:       "Org Role Creation",
		Description: "Create a role for your organization/business.",
		ParentName:  "🎫・Org Roles",
		ResponseAccess: entities.ResponseAccess{
			SupportOnly: true,
		},
	},
	{
		ID:          ContactOwners,
		Label:       "Contact Owners",
		Description: "Important Matters, Investments or Collaborations / Sponsors.",
		ParentName:  "🎫・Owner Contact",
		ResponseAccess: entities.ResponseAccess{
			AdminOnly: true,
		},
	},
	{
		ID:          StaffApplication,
		Label:       "Staff Application",
		Description: "Applying for staff or management.",
		ParentName:  "🎫・Staff Applications",
		ResponseAccess: entities.ResponseAccess{
			AdminOnly: true,
		},
	},
}

// byID indexes the registered categories by their unique ID.
var byID = func() map[string]*entities.Category {
	m := make(map[string]*entities.Category, len(registered))
	for _, c := range registered {
		m[c.ID] = c
	}
	return m
}()

// FindByID returns the category for the given ID. An unknown ID reports
// false; callers must never default it.
func FindByID(id string) (*entities.Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// All returns the registered categories in display order.
func All() []*entities.Category {
	out := make([]*entities.Category, len(registered))
	copy(out, registered)
	return out
}
