package categories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindByID(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		wantFound     bool
		wantLabel     string
		wantAdminOnly bool
	}{
		{
			name:      "GeneralSupport",
			id:        GeneralSupport,
			wantFound: true,
			wantLabel: "General Support",
		},
		{
			name:          "ContactOwnersIsAdminOnly",
			id:            ContactOwners,
			wantFound:     true,
			wantLabel:     "Contact Owners",
			wantAdminOnly: true,
		},
		{
			name:          "StaffApplicationIsAdminOnly",
			id:            StaffApplication,
			wantFound:     true,
			wantLabel:     "Staff Application",
			wantAdminOnly: true,
		},
		{
			name:      "Unknown",
			id:        "billing",
			wantFound: false,
		},
		{
			name:      "EmptyID",
			id:        "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindByID(tt.id)
			require.Equal(t, tt.wantFound, ok)
			if !tt.wantFound {
				require.Nil(t, got)
				return
			}
			require.Equal(t, tt.wantLabel, got.Label)
			require.Equal(t, tt.wantAdminOnly, got.ResponseAccess.AdminOnly)
		})
	}
}

func TestAll_MatchesRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	for _, c := range all {
		got, ok := FindByID(c.ID)
		require.True(t, ok)
		require.Equal(t, c, got)

		// Admin-only categories must never also be support-only.
		if c.ResponseAccess.AdminOnly {
			require.False(t, c.ResponseAccess.SupportOnly)
		}
	}
}
