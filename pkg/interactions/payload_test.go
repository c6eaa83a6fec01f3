package interactions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     *Payload
		wantErr  bool
	}{
		{
			name:     "GlobalPanel",
			customID: "ticket_category_select",
			want:     &Payload{Kind: KindCategorySelect},
		},
		{
			name:     "PerUserPanel",
			customID: "ticket_category_select:12345",
			want:     &Payload{Kind: KindCategorySelect, TargetUserID: "12345"},
		},
		{
			name:     "ClaimButton",
			customID: "claim_ticket_button",
			want:     &Payload{Kind: KindClaimTicket},
		},
		{
			name:     "CloseButton",
			customID: "close_ticket_button",
			want:     &Payload{Kind: KindCloseTicket},
		},
		{
			name:     "ForeignComponent",
			customID: "help_menu",
			wantErr:  true,
		},
		{
			name:     "EmptyTarget",
			customID: "ticket_category_select:",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.customID)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownComponent)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			// Encoding the parsed payload must reproduce the custom ID.
			require.Equal(t, tt.customID, got.Encode())
		})
	}
}

func TestPayload_AllowsActor(t *testing.T) {
	tests := []struct {
		name    string
		payload *Payload
		actorID string
		want    bool
	}{
		{
			name:    "GlobalPanelAcceptsAnyone",
			payload: NewCategorySelect(""),
			actorID: "999",
			want:    true,
		},
		{
			name:    "PerUserPanelAcceptsTarget",
			payload: NewCategorySelect("12345"),
			actorID: "12345",
			want:    true,
		},
		{
			name:    "PerUserPanelRejectsOthers",
			payload: NewCategorySelect("12345"),
			actorID: "999",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.payload.AllowsActor(tt.actorID))
		})
	}
}
