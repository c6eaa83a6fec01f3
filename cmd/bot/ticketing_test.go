package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/categories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketChannelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categoryID string
		username   string
		want       string
	}{
		{
			name:       "simple",
			categoryID: "general-support",
			username:   "Gopher",
			want:       "general-support-gopher",
		},
		{
			name:       "already lowercase",
			categoryID: "role-request",
			username:   "someone",
			want:       "role-request-someone",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, ticketChannelName(test.categoryID, test.username))
		})
	}
}

func TestTicketChannelName_Truncates(t *testing.T) {
	t.Parallel()

	name := ticketChannelName("general-support", strings.Repeat("a", 200))
	assert.Len(t, name, maxChannelNameLen)
}

func TestTicketOverwrites_SupportCategory(t *testing.T) {
	t.Parallel()

	cat, ok := categories.FindByID(categories.GeneralSupport)
	require.True(t, ok)

	overwrites := ticketOverwrites("guild1", "owner1", "bot1", "role1", nil, cat)
	require.Len(t, overwrites, 4)

	// @everyone denied.
	assert.Equal(t, "guild1", overwrites[0].ID)
	assert.Equal(t, int64(discordgo.PermissionAll), overwrites[0].Deny)

	// Owner and bot granted.
	assert.Equal(t, "owner1", overwrites[1].ID)
	assert.Equal(t, int64(discordgo.PermissionAllText), overwrites[1].Allow)
	assert.Equal(t, "bot1", overwrites[2].ID)

	// Support role granted.
	assert.Equal(t, "role1", overwrites[3].ID)
	assert.Equal(t, discordgo.PermissionOverwriteTypeRole, overwrites[3].Type)
}

func TestTicketOverwrites_AdminOnlyExcludesSupportRole(t *testing.T) {
	t.Parallel()

	cat, ok := categories.FindByID(categories.ContactOwners)
	require.True(t, ok)

	overwrites := ticketOverwrites("guild1", "owner1", "bot1", "role1", []string{"admin1", "admin2"}, cat)

	for _, o := range overwrites {
		assert.NotEqual(t, "role1", o.ID, "support role must not be granted on admin-only tickets")
	}

	ids := make([]string, 0, len(overwrites))
	for _, o := range overwrites {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, "admin1")
	assert.Contains(t, ids, "admin2")
	assert.Contains(t, ids, "owner1")
}

func TestTicketOverwrites_AdminOnlySkipsOwnerDuplicate(t *testing.T) {
	t.Parallel()

	cat, ok := categories.FindByID(categories.StaffApplication)
	require.True(t, ok)

	// The ticket owner is also an admin; they must appear exactly once.
	overwrites := ticketOverwrites("guild1", "owner1", "bot1", "", []string{"owner1", "admin1"}, cat)

	seen := 0
	for _, o := range overwrites {
		if o.ID == "owner1" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestTicketOverwrites_NoSupportRoleConfigured(t *testing.T) {
	t.Parallel()

	cat, ok := categories.FindByID(categories.GeneralSupport)
	require.True(t, ok)

	overwrites := ticketOverwrites("guild1", "owner1", "bot1", "", nil, cat)

	// Just @everyone, the owner and the bot.
	assert.Len(t, overwrites, 3)
}

func TestAllGuildMembers_DrainsEveryPage(t *testing.T) {
	t.Parallel()

	fullPage := make([]*discordgo.Member, memberPageSize)
	for idx := range fullPage {
		fullPage[idx] = &discordgo.Member{User: &discordgo.User{ID: fmt.Sprintf("m%d", idx)}}
	}
	lastPage := []*discordgo.Member{
		{User: &discordgo.User{ID: "tail-1"}},
		{User: &discordgo.User{ID: "tail-2"}},
	}

	var cursors []string
	list := func(after string, limit int) ([]*discordgo.Member, error) {
		cursors = append(cursors, after)
		require.Equal(t, memberPageSize, limit)
		if after == "" {
			return fullPage, nil
		}
		return lastPage, nil
	}

	members, err := allGuildMembers(list)
	require.NoError(t, err)

	// A full first page forces a second fetch from the last member seen.
	assert.Len(t, members, memberPageSize+len(lastPage))
	require.Equal(t, []string{"", fullPage[memberPageSize-1].User.ID}, cursors)
	assert.Equal(t, "tail-2", members[len(members)-1].User.ID)
}

func TestAllGuildMembers_ShortPageStops(t *testing.T) {
	t.Parallel()

	calls := 0
	list := func(after string, limit int) ([]*discordgo.Member, error) {
		calls++
		return []*discordgo.Member{{User: &discordgo.User{ID: "only"}}}, nil
	}

	members, err := allGuildMembers(list)
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, 1, calls)
}

func TestAllGuildMembers_PropagatesError(t *testing.T) {
	t.Parallel()

	list := func(after string, limit int) ([]*discordgo.Member, error) {
		return nil, errors.New("boom")
	}

	_, err := allGuildMembers(list)
	require.Error(t, err)
}

func TestCanManageTicket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		member        *discordgo.Member
		supportRoleID string
		want          bool
	}{
		{
			name: "support role holder",
			member: &discordgo.Member{
				Roles: []string{"role1", "role2"},
			},
			supportRoleID: "role2",
			want:          true,
		},
		{
			name: "administrator without role",
			member: &discordgo.Member{
				Permissions: discordgo.PermissionAdministrator,
			},
			supportRoleID: "role1",
			want:          true,
		},
		{
			name: "plain member",
			member: &discordgo.Member{
				Roles: []string{"role3"},
			},
			supportRoleID: "role1",
			want:          false,
		},
		{
			name:          "no support role configured",
			member:        &discordgo.Member{},
			supportRoleID: "",
			want:          false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, canManageTicket(test.member, test.supportRoleID))
		})
	}
}

func TestNewTicketMessage(t *testing.T) {
	t.Parallel()

	support, ok := categories.FindByID(categories.GeneralSupport)
	require.True(t, ok)

	msg := newTicketMessage(support, "owner1", "role1")
	assert.Equal(t, "<@&role1>", msg.Content)
	require.Len(t, msg.Components, 1)

	adminOnly, ok := categories.FindByID(categories.ContactOwners)
	require.True(t, ok)

	msg = newTicketMessage(adminOnly, "owner1", "role1")
	assert.Equal(t, "@here", msg.Content, "admin-only tickets never ping the support role")
}
