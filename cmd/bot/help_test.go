package main

import (
	"strings"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpEmbed_ListsEveryRegisteredCommand(t *testing.T) {
	t.Parallel()

	embed := helpEmbed()
	require.NotEmpty(t, embed.Fields)

	var all strings.Builder
	for _, f := range embed.Fields {
		all.WriteString(f.Value)
	}

	for _, cmd := range registeredCommands {
		if cmd == helpCmd {
			// The listing does not list itself.
			continue
		}
		assert.Contains(t, all.String(), "**/"+cmd.Name+"**")
		assert.Contains(t, all.String(), cmd.Description)
	}
}

func TestHelpGroups_NoCommandListedTwice(t *testing.T) {
	t.Parallel()

	seen := make(map[string]string)
	for _, g := range helpGroups() {
		require.NotEmpty(t, g.commands, "group %s is empty", g.label)
		for _, cmd := range g.commands {
			prev, dup := seen[cmd.Name]
			assert.False(t, dup, "command %s listed in both %s and %s", cmd.Name, prev, g.label)
			seen[cmd.Name] = g.label
		}
	}
}

func TestHelpGroups_OnlyRegisteredCommands(t *testing.T) {
	t.Parallel()

	registered := make(map[*discordgo.ApplicationCommand]struct{}, len(registeredCommands))
	for _, cmd := range registeredCommands {
		registered[cmd] = struct{}{}
	}

	for _, g := range helpGroups() {
		for _, cmd := range g.commands {
			_, ok := registered[cmd]
			assert.True(t, ok, "command %s in group %s is not registered", cmd.Name, g.label)
		}
	}
}
