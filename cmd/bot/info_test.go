package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesEmbeds_DefaultDocument(t *testing.T) {
	t.Parallel()

	embeds := rulesEmbeds(defaultRulesText)
	require.NotEmpty(t, embeds)
	assert.LessOrEqual(t, len(embeds), maxRulesEmbeds)

	// First page carries the intro and the first section.
	assert.Equal(t, "📜 Server Rules & Guidelines", embeds[0].Title)
	assert.Contains(t, embeds[0].Description, "Be Respectful")

	// Every embed stays within the platform description limit.
	for _, e := range embeds {
		assert.LessOrEqual(t, len(e.Description), 4096)
	}
}

func TestRulesEmbeds_SingleSection(t *testing.T) {
	t.Parallel()

	embeds := rulesEmbeds("Just one rule: be nice.")
	require.Len(t, embeds, 1)
	assert.Contains(t, embeds[0].Description, "be nice")
}
