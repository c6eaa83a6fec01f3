package main

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/logging"
)

const (
	// rulesCmdName shows the server guidelines.
	rulesCmdName = "rules"

	// faqCmdName answers common questions.
	faqCmdName = "faq"

	// linksCmdName shows quick links including social media.
	linksCmdName = "links"

	// maxRulesEmbeds is the platform limit on embeds per message.
	maxRulesEmbeds = 10
)

var (
	rulesCmd = &discordgo.ApplicationCommand{
		Name:        rulesCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "📜 Shows server guidelines.",
	}

	faqCmd = &discordgo.ApplicationCommand{
		Name:        faqCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "❓ Answers common questions.",
	}

	linksCmd = &discordgo.ApplicationCommand{
		Name:        linksCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "🔗 Shows quick links including our social media.",
	}

	// rulesSectionPattern splits the stored rules text into embed-sized
	// sections.
	rulesSectionPattern = regexp.MustCompile(`---\s*\n###`)
)

// defaultRulesText is seeded into the store the first time a guild asks for
// the rules, so admins have a concrete document to edit.
const defaultRulesText = "**📜 Server Rules & Guidelines**\n\n" +
	"Welcome! To keep this community safe and enjoyable for everyone, please follow these rules. Violations may result in warnings, mutes, kicks, or bans. Use `/report` to notify staff of issues.\n\n" +
	"---\n" +
	"### 1. ✨ Be Respectful & Kind\n" +
	"- Treat everyone with dignity — no harassment, hate speech, discrimination, or toxicity.\n" +
	"- No drama or heated public arguments — take it to DMs or use the ticket system.\n" +
	"- Do not attempt to poach members or mass kick users.\n\n" +
	"---\n" +
	"### 2. 🚫 No Spam or Disruptive Behavior\n" +
	"- Do not flood chats, rapidly send messages, overuse caps/emojis, or spam mentions.\n" +
	"- Do not abuse bots — including bypassing filters or misusing commands.\n" +
	"- Use the ticket system to contact staff for support — don't spam channels or DMs.\n\n" +
	"---\n" +
	"### 3. 🔞 Keep It SFW & Private\n" +
	"- All content must be Safe For Work — no NSFW images, links, or discussions.\n" +
	"- Never share personal information — yours or others'. Violation = permanent ban.\n" +
	"- This applies to DMs too — do not privately harass or doxx members.\n\n" +
	"---\n" +
	"### 4. 📢 No Advertising or Self-Promotion\n" +
	"- Do not advertise other servers, products, services, or content — including in DMs.\n" +
	"- Found someone DM-advertising? Screenshot it and report to staff immediately.\n\n" +
	"---\n" +
	"### 5. 🎯 Stay On-Topic & Use Channels Properly\n" +
	"- Channel names indicate their purpose — keep discussions relevant.\n" +
	"- Off-topic posts may be removed; repeated violations may be moderated.\n\n" +
	"---\n" +
	"### 6. 🎧 Voice Chat Rules\n" +
	"- No excessively loud noises, screeching, or disruptive audio.\n" +
	"- Music bots must not play offensive, discriminatory, or mature content.\n\n" +
	"---\n" +
	"### 7. ⚖️ Follow Platform Terms\n" +
	"- You agree to follow Discord's Terms of Service and Community Guidelines.\n" +
	"- Do not discuss buying/selling/trading game accounts, exploits, or hacks.\n\n" +
	"---\n" +
	"### 8. 🚨 Reporting & Enforcement\n" +
	"- Only submit legitimate reports — fake or frivolous reports may result in punishment.\n" +
	"- Staff decisions are final. Repeated or severe violations = escalated penalties.\n\n" +
	"Thank you for helping us maintain a positive, safe, and fun community! 🙏"

// rulesCmdHandler shows the guild's rules as a paginated set of embeds. The
// reply is deferred because a cold guild needs a store round trip to seed
// the default text.
func rulesCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	rules, err := rulesText(a, i.GuildID)
	if err != nil {
		a.Log().Error("Error loading rules",
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyError, err.Error()))

		content := "❌ Could not load rules. Please try again later."
		if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		}); err != nil {
			return fmt.Errorf("error editing interaction response: %w", err)
		}
		return nil
	}

	embeds := rulesEmbeds(rules)
	if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}); err != nil {
		return fmt.Errorf("error editing interaction response: %w", err)
	}
	return nil
}

// rulesText reads the guild's rules, seeding the default document on first
// use so later edits have a base to work from.
func rulesText(a IApp, guildID string) (string, error) {
	ctx := context.Background()

	rules, found, err := a.GuildDal().GetField(ctx, guildID, dataaccess.FieldRulesText)
	if err != nil {
		return "", fmt.Errorf("error reading rules text: %w", err)
	}
	if found && strings.TrimSpace(rules) != "" {
		return rules, nil
	}

	if err := a.GuildDal().SetField(ctx, guildID, dataaccess.FieldRulesText, defaultRulesText); err != nil {
		return "", fmt.Errorf("error seeding rules text: %w", err)
	}
	return defaultRulesText, nil
}

// rulesEmbeds splits the rules document into one embed per section, capped
// at the platform's embed limit.
func rulesEmbeds(rules string) []*discordgo.MessageEmbed {
	sections := rulesSectionPattern.Split(rules, -1)
	for idx := range sections {
		sections[idx] = strings.TrimSpace(sections[idx])
	}

	intro := sections[0]
	rest := sections[1:]
	total := len(rest)
	if total == 0 {
		total = 1
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(sections))
	first := &discordgo.MessageEmbed{
		Title:       "📜 Server Rules & Guidelines",
		Description: intro,
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page 1/%d — Use /report for issues", total),
		},
	}
	if len(rest) > 0 {
		first.Description = fmt.Sprintf("%s\n\n### %s", intro, rest[0])
	}
	embeds = append(embeds, first)

	for idx, section := range rest {
		if idx == 0 {
			continue
		}
		pageNum := idx + 1
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("📜 Section %d/%d", pageNum, total),
			Description: fmt.Sprintf("### %s", section),
			Color:       0x5865F2,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d", pageNum, total),
			},
		})
	}

	if len(embeds) > maxRulesEmbeds {
		embeds = embeds[:maxRulesEmbeds]
	}
	return embeds
}

// faqCmdHandler posts the FAQ publicly in the invoking channel.
func faqCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	faq := "**Frequently Asked Questions** ❓\n\n" +
		"**Q: How do I get roles?**\nA: React to the role messages or ask staff.\n\n" +
		"**Q: How do I contact staff?**\nA: Use `/support` to open a ticket.\n\n" +
		"**Q: How do I submit suggestions or reports?**\nA: Use `/report` to notify staff privately.\n\n" +
		"**Q: Where can I find our social links?**\nA: Use `/links`.\n\n" +
		"**Q: How do I set a reminder?**\nA: Use `/remindme` with a time like `10m` or `2h`."

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: faq,
		},
	})
}

// linksCmdHandler posts the guild's quick links publicly, falling back to
// the default social link for unconfigured guilds.
func linksCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := a.GuildDal().GetConfig(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error reading guild configuration: %w", err)
	}

	content := fmt.Sprintf("🔗 **Quick Links**\n\n🐦 **Follow us on X**: %s\n", cfg.SocialLink)
	if cfg.SocialsChannelID != "" {
		content += fmt.Sprintf("📌 Socials & More: <#%s>\n", cfg.SocialsChannelID)
	}
	content += "ℹ️ Use `/faq` for common questions."

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}
