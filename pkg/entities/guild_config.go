package entities

// GuildConfig is the per-guild configuration. Each field is stored as its own
// key in the store; reads are read-through with defaults applied by the DAL.
type GuildConfig struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id"`

	// SocialLink is the social media link pushed by the notifier.
	SocialLink string `json:"social_link"`

	// SocialsChannelID is the channel mentioned in social reminders.
	SocialsChannelID string `json:"socials_channel"`

	// AnnounceChannelID is the channel social reminders are posted to.
	AnnounceChannelID string `json:"announce_channel"`

	// ReportsChannelID is the channel reports are forwarded to.
	ReportsChannelID string `json:"reports_channel"`

	// RulesText is the full rules text shown by the rules command.
	RulesText string `json:"rules_text"`

	// SupportRoleID is the role granted access to support tickets.
	SupportRoleID string `json:"support_role_id"`
}
