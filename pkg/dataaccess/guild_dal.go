package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/azorva/warden/pkg/dataaccess/monitoring"
	"github.com/azorva/warden/pkg/entities"
	"github.com/azorva/warden/pkg/kvstore"
	"github.com/azorva/warden/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const guildDalName = "guild_dal"

// ErrNotFound is returned when a requested record is absent from the store.
// Absence includes tombstoned (empty) values.
var ErrNotFound = errors.New("record not found")

// Guild configuration fields. Each field is stored under "<field>_<guildID>".
const (
	FieldSocialLink      = "social_link"
	FieldSocialsChannel  = "socials_channel"
	FieldAnnounceChannel = "announce_channel"
	FieldReportsChannel  = "reports_channel"
	FieldRulesText       = "rules_text"
	FieldSupportRole     = "support_role_id"
)

// DefaultSocialLink is used when a guild has no social link configured.
const DefaultSocialLink = "https://x.com/theazorva"

// GuildDal is the data access layer for per-guild configuration. Reads go
// straight through to the store; there is no local cache.
type GuildDal interface {
	// GetConfig reads the full guild configuration, applying defaults for
	// absent fields.
	GetConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error)

	// GetField reads a single configuration field.
	GetField(ctx context.Context, guildID, field string) (string, bool, error)

	// SetField writes a single configuration field.
	SetField(ctx context.Context, guildID, field, value string) error
}

type guildDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// store is the KV store client.
	store *kvstore.Client
}

// NewGuildDal creates a new guild data access layer.
func NewGuildDal(l *slog.Logger, store *kvstore.Client) GuildDal {
	return &guildDalImpl{
		l:     l.With(slog.String(logging.KeyDal, guildDalName)),
		store: store,
	}
}

// guildKey builds the store key for a guild configuration field.
func guildKey(field, guildID string) string {
	return fmt.Sprintf("%s_%s", field, guildID)
}

func (g *guildDalImpl) GetField(ctx context.Context, guildID, field string) (string, bool, error) {
	monitoring.KVTotalRequests.WithLabelValues(guildDalName, "get_field").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(guildDalName, "get_field"))
	defer t.ObserveDuration()

	value, found, err := g.store.Get(ctx, guildKey(field, guildID))
	if err != nil {
		return "", false, fmt.Errorf("error getting guild field %s: %w", field, err)
	}
	return value, found, nil
}

func (g *guildDalImpl) SetField(ctx context.Context, guildID, field, value string) error {
	monitoring.KVTotalRequests.WithLabelValues(guildDalName, "set_field").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(guildDalName, "set_field"))
	defer t.ObserveDuration()

	if err := g.store.Set(ctx, guildKey(field, guildID), value); err != nil {
		return fmt.Errorf("error setting guild field %s: %w", field, err)
	}
	return nil
}

func (g *guildDalImpl) GetConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	monitoring.KVTotalRequests.WithLabelValues(guildDalName, "get_config").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(guildDalName, "get_config"))
	defer t.ObserveDuration()

	cfg := &entities.GuildConfig{
		GuildID: guildID,
	}

	fields := []struct {
		field string
		dst   *string
	}{
		{FieldSocialLink, &cfg.SocialLink},
		{FieldSocialsChannel, &cfg.SocialsChannelID},
		{FieldAnnounceChannel, &cfg.AnnounceChannelID},
		{FieldReportsChannel, &cfg.ReportsChannelID},
		{FieldRulesText, &cfg.RulesText},
		{FieldSupportRole, &cfg.SupportRoleID},
	}

	for _, f := range fields {
		value, found, err := g.store.Get(ctx, guildKey(f.field, guildID))
		if err != nil {
			return nil, fmt.Errorf("error getting guild field %s: %w", f.field, err)
		}
		if found {
			*f.dst = value
		}
	}

	if cfg.SocialLink == "" {
		cfg.SocialLink = DefaultSocialLink
	}
	return cfg, nil
}
