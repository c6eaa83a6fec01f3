package logging

import (
	"io"
	"log/slog"
	"os"
)

// Shared structured-logging keys. Handlers use these rather than ad-hoc
// strings so that log lines stay greppable across the codebase.
const (
	// KeyError is the key for an error message.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeyGuildID is the key for a guild ID.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key for a channel ID.
	KeyChannelID = "channel_id"

	// KeyUserID is the key for a user ID.
	KeyUserID = "user_id"

	// KeyCommand is the key for a command name.
	KeyCommand = "command"
)

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name appended to every log line.
	name Name

	// writer is the destination for log output.
	writer io.Writer
}

// NewConfig creates a new logging configuration for the named application.
func NewConfig(name Name) *Config {
	return &Config{
		name:   name,
		writer: os.Stdout,
	}
}

// SetWriter overrides the log destination. Used by tests.
func (c *Config) SetWriter(w io.Writer) {
	c.writer = w
}

// CommonLogger creates the standard application logger from the config.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(c.writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))
	slog.SetDefault(l)
	return l, nil
}
