package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/pkg/custom"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/entities"
	"github.com/azorva/warden/pkg/logging"
	"github.com/google/uuid"
)

const (
	// remindMeCmdName sets a personal reminder.
	remindMeCmdName = "remindme"

	// timeOptName is the name of the time option.
	timeOptName = "time"

	// taskOptName is the name of the task option.
	taskOptName = "task"

	// maxReminderDuration caps how far out a reminder can be set.
	maxReminderDuration = 30 * 24 * time.Hour
)

var (
	remindMeCmd = &discordgo.ApplicationCommand{
		Name:        remindMeCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "⏰ Set a personal reminder.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        timeOptName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Time until the reminder (e.g. 5m, 1h, 2d).",
				Required:    true,
			},
			{
				Name:        taskOptName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "What to remind you about.",
				Required:    true,
			},
		},
	}

	// reminderTimePattern matches durations like 30s, 5m, 1h, 2d.
	reminderTimePattern = regexp.MustCompile(`^(\d+)([smhd])$`)
)

// parseReminderDuration parses the user-facing duration shorthand.
func parseReminderDuration(s string) (time.Duration, error) {
	match := reminderTimePattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration amount %q: %w", match[1], err)
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration unit %q", match[2])
	}
	return time.Duration(amount) * unit, nil
}

// remindMeCmdHandler persists the reminder and schedules an in-process timer
// to deliver it.
func remindMeCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	timeStr := i.ApplicationCommandData().Options[0].StringValue()
	task := i.ApplicationCommandData().Options[1].StringValue()

	duration, err := parseReminderDuration(timeStr)
	if err != nil {
		return respondEphemeral(a, i, "❌ Invalid time format. Use: 5m, 1h, 2d")
	}
	if duration > maxReminderDuration {
		return respondEphemeral(a, i, "❌ Max reminder time is 30 days.")
	}

	reminder := &entities.Reminder{
		ID:        uuid.New().String(),
		GuildID:   i.GuildID,
		UserID:    i.Member.User.ID,
		ChannelID: i.ChannelID,
		Task:      task,
		DueAt:     custom.Datetime(time.Now().UTC().Add(duration)),
	}

	if err := a.ReminderDal().SaveReminder(context.Background(), reminder); err != nil {
		return fmt.Errorf("error saving reminder: %w", err)
	}

	scheduleReminder(a, reminder, duration, timeStr)

	return respondEphemeral(a, i, fmt.Sprintf("✅ I'll remind you about %q in %s.", task, timeStr))
}

// scheduleReminder fires the reminder after the duration elapses. The stored
// record is re-read just before delivery; a record that is gone by then was
// cancelled, so nothing is sent. Delivery goes to the user's DMs, falling
// back to the channel the reminder was set in when DMs are closed.
func scheduleReminder(a IApp, reminder *entities.Reminder, duration time.Duration, timeStr string) {
	time.AfterFunc(duration, func() {
		ctx := context.Background()

		current, err := a.ReminderDal().GetReminder(ctx, reminder.ID)
		if err != nil {
			if errors.Is(err, dataaccess.ErrNotFound) {
				a.Log().Debug("Reminder record gone before firing, skipping delivery",
					slog.String("reminder_id", reminder.ID))
				return
			}
			// Store trouble; deliver from the in-memory copy rather than
			// dropping the reminder.
			a.Log().Warn("Error re-reading reminder, delivering from memory",
				slog.String("reminder_id", reminder.ID),
				slog.String(logging.KeyError, err.Error()))
			current = reminder
		}

		deliverReminder(a, current, timeStr)

		if err := a.ReminderDal().DeleteReminder(ctx, reminder.ID); err != nil {
			a.Log().Warn("Error deleting fired reminder",
				slog.String("reminder_id", reminder.ID),
				slog.String(logging.KeyError, err.Error()))
		}
	})
}

func deliverReminder(a IApp, reminder *entities.Reminder, timeStr string) {
	guildName := reminder.GuildID
	if guild, err := a.Session().Guild(reminder.GuildID); err == nil {
		guildName = guild.Name
	}

	if dm, err := a.Session().UserChannelCreate(reminder.UserID); err == nil {
		if _, err := a.Session().ChannelMessageSend(dm.ID,
			fmt.Sprintf("⏰ **Reminder**: %s\n(Set %s ago in %s)", reminder.Task, timeStr, guildName)); err == nil {
			return
		}
	}

	// DMs closed or failed; fall back to the origin channel.
	if _, err := a.Session().ChannelMessageSend(reminder.ChannelID,
		fmt.Sprintf("<@%s> ⏰ **Reminder**: %s", reminder.UserID, reminder.Task)); err != nil {
		a.Log().Warn("Error delivering reminder",
			slog.String("reminder_id", reminder.ID),
			slog.String(logging.KeyUserID, reminder.UserID),
			slog.String(logging.KeyError, err.Error()))
	}
}
