package dataaccess

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/azorva/warden/pkg/dataaccess/monitoring"
	"github.com/azorva/warden/pkg/entities"
	"github.com/azorva/warden/pkg/kvstore"
	"github.com/azorva/warden/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const reminderDalName = "reminder_dal"

const reminderKeyPrefix = "reminder_"

// ReminderDal is the data access layer for personal reminders. The store has
// no key enumeration, so records are only addressable by ID; the in-process
// timers own scheduling and a record exists for the reminder's lifetime.
type ReminderDal interface {
	// SaveReminder saves a reminder.
	SaveReminder(ctx context.Context, reminder *entities.Reminder) error

	// GetReminder gets a reminder by ID. Returns ErrNotFound when absent.
	GetReminder(ctx context.Context, id string) (*entities.Reminder, error)

	// DeleteReminder removes a reminder once it has fired.
	DeleteReminder(ctx context.Context, id string) error
}

type reminderDal struct {
	// l is the logger.
	l *slog.Logger

	// store is the KV store client.
	store *kvstore.Client
}

// NewReminderDal creates a new reminder data access layer.
func NewReminderDal(l *slog.Logger, store *kvstore.Client) ReminderDal {
	return &reminderDal{
		l:     l.With(slog.String(logging.KeyDal, reminderDalName)),
		store: store,
	}
}

func reminderKey(id string) string {
	return reminderKeyPrefix + id
}

func (d *reminderDal) SaveReminder(ctx context.Context, reminder *entities.Reminder) error {
	monitoring.KVTotalRequests.WithLabelValues(reminderDalName, "save_reminder").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(reminderDalName, "save_reminder"))
	defer t.ObserveDuration()

	payload, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("error marshaling reminder: %w", err)
	}

	if err := d.store.Set(ctx, reminderKey(reminder.ID), string(payload)); err != nil {
		return fmt.Errorf("error saving reminder: %w", err)
	}
	return nil
}

func (d *reminderDal) GetReminder(ctx context.Context, id string) (*entities.Reminder, error) {
	monitoring.KVTotalRequests.WithLabelValues(reminderDalName, "get_reminder").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(reminderDalName, "get_reminder"))
	defer t.ObserveDuration()

	value, found, err := d.store.Get(ctx, reminderKey(id))
	if err != nil {
		return nil, fmt.Errorf("error getting reminder: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}

	reminder := new(entities.Reminder)
	if err := json.Unmarshal([]byte(value), reminder); err != nil {
		return nil, fmt.Errorf("error unmarshaling reminder: %w", err)
	}
	return reminder, nil
}

func (d *reminderDal) DeleteReminder(ctx context.Context, id string) error {
	monitoring.KVTotalRequests.WithLabelValues(reminderDalName, "delete_reminder").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(reminderDalName, "delete_reminder"))
	defer t.ObserveDuration()

	if err := d.store.Delete(ctx, reminderKey(id)); err != nil {
		return fmt.Errorf("error deleting reminder: %w", err)
	}
	return nil
}
