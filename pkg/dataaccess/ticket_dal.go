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

const ticketDalName = "ticket_dal"

// ticketKeyPrefix prefixes ticket record keys. Tickets are keyed by the
// channel that backs them.
const ticketKeyPrefix = "ticket_"

// TicketDal is the data access layer for ticket records.
type TicketDal interface {
	// SaveTicket saves a ticket record.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets the ticket backed by the given channel. Returns
	// ErrNotFound when no record exists.
	GetTicket(ctx context.Context, channelID string) (*entities.Ticket, error)

	// DeleteTicket removes the ticket record for the given channel.
	DeleteTicket(ctx context.Context, channelID string) error
}

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// store is the KV store client.
	store *kvstore.Client
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal(l *slog.Logger, store *kvstore.Client) TicketDal {
	return &ticketDal{
		l:     l.With(slog.String(logging.KeyDal, ticketDalName)),
		store: store,
	}
}

func ticketKey(channelID string) string {
	return ticketKeyPrefix + channelID
}

func (d *ticketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	monitoring.KVTotalRequests.WithLabelValues(ticketDalName, "save_ticket").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(ticketDalName, "save_ticket"))
	defer t.ObserveDuration()

	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("error marshaling ticket: %w", err)
	}

	if err := d.store.Set(ctx, ticketKey(ticket.ChannelID), string(payload)); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) GetTicket(ctx context.Context, channelID string) (*entities.Ticket, error) {
	monitoring.KVTotalRequests.WithLabelValues(ticketDalName, "get_ticket").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(ticketDalName, "get_ticket"))
	defer t.ObserveDuration()

	value, found, err := d.store.Get(ctx, ticketKey(channelID))
	if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("ticket for channel %s: %w", channelID, ErrNotFound)
	}

	ticket := new(entities.Ticket)
	if err := json.Unmarshal([]byte(value), ticket); err != nil {
		return nil, fmt.Errorf("error unmarshaling ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDal) DeleteTicket(ctx context.Context, channelID string) error {
	monitoring.KVTotalRequests.WithLabelValues(ticketDalName, "delete_ticket").Inc()
	t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues(ticketDalName, "delete_ticket"))
	defer t.ObserveDuration()

	if err := d.store.Delete(ctx, ticketKey(channelID)); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}
	return nil
}
