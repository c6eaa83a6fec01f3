package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/cmd/bot/config"
	"github.com/azorva/warden/cmd/bot/monitoring"
	"github.com/azorva/warden/pkg/dataaccess"
	"github.com/azorva/warden/pkg/interactions"
	"github.com/azorva/warden/pkg/kvstore"
	"github.com/azorva/warden/pkg/logging"
	"github.com/azorva/warden/pkg/request"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IApp is the interface handlers receive; every dependency is reached
// through it rather than through package globals.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Store returns the KV store client.
	Store() *kvstore.Client

	// GuildDal returns the guild configuration data access layer.
	GuildDal() dataaccess.GuildDal

	// TicketDal returns the ticket data access layer.
	TicketDal() dataaccess.TicketDal

	// ReminderDal returns the reminder data access layer.
	ReminderDal() dataaccess.ReminderDal
}

type App struct {
	// l is the logger.
	l *slog.Logger

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the KV store client.
	store *kvstore.Client

	// guildDal is the guild configuration data access layer.
	guildDal dataaccess.GuildDal

	// ticketDal is the ticket data access layer.
	ticketDal dataaccess.TicketDal

	// reminderDal is the reminder data access layer.
	reminderDal dataaccess.ReminderDal

	// eventNotifier is the channel for notifying of gateway events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		l: l,
		r: r,
	}
}

func (a *App) Run() error {
	// Connect to the KV store before anything else; all durable state lives
	// there.
	if err := a.connectStore(); err != nil {
		return fmt.Errorf("error connecting to store: %w", err)
	}

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands. Needs the session open so the joined guilds
	// can be listed.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.l.Info("Bot is now running.")

	// Seed per-guild configuration and start the social reminder loop. The
	// notifier runs for the lifetime of the process.
	notifier := newSocialNotifier(a.l, a.guildDal, &sessionNotifierAPI{s: a.s})
	go notifier.Run(context.Background())

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.l.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.l.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

// connectStore builds the KV store client and probes it with exponential
// backoff. An unreachable store after the backoff budget is fatal; a bot
// with no persistence can only degrade every command.
func (a *App) connectStore() error {
	a.store = kvstore.NewClient(a.l, config.StoreURL, config.StoreAPIKey)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.store.Health(ctx)
	}, bo); err != nil {
		return fmt.Errorf("store did not become healthy: %w", err)
	}

	if size, err := a.store.Size(context.Background()); err != nil {
		a.l.Warn("Could not fetch store size", slog.String(logging.KeyError, err.Error()))
	} else {
		a.l.Info("Connected to store", slog.Int64("size", size))
	}

	a.guildDal = dataaccess.NewGuildDal(a.l, a.store)
	a.ticketDal = dataaccess.NewTicketDal(a.l, a.store)
	a.reminderDal = dataaccess.NewReminderDal(a.l, a.store)
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Buffered to prevent blocking the gateway read loop.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.l.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathAlive is the liveness probe used by external uptime monitors.
	a.r.HandleFunc(PathAlive, middlewareHttp(a.aliveCheck(), a)).Methods(http.MethodGet)

	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.l)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash command controllers
		map[string]commandProcessor{
			supportCmd.Name:  supportCmdHandler,
			panelCmd.Name:    panelCmdHandler,
			reportCmd.Name:   reportCmdHandler,
			rulesCmd.Name:    rulesCmdHandler,
			faqCmd.Name:      faqCmdHandler,
			linksCmd.Name:    linksCmdHandler,
			remindMeCmd.Name: remindMeCmdHandler,
			purgeCmd.Name:    purgeCmdHandler,
			settingsCmd.Name: settingsCmdHandler,
			helpCmd.Name:     helpCmdHandler,
		},
		// Component processors, keyed by payload kind
		map[interactions.Kind]componentProcessor{
			interactions.KindCategorySelect: categorySelectHandler,
			interactions.KindClaimTicket:    claimTicketHandler,
			interactions.KindCloseTicket:    closeTicketHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.l.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// registeredCommands is the closed list of slash commands the bot serves.
var registeredCommands = []*discordgo.ApplicationCommand{
	supportCmd,
	panelCmd,
	reportCmd,
	rulesCmd,
	faqCmd,
	linksCmd,
	remindMeCmd,
	purgeCmd,
	settingsCmd,
	helpCmd,
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		for _, cmd := range registeredCommands {
			if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, cmd); err != nil {
				return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, g.ID, err)
			}
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		cmds, err := a.s.ApplicationCommands(config.ApplicationId, guild.ID)
		if err != nil {
			return fmt.Errorf("error listing commands for guild %s: %w", guild.ID, err)
		}
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Store() *kvstore.Client {
	return a.store
}

func (a *App) GuildDal() dataaccess.GuildDal {
	return a.guildDal
}

func (a *App) TicketDal() dataaccess.TicketDal {
	return a.ticketDal
}

func (a *App) ReminderDal() dataaccess.ReminderDal {
	return a.reminderDal
}
