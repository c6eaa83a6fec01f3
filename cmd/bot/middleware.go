package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/azorva/warden/cmd/bot/monitoring"
	"github.com/azorva/warden/pkg/interactions"
	"github.com/azorva/warden/pkg/logging"
	"github.com/azorva/warden/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// commandProcessor handles a slash command invocation. It must produce
// exactly one terminal response; returning an error hands that duty to the
// dispatch boundary.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// componentProcessor handles a component interaction with its parsed payload.
type componentProcessor func(a IApp, i *discordgo.InteractionCreate, p *interactions.Payload) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes inbound interactions to the statically
// registered processors. Handler errors never escape: they are logged with
// full detail and converted into a single generic failure reply.
func interactionHandler(a IApp, commands map[string]commandProcessor, components map[interactions.Kind]componentProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			a.Log().Debug("Handling command interaction", slog.String(logging.KeyCommand, name))

			processor, ok := commands[name]
			if !ok {
				a.Log().Error("No processor found for command", slog.String(logging.KeyCommand, name))
				respondError(a, i, nil)
				return
			}

			t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
			defer t.ObserveDuration()

			if err := processor(a, i); err != nil {
				a.Log().Error(fmt.Sprintf("Error processing command %s", name),
					slog.String(logging.KeyError, err.Error()))
				respondError(a, i, err)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID

			payload, err := interactions.Parse(customID)
			if err != nil {
				// Components this bot never emitted are not ours to answer.
				a.Log().Warn("Ignoring unknown component interaction", slog.String("custom_id", customID))
				return
			}

			a.Log().Debug("Handling component interaction", slog.String("kind", payload.Kind.String()))

			processor, ok := components[payload.Kind]
			if !ok {
				a.Log().Error("No processor found for component kind", slog.String("kind", payload.Kind.String()))
				respondError(a, i, nil)
				return
			}

			if err := processor(a, i, payload); err != nil {
				a.Log().Error(fmt.Sprintf("Error processing component %s", payload.Kind),
					slog.String(logging.KeyError, err.Error()))
				respondError(a, i, err)
			}
		}
	}
}
