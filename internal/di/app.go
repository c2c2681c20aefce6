package di

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/auth"
	"contactdesk/internal/config"
	"contactdesk/internal/contact"
	"contactdesk/internal/dbmongo"
	"contactdesk/internal/health"
	"contactdesk/internal/logging"
	"contactdesk/internal/notif"
)

type Application struct {
	Config   *config.Config
	Mongo    *dbmongo.MongoClient
	NATS     *nats.Conn
	Notifier *notif.Manager
	Auth     *auth.Authenticator
	AuthAPI  *auth.Handler
	Contacts *contact.SubmissionHandlers
	Health   *health.Checker
}

func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
			return
		}
		log.Info().Msg("MongoDB connection closed")
	}
	return mc, cleanup, nil
}

// ProvideNATS yields a nil connection when publishing is disabled.
func ProvideNATS(cfg *config.Config) (*nats.Conn, func(), error) {
	nc, err := notif.ConnectNATS(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if nc == nil {
			return
		}
		if err := nc.Drain(); err != nil {
			log.Warn().Err(err).Msg("failed to drain NATS connection")
			nc.Close()
		}
	}
	return nc, cleanup, nil
}

// Router mounts every HTTP endpoint. Admin routes sit behind the cookie check.
func (a *Application) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(logging.Middleware)

	a.Health.RegisterRoutes(r)
	a.AuthAPI.RegisterRoutes(r)
	a.Contacts.RegisterRoutes(r, auth.RequireAuth(a.Auth))
	return r
}
