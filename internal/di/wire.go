//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"contactdesk/internal/auth"
	"contactdesk/internal/config"
	"contactdesk/internal/contact"
	"contactdesk/internal/dbmongo"
	"contactdesk/internal/health"
	"contactdesk/internal/notif"
)

var storeSet = wire.NewSet(
	ProvideMongo,
	contact.NewSubmissionRepository,
	wire.Bind(new(contact.SubmissionRepository), new(*contact.MongoSubmissionRepository)),
	wire.Bind(new(health.Pinger), new(*dbmongo.MongoClient)),
)

var eventSet = wire.NewSet(
	ProvideNATS,
	notif.NewSubmissionNotifier,
	wire.Bind(new(contact.Notifier), new(*notif.Manager)),
)

var apiSet = wire.NewSet(
	contact.NewSubmissionService,
	wire.Bind(new(contact.SubmissionUsecase), new(*contact.SubmissionService)),
	contact.NewSubmissionHandlers,
	auth.NewAuthenticator,
	auth.NewHandler,
	health.NewChecker,
)

// InitializeApplication wires the contact service from an already validated config.
func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		storeSet,
		eventSet,
		apiSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
