// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"servicehub_backend/internal/app"
	"servicehub_backend/internal/category"
	"servicehub_backend/internal/config"
	"servicehub_backend/internal/firebase"
	"servicehub_backend/internal/jobs"
	"servicehub_backend/internal/platform/logger"
	platformmongo "servicehub_backend/internal/platform/mongo"
	"servicehub_backend/internal/proxy"
	"servicehub_backend/internal/shared"
	"servicehub_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		platformmongo.NewProvider,

		// Firebase Service
		firebase.NewFirebaseService,
		wire.Bind(new(user.SessionRevoker), new(*firebase.FirebaseService)),

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Category Module
		category.NewGORMRepository,
		category.NewService,
		category.NewHandler,

		// Data Proxy
		proxy.NewMongoStore,
		proxy.DefaultPolicy,
		proxy.NewDispatcher,
		proxy.NewHandler,

		// Jobs
		jobs.NewStoreHealthJob,

		// Application Layer
		app.NewServer,

		provideCleanup,
	)
	return nil, nil, nil
}
