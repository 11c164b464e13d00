package main

import (
	"context"
	"fmt"

	echoapi "github.com/trezcool/gce/apps/api/echo"
	"github.com/trezcool/gce/apps/container"
	"github.com/trezcool/gce/core"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	logger := container.NewLogger(conf)

	c, err := container.New(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}
	defer func() {
		if err = c.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if err = c.Init(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("seeding store: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			Validate:     c.Validate,
			Translator:   c.Translator,
			Store:        c.Store,
			UserSvc:      c.UserSvc,
			CandidateSvc: c.CandidateSvc,
			SettingsSvc:  c.SettingsSvc,
			AuditSvc:     c.AuditSvc,
			FactoryReset: c.FactoryReset,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
