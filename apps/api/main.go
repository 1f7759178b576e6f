package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trezcool/schooldesk/apps/api/echo"
	"github.com/trezcool/schooldesk/apps/shared"
	"github.com/trezcool/schooldesk/core"
	logsvc "github.com/trezcool/schooldesk/services/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	wd, err := os.Getwd()
	if err != nil {
		logsvc.NewConsoleLogger("info").Fatal("getting working dir", err)
	}
	conf, err := core.NewConfig(wd)
	if err != nil {
		logsvc.NewConsoleLogger("info").Fatal("loading config", err)
	}

	// =========================================================================
	// Initialize App

	app, err := shared.NewApp(conf)
	if err != nil {
		logsvc.NewConsoleLogger(conf.LogLevel).Fatal("setting up app", err)
	}
	logger := app.Log
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if _, err = app.Ensure(); err != nil {
		logger.Fatal("preparing workbook", err, map[string]interface{}{"path": conf.DataFile})
	}

	// =========================================================================
	// Start Watcher
	//
	// Drops the cache whenever the workbook is edited in another program.

	watcher := app.Watcher(func() {
		logger.Info("workbook changed on disk, cache dropped", map[string]interface{}{"path": conf.DataFile})
	})
	scheduler := cron.New()
	if _, err = scheduler.AddFunc("@every "+conf.WatchInterval.String(), func() {
		if _, err := watcher.Check(); err != nil {
			logger.Error("watching workbook", err)
		}
	}); err != nil {
		logger.Fatal("scheduling watcher", err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:     conf.APIAddress,
			Debug:       conf.Debug,
			Logger:      logger,
			PeopleSvc:   app.People,
			PaymentSvc:  app.Payments,
			ActivitySvc: app.Activity,
			Refresher:   app.Store,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
