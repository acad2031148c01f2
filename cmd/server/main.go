package main

import (
	"context"
	"fmt"
	"time"

	"github.com/offlinesync/notekeeper/internal/config"
	httphandler "github.com/offlinesync/notekeeper/internal/handler/http"
	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/server"
	"github.com/offlinesync/notekeeper/internal/service"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("notekeeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	quotas, err := cfg.Sync.ObjectLimits.QuotaTable()
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing object limits")
	}

	clock := sync.NewClock()
	repositories := store.NewRepositories(db, clock, log)
	services := service.NewServices(repositories, quotas, cfg.Sync.DeletedExpiryDays, clock, log)

	handlers := httphandler.NewHandler(services, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	backgroundWorkers := workers.NewWorkers(
		workers.NewReaperWorker(services.Reaper, time.Duration(cfg.Sync.ReapInterval), log),
	)
	backgroundWorkers.Run()

	srv.RunServer()
	backgroundWorkers.Stop()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
