package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-campaign-mirror/internal/config"
	"github.com/MKhiriev/go-campaign-mirror/internal/handler"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/MKhiriev/go-campaign-mirror/internal/server"
	"github.com/MKhiriev/go-campaign-mirror/internal/store"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("campaign-devserver")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.IssueTokenFor != "" {
		token, err := utils.GenerateCampaignToken(cfg.App.TokenIssuer, models.AuthClaims{PlayerID: cfg.IssueTokenFor}, cfg.App.TokenDuration, cfg.App.TokenSignKey)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.String())
		return
	}

	printBuildInfo()
	log.Debug().Str("address", cfg.Server.HTTPAddress).Bool("auth", cfg.App.TokenSignKey != "").Msg("received configs")

	ctx := context.Background()

	var persister memory.Persister
	if cfg.Storage.DB.DSN != "" {
		db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB.DSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting journal database")
		}
		defer db.Close()

		if err = db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("error migrating journal database")
		}
		persister = store.NewJournal(db, log)
	}

	tree := memory.NewStore(log, persister)
	defer tree.Close()

	if err = tree.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("error restoring tree from journal")
	}

	handlers, err := handler.NewHandlers(tree, cfg, buildVersion, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
