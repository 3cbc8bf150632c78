// Command api serves the marketplace HTTP API.
//
//	@title						TaskConnect Marketplace API
//	@version					1.0
//	@description				Local services marketplace: accounts, provider approval, directory, bookings and incident reports.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/taskconnect/marketplace-api/cmd/bootstrap"
	_ "github.com/taskconnect/marketplace-api/docs"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log := bootstrap.Logger(cfg)
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := app.Run(ctx); err != nil {
		app.Log.Fatal().Err(err).Msg("server stopped")
	}
}
