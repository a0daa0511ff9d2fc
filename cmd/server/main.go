package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/artfolio/internal/buildinfo"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/server"
	"github.com/dmitrijs2005/artfolio/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
