package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophdocs/internal/client/cli"
	"github.com/dmitrijs2005/gophdocs/internal/client/client"
	"github.com/dmitrijs2005/gophdocs/internal/client/config"
	"github.com/dmitrijs2005/gophdocs/internal/client/events"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories"
	"github.com/dmitrijs2005/gophdocs/internal/client/services"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.NewText(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repositories.Open(ctx, cfg.StoreDriver, cfg.DataDir)
	if err != nil {
		log.Fatalf("error opening local store: %v", err)
	}
	defer repos.Close()

	remote, err := client.New(cfg.Transport, cfg.ServerEndpointAddr, client.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		log.Fatalf("%v", err)
	}

	bus := events.NewBus()
	var opts []services.SessionOption
	if !cfg.RememberSecret {
		opts = append(opts, services.WithoutStoredSecret())
	}
	session, err := services.NewSessionService(repos.Documents, repos.Metadata, remote, bus, logger, opts...)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(cfg, session, bus, logger)
	app.Run(ctx)

}
