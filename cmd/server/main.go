package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atticweb/attic/auth"
	"github.com/atticweb/attic/discord"
	"github.com/atticweb/attic/gallery"
	"github.com/atticweb/attic/internal/config"
	"github.com/atticweb/attic/internal/tasks"
	"github.com/atticweb/attic/kvstore"
	"github.com/atticweb/attic/server"
	"github.com/atticweb/attic/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	displayAppname("attic")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := kvstore.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	bucket, err := storage.NewBucket(ctx, storage.Config{
		BucketName:      cfg.BucketName,
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("connecting to object storage: %w", err)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	platform := discord.NewClient(httpClient, cfg.BotToken, "")
	if err := platform.RegisterCommands(ctx, cfg.ClientID); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	oauthConfig := server.OAuthConfig(cfg)
	handler := server.New(cfg, store,
		auth.NewExchangeClient(oauthConfig, discord.RevokeURL, httpClient),
		discord.NewPermissionOracle(platform, cfg.Guild, cfg.RequiredPermission),
		gallery.NewService(bucket, httpClient),
	)

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	tasks.Wait()
	return returnError
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
