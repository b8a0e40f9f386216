// cmd/health-assistant/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"health-assistant/internal/artifact"
	"health-assistant/internal/classifier"
	"health-assistant/internal/common/config"
	"health-assistant/internal/common/database"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/observability"
	"health-assistant/internal/conversation"
	"health-assistant/internal/geo"
	"health-assistant/internal/places"
	"health-assistant/internal/server"
	"health-assistant/internal/tables"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting health assistant", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Fatal startup path: artifacts and lookup tables ---
	model, vectorizer, err := artifact.Load(cfg.Artifacts.ModelPath, cfg.Artifacts.VectorizerPath)
	if err != nil {
		zapLog.Fatal("artifact load failed", zap.Error(err))
	}
	log.Info("classifier artifacts loaded", map[string]interface{}{
		"classes":  len(model.Classes),
		"features": len(vectorizer.IDF),
	})

	tbls, err := tables.Load(cfg.Tables.RemediesPath, cfg.Tables.OTCPath, log)
	if err != nil {
		zapLog.Fatal("lookup table load failed", zap.Error(err))
	}

	clf := classifier.New(model, vectorizer, log)

	// --- Optional geocode cache; a dead Redis degrades to direct API calls ---
	var cache geo.Cache
	if cfg.Cache.Enabled {
		redisClient, err := database.NewRedis(cfg.Cache)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = redisClient.Ping(pingCtx)
			cancel()
		}
		if err != nil {
			log.Warn("geocode cache unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redisClient
			defer redisClient.Close()
		}
	}

	geocoder := geo.NewGeocoder(&geo.Config{
		BaseURL:  cfg.Here.GeocodeBaseURL,
		APIKey:   cfg.Here.APIKey,
		Timeout:  config.GetDuration(cfg.Here.Timeout),
		CacheTTL: cfg.Cache.TTLDuration(),
	}, cache, log)

	finder := places.NewFinder(&places.Config{
		BaseURL:     cfg.Here.DiscoverBaseURL,
		APIKey:      cfg.Here.APIKey,
		Timeout:     config.GetDuration(cfg.Here.Timeout),
		ResultLimit: cfg.Here.ResultLimit,
	}, log)

	// The conversation runs on a background goroutine; it shares nothing with
	// the liveness server and its completion does not end the process.
	prompter := conversation.NewPrompter(os.Stdin, os.Stdout)
	loop := conversation.NewLoop(clf, tbls, geocoder, finder, prompter, os.Stdout, conversation.Defaults{
		Symptom:  cfg.Conversation.DefaultSymptom,
		Location: cfg.Conversation.DefaultLocation,
	}, obs, log)

	go loop.Run(ctx)

	// The liveness responder holds the main goroutine and keeps the process
	// resident for the hosting platform.
	srv := server.New(cfg.Server.Port, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	if err := srv.Run(); err != nil {
		zapLog.Fatal("liveness server failed", zap.Error(err))
	}
}
