package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/peakcomfort/backend/internal/ai"
	"github.com/peakcomfort/backend/internal/config"
	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/geocode"
	httpapi "github.com/peakcomfort/backend/internal/http"
	"github.com/peakcomfort/backend/internal/notify"
	"github.com/peakcomfort/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "peakcomfort-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	var assistant ai.Assistant
	if cfg.AssistantBaseURL == "" {
		assistant = ai.MockAssistant{}
		logger.Info().Msg("using mock assistant")
	} else {
		assistant = ai.OpenAICompatAssistant{
			BaseURL: cfg.AssistantBaseURL,
			Model:   cfg.AssistantModel,
			APIKey:  cfg.AssistantAPIKey,
		}
	}
	agent := &ai.Agent{Assistant: assistant, OfficePhone: cfg.OfficePhone, Logger: logger}

	// Denver office anchors the candidate scoring region.
	geocoder := &geocode.NominatimGeocoder{
		BaseURL:     cfg.GeocoderBaseURL,
		UserAgent:   "peakcomfort-backend/1.0",
		MinInterval: cfg.GeocodeDelay,
		Client:      &http.Client{Timeout: 10 * time.Second},
		RegionLat:   39.7392,
		RegionLng:   -104.9903,
	}

	var recipients []string
	for _, r := range strings.Split(cfg.AlertRecipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	notifier := &notify.EmailNotifier{
		APIURL:     cfg.EmailAPIURL,
		APIKey:     cfg.EmailAPIKey,
		From:       cfg.EmailFrom,
		Recipients: recipients,
		Store:      store,
		Logger:     logger,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}

	workOrders := &service.WorkOrderService{Store: store, Logger: logger}
	leads := &service.LeadService{Store: store, WorkOrders: workOrders, Notifier: notifier, Logger: logger}
	svc := httpapi.Services{
		WorkOrders:   workOrders,
		Leads:        leads,
		Calendar:     &service.CalendarService{Store: store},
		Chat:         &service.ChatService{Store: store, Agent: agent, Leads: leads, WorkOrders: workOrders, Logger: logger},
		GeocodeBatch: &service.GeocodeBatchService{Store: store, Geocoder: geocoder, Delay: cfg.GeocodeDelay, Logger: logger},
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.GeocodeCron, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		summary, err := svc.GeocodeBatch.Run(runCtx)
		if err != nil {
			logger.Error().Err(err).Msg("geocode backfill failed")
			return
		}
		logger.Info().
			Int("scanned", summary.Scanned).
			Int("updated", summary.Updated).
			Int("not_found", summary.NotFound).
			Int("errors", summary.Errors).
			Msg("geocode backfill done")
	}); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.GeocodeCron).Msg("invalid geocode schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := httpapi.Router(cfg, store, svc, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
