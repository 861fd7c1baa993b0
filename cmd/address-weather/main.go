package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/address-weather/internal/api/http"
	"github.com/i474232898/address-weather/internal/config"
	"github.com/i474232898/address-weather/internal/logging"
	"github.com/i474232898/address-weather/internal/metrics"
	"github.com/i474232898/address-weather/internal/scheduler"
	"github.com/i474232898/address-weather/internal/store"
	"github.com/i474232898/address-weather/internal/weather"
	"github.com/i474232898/address-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewPipeline(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Shared HTTP client for outbound calls; a timeout counts as a failed call.
	httpCfg := providers.DefaultHTTPConfig(&http.Client{Timeout: cfg.HTTPTimeout})
	httpCfg.UserAgent = cfg.UserAgent
	httpCfg.Backoff.MaxRetries = cfg.OutboundMaxRetries

	// One cache for forecasts and the ZIP dataset.
	memStore := store.NewMemoryStore(cfg.CacheCleanupInterval)

	if err := metrics.RegisterCacheEntries(registry, memStore.Len); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	localIndex := providers.NewLocalIndex(cfg.ZipCodesPath, memStore, cfg.ZipCodesTTL)
	if n, err := localIndex.Size(); err != nil {
		log.WithError(err).Warn("local zip code index unavailable; only remote geocoding will work")
	} else {
		log.WithFields(logrus.Fields{
			"zip_codes":     n,
			"cache_entries": memStore.Len(),
		}).Info("local zip code index loaded")
	}

	// Remote geocoders first, the local index as the last resort.
	geocoders := []weather.Geocoder{providers.NewNominatimGeocoder(httpCfg, cfg.NominatimURL)}
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey, cfg.GoogleGeocoderURL, cfg.HTTPTimeout))
	}
	geocoders = append(geocoders, localIndex)

	locations := weather.NewLocationResolver(log, recorder, geocoders...)
	forecaster := providers.NewOpenMeteoProvider(httpCfg, cfg.OpenMeteoURL)

	service := weather.NewService(memStore, locations, forecaster,
		weather.WithForecastTTL(cfg.ForecastTTL),
		weather.WithLogger(log),
		weather.WithRecorder(recorder),
	)

	sched := scheduler.New(cfg.WarmAddresses, cfg.WarmInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "address-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "address-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.WithField("port", cfg.Port).Info("starting http server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
