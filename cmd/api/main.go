package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"impactseed/internal/http/handlers"
	"impactseed/internal/http/httpapi"
	"impactseed/internal/infra"
	"impactseed/internal/infra/geoip"
	"impactseed/internal/middleware"
	"impactseed/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}
	defer st.Close()

	// Fold a legacy localStorage export into the record store, once.
	if cfg.LegacyImportPath != "" {
		if err := importLegacy(ctx, st, cfg.LegacyImportPath); err != nil {
			logger.Warn().Err(err).Str("path", cfg.LegacyImportPath).Msg("legacy import skipped")
		}
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var countries middleware.CountryLookup
	if resolver != nil {
		countries = resolver.CountryCode
	}

	app := handlers.NewApp(logger, st, handlers.Redirects{
		Login:               cfg.LoginURL,
		Index:               cfg.IndexURL,
		Verification:        cfg.VerificationURL,
		VerificationSuccess: cfg.VerificationSuccessURL,
		DonationSuccess:     cfg.DonationSuccessURL,
	})

	router := httpapi.NewRouter(app, logger, cfg, countries)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *infra.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case infra.StoreDriverMemory:
		return store.NewMemory(), nil
	case infra.StoreDriverSQLite:
		return store.OpenSQLite(cfg.SQLitePath)
	case infra.StoreDriverPostgres:
		return store.OpenPostgres(ctx, cfg.DatabaseURL)
	case infra.StoreDriverRedis:
		return store.OpenRedis(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func importLegacy(ctx context.Context, st store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.ImportLegacy(ctx, st, f)
}
