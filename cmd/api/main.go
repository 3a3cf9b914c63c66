package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/idempotency"
	memitemrepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/itemrepo"
	memsharerepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/sharerepo"
	memtriprepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/triprepo"
	postgres "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/idempotency"
	pgitemrepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/itemrepo"
	pgsharerepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/sharerepo"
	pgtriprepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/triprepo"
	"github.com/Overland-East-Bay/trip-journal/internal/app/maps"
	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/auth/jwtverifier"
	platformclock "github.com/Overland-East-Bay/trip-journal/internal/platform/clock"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/config"
	"github.com/Overland-East-Bay/trip-journal/internal/platform/logging"
	idempotencyport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
	itemrepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
	sharerepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
	triprepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		logging.Setup("info", "json", os.Stderr)
		log.Fatal().Err(err).Msg("invalid server config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-User-Id
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthModeDev:
		log.Warn().Stringer("default_user", cfg.DevUserID).Msg("dev auth enabled; bearer tokens are not verified")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevUserID)
	default:
		jwtCfg, err := config.LoadJWTConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid auth config")
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.NewSystemClock()

	var (
		tripRepo  triprepoport.Repository
		itemRepo  itemrepoport.Repository
		shareRepo sharerepoport.Repository
		idemStore idempotencyport.Store
		cleanup   func()
	)

	switch cfg.Storage {
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			cancel()
			log.Fatal().Err(err).Msg("invalid postgres config")
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("apply schema")
		}
		cancel()
		cleanup = pool.Close

		tripRepo = pgtriprepo.NewRepo(pool)
		itemRepo = pgitemrepo.NewRepo(pool)
		shareRepo = pgsharerepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		tripRepo = memtriprepo.NewRepo()
		itemRepo = memitemrepo.NewRepo()
		shareRepo = memsharerepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	tripSvc := trips.NewService(tripRepo, itemRepo, shareRepo, clk)
	mapSvc := maps.NewService(tripSvc, itemRepo, cfg.MapCacheTTL)
	api := httpapi.NewServer(tripSvc, mapSvc, idemStore, clk)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: authMW}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("auth_mode", string(cfg.AuthMode)).
			Str("storage", string(cfg.Storage)).
			Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
