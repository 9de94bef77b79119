// @title                       Account Service API
// @version                     1.0
// @description                 Signup, login, role-based access control and account administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/accounthub/account-service/internal/api"
	"github.com/accounthub/account-service/internal/api/handler"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/core/security"
	"github.com/accounthub/account-service/internal/core/service"
	mongostore "github.com/accounthub/account-service/internal/infrastructure/db/mongo"
	redisstore "github.com/accounthub/account-service/internal/infrastructure/db/redis"
	"github.com/accounthub/account-service/internal/infrastructure/queue"
	"github.com/accounthub/account-service/internal/pkg/config"
	"github.com/accounthub/account-service/pkg/logger"
)

const (
	serviceName     = "account-service"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("account service stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	lg := logger.Init(logger.Options{
		Service: serviceName,
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	repo := mongostore.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return multierr.Append(fmt.Errorf("ensure indexes: %w", err), mongoClient.Disconnect(context.Background()))
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return multierr.Append(err, mongoClient.Disconnect(context.Background()))
	}
	var cache ports.AccountCache
	if cfg.Redis.CacheEnabled {
		cache = redisstore.NewAccountCache(rdb, cfg.Redis.CacheTTL, logger.Named("account_cache"))
	}

	// --- Security ---
	// The pool outlives the signal context so in-flight requests can finish
	// hashing while the server drains.
	pool := queue.NewHashPool(cfg.Auth.HashWorkers, logger.Named("hash_pool"))
	pool.Start(context.Background())

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost, pool)
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.JWTExpiresIn,
	})
	if err != nil {
		pool.Stop()
		return multierr.Combine(err, rdb.Close(), mongoClient.Disconnect(context.Background()))
	}

	// --- Services ---
	authService := service.NewAuthService(repo, hasher, tokens,
		service.AuthOptions{AllowSignupRole: cfg.Auth.AllowSignupRole},
		logger.Named("auth_service"))
	guard := service.NewAccessGuard(tokens, repo, logger.Named("access_guard"))
	accountService := service.NewAccountService(repo, hasher, cache, logger.Named("account_service"))

	router := api.NewRouter(api.Dependencies{
		Logger:    logger.Named("http"),
		ClientURL: cfg.ClientURL,
		Auth:      authService,
		Guard:     guard,
		Accounts:  accountService,
		Probes: []handler.Pinger{
			mongostore.NewPinger(mongoClient),
			redisstore.NewPinger(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Env).
			Int("hash_workers", pool.Workers()).
			Bool("cache", cfg.Redis.CacheEnabled).
			Msg("account service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	pool.Stop()
	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = multierr.Combine(runErr, rdb.Close(), mongoClient.Disconnect(closeCtx))
	lg.Info().Msg("server exited")
	return err
}
