// README: Entry point; loads config, wires providers, cache, quota and agent, then serves HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"tripwise/internal/agent"
	"tripwise/internal/ai"
	"tripwise/internal/config"
	httptransport "tripwise/internal/http"
	"tripwise/internal/infra"
	"tripwise/internal/logger"
	"tripwise/internal/maps"
	"tripwise/internal/modules/usage"
	"tripwise/internal/placecache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	} else {
		log.Warn("redis not configured; place cache is process-local", nil)
	}

	var quota *usage.Service
	if cfg.DB.DSN != "" {
		var pool *pgxpool.Pool
		pool, err = infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		quota = usage.NewService(usage.NewStore(pool), cfg.Agent.MonthlyCalls)
	} else {
		log.Warn("database not configured; agent calls are not metered", nil)
	}

	places, err := maps.NewPlacesService(cfg.Maps.APIKey, maps.WithLanguage(cfg.Maps.Language))
	if err != nil {
		return fmt.Errorf("places init: %w", err)
	}
	cache := placecache.NewStore(rdb, places, cfg.Cache.TTL, log.With(map[string]interface{}{"component": "placecache"}))
	search := placecache.NewCachingSearcher(places, cache, log)

	chat, closeChat, err := ai.NewChatClient(ctx, cfg.AI.ProviderConfig())
	if err != nil {
		return fmt.Errorf("chat provider init: %w", err)
	}
	defer func() { _ = closeChat() }()

	tripAgent := agent.New(chat, search, cache, log.With(map[string]interface{}{"component": "agent"}), agent.Config{
		Temperature: &cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})

	deps := httptransport.RouterDeps{
		Agent:        tripAgent,
		Search:       search,
		Lookup:       cache,
		Verifier:     verifier,
		Log:          log,
		AgentTimeout: cfg.Agent.Timeout,
	}
	// A typed nil would read as an enabled quota.
	if quota != nil {
		deps.Quota = quota
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("tripwise starting", map[string]interface{}{
		"provider": cfg.AI.Provider,
		"auth":     cfg.Auth.Mode,
		"metered":  quota != nil,
	})
	return httptransport.NewServer(cfg.HTTP.Addr, httptransport.NewRouter(deps), cfg.HTTP.ShutdownTimeout, log).Run(ctx)
}

func newVerifier(ctx context.Context, cfg config.Config) (infra.TokenVerifier, error) {
	if cfg.Auth.Mode == config.AuthStatic {
		return infra.NewStaticVerifier(cfg.Auth.StaticToken, cfg.Auth.StaticUID), nil
	}
	v, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	return v, nil
}
