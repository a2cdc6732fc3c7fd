package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"

	"github.com/climalab/clima-chat/internal/domain/auth"
	"github.com/climalab/clima-chat/internal/domain/chat"
	"github.com/climalab/clima-chat/internal/domain/weather"
	"github.com/climalab/clima-chat/internal/infra/chatstore"
	"github.com/climalab/clima-chat/internal/infra/config"
	"github.com/climalab/clima-chat/internal/infra/geo/nominatim"
	"github.com/climalab/clima-chat/internal/infra/geocache"
	"github.com/climalab/clima-chat/internal/infra/llm/gemini"
	"github.com/climalab/clima-chat/internal/infra/userrepo"
	"github.com/climalab/clima-chat/internal/infra/weather/openmeteo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideChatOptions(cfg *config.Config) chat.Options {
	return chat.Options{
		MaxContextTurns: cfg.Chat.MaxContextTurns,
		WeatherFallback: cfg.Chat.WeatherFallback,
	}
}

func provideClassifier(cfg *config.Config) weather.Classifier {
	return weather.NewKeywordClassifier(cfg.Weather.DefaultCity)
}

func provideFormatter() chat.ReplyFormatter {
	return weather.NewFormatter(nil)
}

func provideGeminiClient(cfg *config.Config) (*gemini.Client, error) {
	return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
}

func provideTextGenerator(client *gemini.Client) chat.TextGenerator {
	return client
}

func provideGeocoder(cfg *config.Config) weather.Geocoder {
	return nominatim.NewClient(cfg.Weather.GeocodeBaseURL, cfg.Weather.Timeout)
}

func provideForecaster(cfg *config.Config) weather.Forecaster {
	return openmeteo.NewClient(cfg.Weather.ForecastBaseURL, cfg.Weather.Timeout)
}

func provideGeocodeCache(cfg *config.Config, logger *slog.Logger) weather.Cache {
	if cfg.Weather.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return geocache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return geocache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("geocode valkey cache enabled", "addr", cfg.Weather.Redis.Addr)
			return geocache.NewValkeyCache(client, "geo")
		}
	}
	return geocache.NewMemoryCache()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Weather.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Weather.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Weather.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideWeatherService(geocoder weather.Geocoder, forecaster weather.Forecaster, cache weather.Cache, cfg *config.Config, logger *slog.Logger) weather.Service {
	return weather.NewService(geocoder, forecaster, cache, cfg.Weather.CacheTTL, logger)
}

func provideWeatherLookup(svc weather.Service) chat.WeatherLookup {
	return svc
}

// repositories bundles the two persistence backends so the storage driver is
// selected once for both.
type repositories struct {
	chats chat.Repository
	users auth.Repository
}

func provideRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Storage.SQLite.Path), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		chats, err := chatstore.NewSQLiteStore(db)
		if err != nil {
			return nil, err
		}
		users, err := userrepo.NewSQLiteRepository(db)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite storage enabled", "path", cfg.Storage.SQLite.Path)
		return &repositories{chats: chats, users: users}, nil
	case "postgres":
		pool, err := newPostgresPool(cfg)
		if err != nil {
			return nil, err
		}
		chats := chatstore.NewPostgresStore(pool)
		users := userrepo.NewPostgresRepository(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := users.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		if err := chats.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		logger.Info("postgres storage enabled")
		return &repositories{chats: chats, users: users}, nil
	default:
		logger.Info("memory storage enabled")
		return &repositories{
			chats: chatstore.NewMemoryStore(),
			users: userrepo.NewMemoryRepository(),
		}, nil
	}
}

func newPostgresPool(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Storage.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideChatRepository(repos *repositories) chat.Repository {
	return repos.chats
}

func provideUserRepository(repos *repositories) auth.Repository {
	return repos.users
}
