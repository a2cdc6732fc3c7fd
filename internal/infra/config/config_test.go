package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "gemini-pro", cfg.LLM.Model)
	require.Equal(t, "https://nominatim.openstreetmap.org", cfg.Weather.GeocodeBaseURL)
	require.Equal(t, "Bogotá", cfg.Weather.DefaultCity)
	require.Equal(t, 50, cfg.Chat.MaxContextTurns)
	require.Equal(t, WeatherFallbackModel, cfg.Chat.WeatherFallback)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/chats/*/messages")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")
	t.Setenv("CHAT_WEATHER_FALLBACK", "apology")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("WEATHER_DEFAULT_CITY", "Medellín")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, WeatherFallbackApology, cfg.Chat.WeatherFallback)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, "/tmp/test.db", cfg.Storage.SQLite.Path)
	require.Equal(t, "Medellín", cfg.Weather.DefaultCity)
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := defaultConfig()
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownFallback(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.Secret = "s"
	cfg.Chat.WeatherFallback = "retry"
	require.ErrorContains(t, cfg.Validate(), "weatherFallback")
}

func TestValidateRejectsUnknownStorageDriver(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.Secret = "s"
	cfg.Storage.Driver = "mysql"
	require.ErrorContains(t, cfg.Validate(), "storage.driver")
}
