//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/climalab/clima-chat/internal/bootstrap"
	"github.com/climalab/clima-chat/internal/domain/auth"
	"github.com/climalab/clima-chat/internal/domain/chat"
	"github.com/climalab/clima-chat/internal/infra/config"
	httpiface "github.com/climalab/clima-chat/internal/interface/http"
	"github.com/climalab/clima-chat/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideChatOptions,
		provideClassifier,
		provideFormatter,
		provideGeminiClient,
		provideTextGenerator,
		provideGeocoder,
		provideForecaster,
		provideGeocodeCache,
		provideWeatherService,
		provideWeatherLookup,
		provideRepositories,
		provideChatRepository,
		provideUserRepository,
		auth.NewService,
		chat.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
