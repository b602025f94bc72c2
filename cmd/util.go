package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"marketdash/api"
	"marketdash/internal/logger"
	"marketdash/internal/repository"
	"marketdash/internal/service"
	"marketdash/internal/util"
	"marketdash/pkg/coingecko"
)

func CloseDependencies(handler *api.ApiHandler) {
	handler.Scheduler.Stop()
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	zapLogger := logger.New()

	userDb, err := repository.NewUserDb(secrets.UserDbPath)
	if err != nil {
		return nil, err
	}

	holdingsRepository := repository.NewHoldingsRepository(userDb, zapLogger)
	favoritesRepository := repository.NewFavoritesRepository(userDb, zapLogger)

	coingeckoClient := coingecko.Client{
		HttpClient: &http.Client{Timeout: 10 * time.Second},
		ApiKey:     secrets.CoinGeckoApiKey,
	}

	catalogService := service.NewCatalogService(
		zapLogger,
		service.NewCryptoSource(coingeckoClient, zapLogger),
		service.NewEquitySource(secrets.EquitySymbols, zapLogger),
	)

	dashboardService := service.NewDashboardService(
		holdingsRepository,
		favoritesRepository,
		zapLogger,
	)

	scheduler := service.NewRefreshScheduler(
		catalogService,
		dashboardService,
		time.Duration(secrets.RefreshIntervalSeconds)*time.Second,
		zapLogger,
	)

	apiHandler := &api.ApiHandler{
		DashboardService: dashboardService,
		Scheduler:        scheduler,
		DetailService:    service.NewDetailService(coingeckoClient, secrets.EquitySymbols, zapLogger),
		Db:               userDb,
		Port:             secrets.ApiPort,
		Log:              zapLogger,
	}

	return apiHandler, nil
}
