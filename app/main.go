package main

import (
	"context"
	"eventieBot/internal/assistant"
	"eventieBot/internal/config"
	"eventieBot/internal/enhancer"
	"eventieBot/internal/graceful"
	"eventieBot/internal/ingest"
	"eventieBot/internal/metrics"
	"eventieBot/internal/openrouter"
	"eventieBot/internal/orchestrator"
	"eventieBot/internal/repositories"
	"eventieBot/internal/search"
	"eventieBot/internal/store"
	telegramBot "eventieBot/internal/telegram"
	"eventieBot/internal/transport/httpServer"
	"eventieBot/internal/transport/httpServer/handlers"
	"eventieBot/internal/transport/httpServer/routers"
	"eventieBot/internal/utils/logger/handlers/slogpretty"
	"eventieBot/internal/utils/logger/sl"
	"log/slog"
	"os"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	if err := cfg.ReadPromptFromFile(); err != nil {
		log.Warn("cannot read prompt file, using built-in prompts", sl.Err(err))
	}

	log.Info(
		"starting eventie bot",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	var snap store.Snapshotter
	snap = store.NewFileSnapshot(cfg.StoreConfig.SnapshotPath)

	var repositoryService *repositories.Repository
	if cfg.StoreConfig.Backend == "postgres" {
		var err error
		repositoryService, err = repositories.NewRepository(log, cfg)
		if err != nil {
			log.Error("cannot connect to postgres, falling back to file snapshot", sl.Err(err))
		} else {
			snap = repositoryService
		}
	}

	eventStore := store.New(log, snap)
	engine := search.NewEngine(log, eventStore)

	appMetrics := metrics.New()

	aiService := openrouter.NewClient(log, cfg)
	enhancerService := enhancer.New(log, cfg, aiService)
	ingestService := ingest.New(log, cfg, eventStore, enhancerService, appMetrics)
	orchestratorService := orchestrator.New(log, cfg, ingestService)

	extractor := assistant.NewExtractor(
		log,
		aiService,
		cfg.BotConfig.AI.ExtractionMaxTokens,
		cfg.BotConfig.AI.ExtractionTemperature,
		cfg.BotConfig.AI.GetTimeout(),
	)
	controller := assistant.NewController(
		log,
		extractor,
		engine,
		aiService,
		appMetrics,
		cfg.BotConfig.AI.GenerationMaxTokens,
		cfg.BotConfig.AI.GenerationTemperature,
		cfg.BotConfig.AI.GetTimeout(),
	)
	sessions := assistant.NewSessionManager()

	tgBot, err := telegramBot.NewBot(log, cfg, controller, sessions, eventStore)
	if err != nil {
		log.Error("cannot create telegram bot", sl.Err(err))
		os.Exit(1)
	}

	// HTTP Server
	chatHandler := handlers.NewChatHandler(log, controller, sessions)
	eventHandler := handlers.NewEventHandler(log, eventStore, engine, ingestService)
	exportHandler := handlers.NewExportHandler(log, sessions)
	authHandler := handlers.NewAuthHandler(log, cfg)
	router := routers.NewRouter(log, cfg, chatHandler, eventHandler, exportHandler, authHandler, appMetrics.Registry)
	httpSrv := httpServer.NewHttpServer(log, cfg, router)

	maxSecond := 15 * time.Second
	operations := map[string]graceful.Operation{
		"Ingest service": func(ctx context.Context) error {
			return ingestService.Shutdown(ctx)
		},
		"Enhancer service": func(ctx context.Context) error {
			return enhancerService.Shutdown(ctx)
		},
		"AI service": func(ctx context.Context) error {
			return aiService.Shutdown(ctx)
		},
		"Event store": func(ctx context.Context) error {
			return eventStore.Shutdown(ctx)
		},
		"Telegram bot": func(ctx context.Context) error {
			return tgBot.Shutdown(ctx)
		},
		"Orchestrator service": func(ctx context.Context) error {
			return orchestratorService.Shutdown(ctx)
		},
		"HTTP server": func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	}
	if repositoryService != nil {
		operations["Repository service"] = func(ctx context.Context) error {
			return repositoryService.Shutdown(ctx)
		}
	}

	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		operations,
		log,
	)

	go enhancerService.Start()
	go ingestService.Start()
	go orchestratorService.Start()
	go tgBot.Start(30)
	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = setupPrettySlog(slog.LevelInfo)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
