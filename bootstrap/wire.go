package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"nudge-backend/config"
	"nudge-backend/driver"
	"nudge-backend/extractor"
	"nudge-backend/fetcher"
	"nudge-backend/handler"
	"nudge-backend/llm"
	"nudge-backend/repository"
	"nudge-backend/usecase/summarize"
	"nudge-backend/worker"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	DBPool *pgxpool.Pool
	Logger *slog.Logger

	ItemRepo    repository.ItemRepository
	SummaryRepo repository.SummaryRepository
	UserRepo    repository.UserRepository

	Engine *summarize.Engine
	Worker *worker.Worker

	ItemHandler   *handler.ItemHandler
	HealthHandler *handler.HealthHandler
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, log *slog.Logger) (*Dependencies, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	dbPool, err := driver.Init(ctx, log)
	if err != nil {
		return nil, nil, err
	}

	itemRepo := repository.NewPostgresItemRepository(dbPool, log)
	summaryRepo := repository.NewPostgresSummaryRepository(dbPool, log)
	userRepo := repository.NewPostgresUserRepository(dbPool, log)

	fetchClient := fetcher.NewClient(cfg.Fetch, log)
	extract := extractor.New(cfg.Extract, log)
	ingestWorker := worker.New(itemRepo, fetchClient, extract, cfg.Worker, log)

	summarizer := llm.NewClient(cfg.LLM, log)
	engine := summarize.NewEngine(itemRepo, summaryRepo, summarizer, cfg.Summary, cfg.LLM, log)

	itemHandler := handler.NewItemHandler(itemRepo, engine, ingestWorker, cfg.Auth, log)
	healthHandler := handler.NewHealthHandler()

	cleanup := func() {
		dbPool.Close()
	}

	return &Dependencies{
		Config:        cfg,
		DBPool:        dbPool,
		Logger:        log,
		ItemRepo:      itemRepo,
		SummaryRepo:   summaryRepo,
		UserRepo:      userRepo,
		Engine:        engine,
		Worker:        ingestWorker,
		ItemHandler:   itemHandler,
		HealthHandler: healthHandler,
	}, cleanup, nil
}
