package app

import (
	"taskboard/internal/app/audit"
	"taskboard/internal/app/board"
	"taskboard/internal/app/boardview"
	"taskboard/internal/app/card"
	"taskboard/internal/app/health"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/label"
	"taskboard/internal/app/list"
	"taskboard/internal/app/orglimit"
	"taskboard/internal/app/upload"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/db/seeder"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/providers/minio"
	"taskboard/internal/providers/redis"
	"taskboard/internal/router"
	"taskboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.BoardViewTTL)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider", zap.Error(err))
		minioProvider = nil
	}
	eventBus := utils.NewEventBus()

	identityRepo := identity.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	listRepo := list.NewRepository(dbConn)
	cardRepo := card.NewRepository(dbConn)
	labelRepo := label.NewRepository(dbConn)
	auditRepo := audit.NewRepository(dbConn)
	limitRepo := orglimit.NewRepository(dbConn)

	identityService := identity.NewService(identityRepo)
	auditService := audit.NewService(auditRepo, identityService, logger)
	limitService := orglimit.NewService(limitRepo, cfg.MaxFreeBoards)

	viewService := boardview.NewService(
		boardRepo, listRepo, cardRepo, labelRepo,
		redisProvider, eventBus, logger, cfg.BoardViewTTL,
	)

	boardService := board.NewService(boardRepo, limitService, auditService, viewService, logger)
	listService := list.NewService(listRepo, cardRepo, auditService, viewService, logger)
	cardService := card.NewService(cardRepo, auditService, viewService, logger)
	labelService := label.NewService(labelRepo, auditService, viewService, logger)

	hub := websocket.NewHub(eventBus, logger)
	go hub.Run()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	wsHandler := websocket.NewServeWSHandler(hub, identityService)
	identityHandler := identity.NewHandler(identityService)
	boardHandler := board.NewHandler(boardService, identityService)
	viewHandler := boardview.NewHandler(viewService, identityService)
	listHandler := list.NewHandler(listService, identityService)
	cardHandler := card.NewHandler(cardService, identityService)
	labelHandler := label.NewHandler(labelService, identityService)
	auditHandler := audit.NewHandler(auditService, identityService)
	limitHandler := orglimit.NewHandler(limitService, identityService)
	uploadHandler := upload.NewHandler(minioProvider, identityService, cfg.MaxFileSize, logger)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(wsHandler)
	r.RegisterIdentityRoutes(identityHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterBoardViewRoutes(viewHandler)
	r.RegisterListRoutes(listHandler)
	r.RegisterCardRoutes(cardHandler)
	r.RegisterLabelRoutes(labelHandler)
	r.RegisterAuditRoutes(auditHandler)
	r.RegisterOrgLimitRoutes(limitHandler)
	r.RegisterUploadRoutes(uploadHandler)

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
