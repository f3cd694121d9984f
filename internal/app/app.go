package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"simts_backend/internal/config"
	"simts_backend/internal/controller"
	"simts_backend/internal/repository"
	"simts_backend/internal/service"
	"simts_backend/pkg/configwatcher"
	"simts_backend/pkg/database"
	"simts_backend/pkg/logger"
	"simts_backend/pkg/monitoring"
	"simts_backend/pkg/security"
	"simts_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	services *services
}

type repositories struct {
	caseRepo   *repository.CaseRepository
	collection *repository.CollectionRepository
	student    *repository.StudentRepository
	session    *repository.SessionRepository
}

type services struct {
	ai         *service.AIService
	storage    *service.StorageService
	caseSvc    *service.CaseService
	collection *service.CollectionService
	auth       *service.AuthService
	answer     *service.AnswerService
}

type controllers struct {
	auth       *controller.AuthController
	caseCtrl   *controller.CaseController
	simulation *controller.SimulationController
	collection *controller.CollectionController
	answer     *controller.AnswerController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		caseRepo:   repository.NewCaseRepository(db),
		collection: repository.NewCollectionRepository(db),
		student:    repository.NewStudentRepository(db),
		session:    repository.NewSessionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.caseSvc = service.NewCaseService(repos.caseRepo, s.ai, s.storage)
	s.collection = service.NewCollectionService(repos.collection, repos.caseRepo)
	s.auth = service.NewAuthService(repos.student, cfg.JWT)
	s.answer = service.NewAnswerService(repos.session, repos.caseRepo)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		caseCtrl:   controller.NewCaseController(s.caseSvc),
		simulation: controller.NewSimulationController(s.caseSvc),
		collection: controller.NewCollectionController(s.collection),
		answer:     controller.NewAnswerController(s.answer),
		health:     controller.NewHealthController(db, s.ai),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件变化，热更新生成服务的接入参数。
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		a.services.ai.UpdateConfig(cfg.AI)
		logger.Log.Info("AI configuration reloaded",
			zap.String("base_url", cfg.AI.BaseURL),
			zap.String("model", cfg.AI.Model))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不迁移，-migrate / -migrate-only 可强制
	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("simts-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/archive", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
