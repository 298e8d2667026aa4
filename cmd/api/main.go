package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"compta-pme-api/internal/config"
	"compta-pme-api/internal/jobs"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/server"
	"compta-pme-api/internal/service"
	"compta-pme-api/internal/ws"
	"compta-pme-api/pkg/database"
	"compta-pme-api/pkg/jwt"
	"compta-pme-api/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.IsDevelopment()})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, cfg.IsDevelopment(), appLog)
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db, cfg.Migrations, appLog); err != nil {
		appLog.Fatalw("failed to migrate database", "error", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(appLog)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	societeRepo := repository.NewSocieteRepo(db)
	clientRepo := repository.NewClientRepo(db)
	budgetRepo := repository.NewBudgetRepo(db)
	tresorerieRepo := repository.NewTresorerieRepo(db)
	produitRepo := repository.NewProduitRepo(db)
	mouvementRepo := repository.NewMouvementRepo(db)
	inventaireRepo := repository.NewInventaireRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	stockService := service.NewStockService(db, produitRepo, mouvementRepo, wsHub, appLog)

	app := server.New(cfg, server.Deps{
		DB:          db,
		Log:         appLog,
		Tokens:      tokens,
		Hub:         wsHub,
		SocieteRepo: societeRepo,
		Auth:        service.NewAuthService(db, userRepo, societeRepo, tokens, appLog),
		Users:       service.NewUserService(userRepo),
		Clients:     service.NewClientService(clientRepo),
		Budgets:     service.NewBudgetService(budgetRepo, tresorerieRepo),
		Tresorerie:  service.NewTresorerieService(tresorerieRepo, clientRepo),
		Stock:       stockService,
		Inventaires: service.NewInventaireService(db, inventaireRepo, produitRepo, mouvementRepo, wsHub, appLog),
		Chat:        service.NewChatService(),
	}, true)

	// 5. Scheduled low-stock scan
	if cfg.StockAlertCron != "" {
		scanner := jobs.NewStockAlertScanner(societeRepo, stockService, appLog)
		scheduler, err := scanner.Start(cfg.StockAlertCron)
		if err != nil {
			appLog.Fatalw("invalid STOCK_ALERT_CRON", "schedule", cfg.StockAlertCron, "error", err)
		}
		defer scheduler.Stop()
	}

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Panicw("server stopped", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		appLog.Errorw("server forced to shutdown", "error", err)
	}

	appLog.Info("Server exited")
}
