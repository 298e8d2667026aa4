// Package server assembles the fiber application: middleware, routes and the websocket endpoint.
package server

import (
	"compta-pme-api/internal/config"
	"compta-pme-api/internal/handler"
	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/middleware"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/service"
	"compta-pme-api/internal/ws"
	"compta-pme-api/pkg/jwt"
	"compta-pme-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps carries everything the routes are wired to.
type Deps struct {
	DB          *gorm.DB
	Log         *logger.Logger
	Tokens      *jwt.Manager
	Hub         *ws.Hub
	SocieteRepo repository.SocieteRepository

	Auth        service.AuthService
	Users       service.UserService
	Clients     service.ClientService
	Budgets     service.BudgetService
	Tresorerie  service.TresorerieService
	Stock       service.StockService
	Inventaires service.InventaireService
	Chat        service.ChatService
}

// New builds the application. AccessLog is off in tests to keep output quiet.
// The /ws endpoint is only mounted when a hub is given.
func New(cfg *config.Config, d Deps, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Compta PME API v1.0",
		ErrorHandler: handler.ErrorHandler(d.Log),
	})

	// Middleware
	if accessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(metrics.Middleware())

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	clientHandler := handler.NewClientHandler(d.Clients)
	budgetHandler := handler.NewBudgetHandler(d.Budgets)
	tresorerieHandler := handler.NewTresorerieHandler(d.Tresorerie)
	stockHandler := handler.NewStockHandler(d.Stock, d.Inventaires)
	chatHandler := handler.NewChatHandler(d.Chat)

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/register-expert", authHandler.RegisterExpert)
	auth.Post("/login", authHandler.Login)

	api.Post("/users", userHandler.CreateUser)
	api.Post("/chat", chatHandler.Chat)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(d.Tokens)
	auth.Get("/me", requireAuth, authHandler.Me)
	api.Get("/users/:id", requireAuth, userHandler.GetUser)

	// Everything below is scoped to a société owned by the caller.
	societe := api.Group("/societes/:societeId", requireAuth, middleware.RequireSocieteAccess(d.SocieteRepo))

	budgets := societe.Group("/budgets")
	budgets.Post("/", budgetHandler.CreateOrUpdate)
	budgets.Get("/", budgetHandler.GetBudgets)
	budgets.Get("/comparaison", budgetHandler.GetComparaisons)
	budgets.Get("/:annee", budgetHandler.GetBudget)
	budgets.Delete("/:annee", budgetHandler.DeleteBudget)

	recettes := societe.Group("/recettes")
	recettes.Post("/", tresorerieHandler.CreateRecette)
	recettes.Get("/", tresorerieHandler.GetRecettes)
	recettes.Delete("/:id", tresorerieHandler.DeleteRecette)

	depenses := societe.Group("/depenses")
	depenses.Post("/", tresorerieHandler.CreateDepense)
	depenses.Get("/", tresorerieHandler.GetDepenses)
	depenses.Delete("/:id", tresorerieHandler.DeleteDepense)

	clients := societe.Group("/clients")
	clients.Get("/", clientHandler.GetClients)
	clients.Post("/", clientHandler.CreateClient)
	clients.Get("/:id", clientHandler.GetClient)
	clients.Patch("/:id", clientHandler.UpdateClient)
	clients.Delete("/:id", clientHandler.DeleteClient)

	stock := societe.Group("/stock")
	stock.Get("/unites", stockHandler.GetUnites)

	// /alerte is registered before /:id so it is not captured as an id.
	stock.Get("/produits/alerte", stockHandler.GetProduitsEnAlerte)
	stock.Post("/produits/alerte", stockHandler.NotifierAlertes)
	stock.Get("/produits", stockHandler.GetProduits)
	stock.Post("/produits", stockHandler.CreateProduit)
	stock.Get("/produits/:id", stockHandler.GetProduit)
	stock.Patch("/produits/:id", stockHandler.UpdateProduit)
	stock.Delete("/produits/:id", stockHandler.DeleteProduit)

	stock.Get("/mouvements", stockHandler.GetMouvements)
	stock.Post("/mouvements", stockHandler.CreateMouvement)

	stock.Get("/inventaires", stockHandler.GetInventaires)
	stock.Post("/inventaires", stockHandler.CreateInventaire)
	stock.Get("/inventaires/:id", stockHandler.GetInventaire)
	stock.Post("/inventaires/:id/lignes", stockHandler.AjouterLigne)
	stock.Post("/inventaires/:id/cloturer", stockHandler.Cloturer)

	// WebSocket Route. Each connection only receives the events of the sociétés
	// its user owns.
	if d.Hub != nil {
		app.Use("/ws", middleware.RequireWebsocketAuth(d.Tokens, d.SocieteRepo))
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			client := ws.NewClient(c, middleware.WatchedSocietes(c))
			d.Hub.Register <- client
			defer func() { d.Hub.Unregister <- client }()

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}

	return app
}
