package router

import (
	"net/http"
	"time"

	authsvc "bartr-backend/internal/application/auth"
	notifsvc "bartr-backend/internal/application/notifications"
	prodsvc "bartr-backend/internal/application/products"
	txsvc "bartr-backend/internal/application/transactions"
	usersvc "bartr-backend/internal/application/users"
	"bartr-backend/internal/config"
	"bartr-backend/internal/infrastructure/database"
	authhandler "bartr-backend/internal/interfaces/handlers/auth"
	healthhandler "bartr-backend/internal/interfaces/handlers/health"
	notifhandler "bartr-backend/internal/interfaces/handlers/notifications"
	prodhandler "bartr-backend/internal/interfaces/handlers/products"
	txhandler "bartr-backend/internal/interfaces/handlers/transactions"
	userhandler "bartr-backend/internal/interfaces/handlers/users"
	"bartr-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.StatsMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
		StartedAt:      time.Now(),
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		if errDB = database.AutoMigrate(db); errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	if db != nil && rdb != nil {
		// Notifications double as the engine's notifier.
		ns := &notifsvc.Service{DB: db}
		txs := &txsvc.Service{DB: db, Notifier: ns}
		us := &usersvc.Service{DB: db, Cleaner: txs}
		ps := &prodsvc.Service{DB: db, Cleaner: txs}
		projector := &txsvc.Projector{DB: db}

		ah := &authhandler.Handlers{
			UserFinder: &authsvc.GormUserFinder{DB: db},
			Users:      us,
			Rdb:        rdb,
			Config:     sessionCfg,
		}
		ag := app.Group("/api/v1/auth")
		ag.Post("/register", ah.Register)
		ag.Post("/login", ah.Login)
		ag.Get("/me", ah.Me)
		ag.Delete("/logout", ah.Logout)

		// Products — catalog reads are public, writes require a live account.
		ph := &prodhandler.Handlers{Service: ps}
		app.Get("/api/v1/products", ph.List)
		app.Get("/api/v1/products/:productId", ph.GetByID)
		pg := app.Group("/api/v1/products", middleware.RequireAuth(), middleware.RequireActive(db))
		pg.Post("/", ph.Create)
		pg.Patch("/:productId/availability", ph.SetAvailability)
		pg.Delete("/:productId", ph.Delete)

		// Users
		uh := &userhandler.Handlers{Service: us}
		ug := app.Group("/api/v1/users", middleware.RequireAuth(), middleware.RequireActive(db))
		ug.Get("/blocked", uh.ListBlocked)
		ug.Get("/:userId", uh.ViewUser)
		ug.Post("/block/:userId", uh.Block)
		ug.Delete("/block/:userId", uh.Unblock)

		// Transactions
		txh := &txhandler.Handlers{Service: txs, Projector: projector}
		txg := app.Group("/api/v1/transactions", middleware.RequireAuth(), middleware.RequireActive(db))
		txg.Post("/", txh.Initiate)
		txg.Get("/", txh.List)
		txg.Get("/product/:productId", txh.ProductTransactions)
		txg.Get("/:transactionId", txh.Details)
		txg.Patch("/initiate/:transactionId", txh.UpdateAsInitiator)
		txg.Patch("/recipient/:transactionId", txh.UpdateAsRecipient)

		// Notifications
		nh := &notifhandler.Handlers{Service: ns}
		ng := app.Group("/api/v1/notifications", middleware.RequireAuth())
		ng.Get("/", nh.List)
		ng.Patch("/:notificationId/read", nh.MarkRead)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
