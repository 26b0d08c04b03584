package web

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/config"
	"github.com/kpdgayao/vivita-inventory/database"
	"github.com/kpdgayao/vivita-inventory/web/handlers"
	"github.com/kpdgayao/vivita-inventory/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
	log *zap.Logger
}

// NewServer creates a new Fiber server
func NewServer(cfg config.AppConfig, h *handlers.Handler, queries *database.QueryLogger, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if queries == nil {
		queries = database.SQLLogger
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.IsDevelopment())
	for name, fn := range TemplateFuncs(cfg.Currency, loc) {
		engine.AddFunc(name, fn)
	}

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(queries, log),
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log, handlers.StatusFor))
	app.Use(middleware.SQLDebugMiddleware(queries))
	app.Use(middleware.MethodOverride())

	// Static files
	app.Static("/static", filepath.Join(filepath.Dir(cfg.TemplatesDir), "static"))

	setupRoutes(app, h)

	return &Server{app: app, log: log}, nil
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the server
func (s *Server) Start(port string) error {
	s.log.Info("server starting", zap.String("addr", "http://localhost:"+port))
	return s.app.Listen(":" + port)
}

// Shutdown waits for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(queries *database.QueryLogger, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := handlers.StatusFor(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request error", fields...)
		} else {
			log.Debug("request error", fields...)
		}

		if handlers.WantsJSON(c) {
			return c.Status(code).JSON(handlers.ErrorBody(err, code))
		}

		msg := err.Error()
		if code >= fiber.StatusInternalServerError {
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				msg = "Something went wrong. Please try again."
			}
		}
		sqlQueries := middleware.RequestQueries(c, queries)
		rerr := c.Status(code).Render("pages/error", fiber.Map{
			"Title":           "Error",
			"Error":           msg,
			"Code":            code,
			"SQLQueries":      sqlQueries,
			"TotalSQLQueries": len(sqlQueries),
		}, "layouts/base")
		if rerr != nil {
			log.Error("render error page", zap.Error(rerr))
			return c.Status(code).SendString(msg)
		}
		return nil
	}
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/", h.Dashboard)
	app.Get("/healthz", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Items (specific routes before :id)
	items := app.Group("/items")
	items.Get("/", h.ItemList)
	items.Get("/new", h.ItemNew)
	items.Post("/", h.ItemCreate)
	items.Get("/:id", h.ItemView)
	items.Get("/:id/edit", h.ItemEdit)
	items.Get("/:id/ledger", h.ItemLedger)
	items.Put("/:id", h.ItemUpdate)
	items.Delete("/:id", h.ItemDelete)

	suppliers := app.Group("/suppliers")
	suppliers.Get("/", h.SupplierList)
	suppliers.Get("/new", h.SupplierNew)
	suppliers.Post("/", h.SupplierCreate)
	suppliers.Get("/:id/edit", h.SupplierEdit)
	suppliers.Put("/:id", h.SupplierUpdate)
	suppliers.Delete("/:id", h.SupplierDelete)

	transactions := app.Group("/transactions")
	transactions.Get("/", h.TransactionList)
	transactions.Get("/new", h.TransactionNew)
	transactions.Post("/", h.TransactionCreate)
	transactions.Get("/:id", h.TransactionView)

	app.Get("/analytics", h.AnalyticsPage)
	app.Get("/alerts", h.Alerts)
	app.Get("/export/transactions.csv", h.ExportTransactions)

	// API endpoints
	api := app.Group("/api")
	api.Get("/items", h.ItemList)
	api.Post("/items", h.ItemCreate)
	api.Get("/items/:id", h.ItemView)
	api.Put("/items/:id", h.ItemUpdate)
	api.Delete("/items/:id", h.ItemDelete)
	api.Get("/items/:id/ledger", h.ItemLedger)
	api.Get("/suppliers", h.SupplierList)
	api.Post("/suppliers", h.SupplierCreate)
	api.Get("/transactions", h.TransactionList)
	api.Post("/transactions", h.TransactionCreate)
	api.Get("/transactions/:id", h.TransactionView)
	api.Get("/analytics/summary", h.GetSummary)
	api.Get("/analytics/categories", h.GetCategories)
	api.Get("/analytics/trends", h.GetTrends)
	api.Get("/analytics", h.AnalyticsPage)
	api.Get("/alerts", h.Alerts)

	// Debug endpoint for SQL logs
	api.Get("/debug/sql", h.GetSQLLogs)
	api.Delete("/debug/sql", h.ClearSQLLogs)
}
