package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/metrics"
	"github.com/polkiloo/pocha/internal/server/http/handlers"
	"github.com/polkiloo/pocha/internal/server/http/middleware"
)

// StreamPath is served uncompressed so events flush immediately.
const StreamPath = "/api/orders/stream"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PochaFacade, reg *metrics.Registry, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(reg))
	engine.Use(middleware.DecompressRequest())
	engine.Use(middleware.Compress(StreamPath))

	engine.GET("/healthz", handlers.Health(facade, logger))
	engine.GET("/metrics", gin.WrapH(reg.Handler()))

	catalog := handlers.NewCatalogHandler(facade, logger)
	cart := handlers.NewCartHandler(facade, logger)
	orders := handlers.NewOrderHandler(facade, logger)
	stream := handlers.NewStreamHandler(facade, cfg.StreamKeepAlive, logger)
	analytics := handlers.NewAnalyticsHandler(facade, logger)
	users := handlers.NewUserHandler(facade, logger)

	api := engine.Group("/api")
	api.Use(middleware.IdentifyCaller(facade, logger))

	signedIn := api.Group("")
	signedIn.Use(middleware.RequireCaller())

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())

	api.GET("/items", catalog.ListItems)
	admin.POST("/items/create", catalog.CreateItem)
	admin.POST("/items/edit", catalog.EditItem)
	admin.DELETE("/items/delete", catalog.DeleteItem)

	for _, kind := range []string{"organizations", "itemTypes"} {
		list, create, edit, remove := catalog.LabelHandlers(kind)
		api.GET("/"+kind, list)
		admin.POST("/"+kind+"/create", create)
		admin.POST("/"+kind+"/edit", edit)
		admin.DELETE("/"+kind+"/delete", remove)
	}

	api.GET("/tables", catalog.ListTables)
	admin.POST("/tables/create", catalog.CreateTable)
	admin.POST("/tables/edit", catalog.EditTable)
	admin.DELETE("/tables/delete", catalog.DeleteTable)

	signedIn.GET("/cart", cart.Get)
	signedIn.POST("/cart/create", cart.Add)
	signedIn.POST("/cart/edit", cart.Replace)

	signedIn.GET("/orders", orders.List)
	signedIn.POST("/orders/create", orders.Create)
	admin.POST("/orders/edit", orders.Edit)
	admin.POST("/orders/updateStatus", orders.UpdateStatus)
	admin.DELETE("/orders/delete", orders.Delete)
	admin.GET("/orders/stream", stream.Orders)

	admin.GET("/analytics/order", analytics.Orders)
	admin.GET("/analytics/profit", analytics.Profit)

	signedIn.GET("/user", users.Get)
	signedIn.GET("/user/profile", users.Get)
	signedIn.PUT("/user", users.SaveProfile)
	signedIn.PUT("/user/profile", users.SaveProfile)
	admin.POST("/users/role", users.SetRole)

	return engine
}
