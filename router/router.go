package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/controllers"
	"github.com/mesarest/comanda-app/kds"
	"github.com/mesarest/comanda-app/middlewares"
	"github.com/mesarest/comanda-app/notifier"
	"github.com/mesarest/comanda-app/services"
)

func SetupRouter(db *gorm.DB, hub *kds.Hub, dispatcher *notifier.Dispatcher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())

	gateway := services.NewSessionGateway(db)
	builder := services.NewOrderBuilder(db, dispatcher)

	orderCtrl := controllers.NewOrderController(db, builder, dispatcher)
	sessionCtrl := controllers.NewSessionController(db, gateway)
	sessionOrderCtrl := controllers.NewSessionOrderController(db, gateway, builder)
	kdsCtrl := controllers.NewKDSController(hub)

	rateLimiter := middlewares.NewRateLimiter(5, 10)

	api := r.Group("/api")

	// Staff surface
	staff := api.Group("")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.POST("/tables/:table_id/orders", orderCtrl.CreateOrder)
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.PATCH("/orders/:order_id/status", orderCtrl.ChangeStatus)
		staff.DELETE("/orders/:order_id", middlewares.RequireRole("admin", "staff"), orderCtrl.DeleteOrder)
		staff.GET("/kitchen/orders", middlewares.RequireRole("chef", "staff", "admin"), orderCtrl.GetKitchenDisplay)

		staff.POST("/sessions", sessionCtrl.OpenSession)
		staff.PATCH("/sessions/:session_id/close", sessionCtrl.CloseSession)
	}

	// Diner surface: the session token is the credential
	diner := api.Group("/session-orders")
	diner.Use(rateLimiter.RateLimit())
	{
		diner.POST("/:token", sessionOrderCtrl.CreateOrder)
		diner.GET("/:token", sessionOrderCtrl.GetHistory)
	}

	r.GET("/ws/kitchen", kdsCtrl.KitchenSocket)

	return r
}
