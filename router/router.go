package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/controllers"
	"github.com/raynaldi/tabletap/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Global limiter must attach before any route is registered; gin freezes
	// each route's handler chain at registration time.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Real-time channel. Public: customers track orders over the same stream
	// staff watch.
	r.GET("/ws", controllers.WSHandler)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api.GET("/menu", menuCtrl.GetMenu)
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.GET("/tables/:number", tableCtrl.GetTableByNumber)
	api.POST("/session/table", sessionCtrl.BindTable)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:order_number", orderCtrl.GetOrderByNumber)

	auth := api.Group("/")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}
	api.POST("/logout", middlewares.AuthMiddleware(), userCtrl.Logout)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := api.Group("/staff")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("staff", "admin"))
	{
		staff.GET("/orders", orderCtrl.GetStaffOrders)
		staff.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("admin"))
	{
		admin.GET("/analytics", adminCtrl.GetAnalytics)

		admin.POST("/menu-items", menuCtrl.CreateMenuItem)
		admin.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.POST("/tables/bulk", tableCtrl.BulkCreateTables)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	}

	authed := api.Group("/auth")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/user", userCtrl.GetProfile)
	}

	return r
}
