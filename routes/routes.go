package routes

import (
	"github.com/ChubiniShato/pku-diet-app-sub001/controllers"
	"github.com/ChubiniShato/pku-diet-app-sub001/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Menu      *controllers.MenuController
	Pantry    *controllers.PantryController
	Norm      *controllers.NormController
	Catalog   *controllers.CatalogController
	Analytics *controllers.AnalyticsController
	Report    *controllers.ReportController
	Rec       *controllers.RecommendationController
	Device    *controllers.DeviceController
	Realtime  *controllers.RealtimeController
	Dev       *controllers.DevController
}

func SetupRouter(c Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.DELETE("/profile", controllers.DeleteAccount)
		user.POST("/notifications/toggle", controllers.ToggleNotifications)
	}

	catalog := r.Group("/catalog")
	catalog.Use(middlewares.AuthMiddleware())
	{
		catalog.GET("/products", c.Catalog.SearchProducts)
		catalog.GET("/dishes", c.Catalog.ListDishes)
		catalog.POST("/custom-products", c.Catalog.CreateCustomProduct)
		catalog.POST("/custom-dishes", c.Catalog.CreateCustomDish)
	}

	pantry := r.Group("/pantry")
	pantry.Use(middlewares.AuthMiddleware())
	{
		pantry.GET("", c.Pantry.List)
		pantry.POST("", c.Pantry.Add)
		pantry.PATCH("/:id", c.Pantry.Update)
		pantry.DELETE("/:id", c.Pantry.Remove)
		pantry.GET("/expiring", c.Pantry.ExpiringSoon)
		pantry.GET("/expired", c.Pantry.Expired)
		pantry.POST("/prices", c.Pantry.RecordPrice)
	}

	norms := r.Group("/norms")
	norms.Use(middlewares.AuthMiddleware())
	{
		norms.POST("", c.Norm.Set)
		norms.GET("/active", c.Norm.Active)
		norms.GET("/history", c.Norm.History)
	}

	menu := r.Group("/menu")
	menu.Use(middlewares.AuthMiddleware())
	{
		menu.POST("/generate", c.Menu.GenerateDay)
		menu.POST("/generate-week", c.Menu.GenerateWeek)
		menu.GET("", c.Menu.GetRange)
		menu.GET("/day/:date", c.Menu.GetDay)
		menu.GET("/day/:date/validate", c.Menu.ValidateDay)
		menu.POST("/entries/:id/consume", c.Menu.ConsumeEntry)
	}

	analytics := r.Group("/analytics")
	analytics.Use(middlewares.AuthMiddleware())
	{
		analytics.GET("/summary", c.Analytics.Summary)
	}

	reports := r.Group("/reports")
	reports.Use(middlewares.AuthMiddleware())
	{
		reports.POST("/weekly", c.Report.Weekly)
	}

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/alerts", controllers.ListAlerts)
		protected.GET("/recommendations", c.Rec.Get)
		protected.POST("/devices/register", c.Device.Register)
		protected.GET("/ws/alerts", c.Realtime.AlertsWS)
	}

	dev := r.Group("/dev")
	dev.Use(middlewares.AuthMiddleware())
	{
		dev.POST("/push-test", c.Dev.PushTest)
		dev.POST("/seed-catalog", c.Dev.SeedCatalog)
	}

	return r
}
