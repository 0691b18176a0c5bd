package main

import (
	"log"

	"github.com/ChubiniShato/pku-diet-app-sub001/config"
	"github.com/ChubiniShato/pku-diet-app-sub001/controllers"
	"github.com/ChubiniShato/pku-diet-app-sub001/routes"
	"github.com/ChubiniShato/pku-diet-app-sub001/services"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}
	services.InitAlertDeps(config.DB, hub, push)

	catalog := services.NewCatalogService(config.DB)
	pantry := services.NewPantryService(config.DB)
	scoring := services.NewScoringService(services.DefaultScoringPolicy())
	variety := services.NewVarietyService(config.DB)
	norms := services.NewNormsService(config.DB)
	menu := services.NewMenuService(config.DB, catalog, pantry, scoring, variety, norms)
	analytics := services.NewAnalyticsService(config.DB, menu)
	report := services.NewReportService(analytics, menu)
	rec := services.NewRecService()

	r := routes.SetupRouter(routes.Controllers{
		Menu:      controllers.NewMenuController(menu),
		Pantry:    controllers.NewPantryController(pantry),
		Norm:      controllers.NewNormController(norms),
		Catalog:   controllers.NewCatalogController(catalog),
		Analytics: controllers.NewAnalyticsController(analytics, norms),
		Report:    controllers.NewReportController(report, norms),
		Rec:       controllers.NewRecommendationController(rec, menu, norms),
		Device:    controllers.NewDeviceController(push),
		Realtime:  controllers.NewRealtimeController(hub),
		Dev:       controllers.NewDevController(push, catalog),
	})
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
