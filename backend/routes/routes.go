package routes

import (
	"pathtracker/backend/config"
	"pathtracker/backend/controllers"
	"pathtracker/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)

	// Learning path routes
	pathsController := controllers.NewPathsController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	paths := app.Group("/api/learning-paths", authMiddleware)
	paths.Post("/", pathsController.CreatePath)
	paths.Get("/", pathsController.GetPaths)
	paths.Get("/analysis", analyticsController.GetAnalysis)
	paths.Get("/:id", pathsController.GetPath)
	paths.Delete("/:id", pathsController.DeletePath)
	paths.Post("/:id/modules", pathsController.CreateModule)
	paths.Post("/:id/modules/:moduleId/items", pathsController.CreateItem)

	// Learning item routes
	itemsController := controllers.NewItemsController(db)
	app.Patch("/api/learning-items/:id", authMiddleware, itemsController.ToggleItem)

	// Learning record routes
	recordsController := controllers.NewRecordsController(db)
	app.Post("/api/learning-records", authMiddleware, recordsController.CreateRecord)
	app.Get("/api/learning-records", authMiddleware, recordsController.GetRecords)

	// Dashboard routes
	dashboardController := controllers.NewDashboardController(db)
	app.Get("/api/dashboard/progress", authMiddleware, dashboardController.GetProgressOverview)
	app.Get("/api/dashboard/activity", authMiddleware, dashboardController.GetRecentActivity)
}
