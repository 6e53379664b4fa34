package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/handlers"
	"github.com/mindbankhq/mindbank-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupCategoryRoutes sets up category CRUD and CSV import/export.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB) {
	categoryHandler := &handlers.CategoryHandler{DB: db}
	importHandler := &handlers.CategoryImportHandler{
		DB:      db,
		Service: services.NewImportService(db),
	}

	rg.GET("/categories", categoryHandler.GetCategories)
	rg.POST("/categories", categoryHandler.CreateCategory)
	rg.GET("/categories/export", importHandler.ExportCategories)
	rg.POST("/categories/import", importHandler.ImportCategories)
	rg.GET("/categories/:id", categoryHandler.GetCategory)
	rg.PUT("/categories/:id", categoryHandler.UpdateCategory)
	rg.DELETE("/categories/:id", categoryHandler.DeleteCategory)
}

// SetupTaskRoutes sets up the kanban board routes.
func SetupTaskRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	taskHandler := &handlers.TaskHandler{DB: db, WS: ws}

	rg.GET("/tasks", taskHandler.GetTasks)
	rg.POST("/tasks", taskHandler.CreateTask)
	rg.GET("/tasks/:id", taskHandler.GetTask)
	rg.PUT("/tasks/:id", taskHandler.UpdateTask)
	rg.POST("/tasks/:id/move", taskHandler.MoveTask)
	rg.DELETE("/tasks/:id", taskHandler.DeleteTask)
}

// SetupMBBRoutes sets up the mental bank balance timer routes.
func SetupMBBRoutes(rg *gin.RouterGroup, db *sql.DB) {
	mbbHandler := &handlers.MBBHandler{Service: services.NewMBBService(db)}

	rg.POST("/mbb/start", mbbHandler.StartTimer)
	rg.POST("/mbb/stop", mbbHandler.StopTimer)
	rg.GET("/mbb/entries", mbbHandler.GetEntries)
	rg.GET("/mbb/balance", mbbHandler.GetBalance)
	rg.GET("/mbb/chart", mbbHandler.GetChart)
}

// SetupJournalRoutes sets up journal routes.
func SetupJournalRoutes(rg *gin.RouterGroup, db *sql.DB, storage *services.StorageService) {
	journalHandler := &handlers.JournalHandler{
		DB:          db,
		Storage:     storage,
		Transcriber: services.NewTranscriberService(),
	}

	rg.GET("/journal", journalHandler.GetEntries)
	rg.POST("/journal", journalHandler.CreateEntry)
	rg.GET("/journal/:id", journalHandler.GetEntry)
	rg.PUT("/journal/:id", journalHandler.UpdateEntry)
	rg.DELETE("/journal/:id", journalHandler.DeleteEntry)
	rg.POST("/journal/:id/audio", journalHandler.UploadAudio)
}

// SetupVisionRoutes sets up vision board routes.
func SetupVisionRoutes(rg *gin.RouterGroup, db *sql.DB, storage *services.StorageService, ws *handlers.WSHandler) {
	visionHandler := &handlers.VisionHandler{DB: db, Storage: storage, WS: ws}

	rg.GET("/vision", visionHandler.GetItems)
	rg.POST("/vision", visionHandler.CreateItem)
	rg.POST("/vision/upload", visionHandler.UploadMedia)
	rg.PUT("/vision/reorder", visionHandler.ReorderItems)
	rg.PUT("/vision/:id", visionHandler.UpdateItem)
	rg.DELETE("/vision/:id", visionHandler.DeleteItem)
}
