package routes

import (
	"routinepro/backend/config"
	"routinepro/backend/controllers"
	"routinepro/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authController := controllers.NewAuthController(db, cfg)
	routinesController := controllers.NewRoutinesController(db, cfg)
	progressController := controllers.NewProgressController(db, cfg)

	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)
	consumerMiddleware := middleware.ConsumerMiddleware(db, cfg)

	// Auth routes
	app.Post("/auth/signup", authController.Signup)
	app.Post("/auth/login", authController.Login)
	app.Get("/auth/getUserDetails", authMiddleware, authController.GetUserDetails)

	// Admin routes
	admin := app.Group("/admin", authMiddleware, adminMiddleware)
	admin.Post("/createRoutine", routinesController.CreateRoutine)
	admin.Put("/routines/updateRoutine/:routineId", routinesController.UpdateRoutine)
	admin.Delete("/routines/deleteRoutine/:routineId", routinesController.DeleteRoutine)
	admin.Post("/routines/addWeek/:routineId", routinesController.AddWeek)
	admin.Delete("/routines/deleteWeek/:routineId/:weekNumber", routinesController.DeleteWeek)
	admin.Put("/routines/updateWeek/:routineId/:weekNumber", routinesController.UpdateWeek)
	admin.Put("/routines/updateDay/:routineId/:weekNumber/:dayNumber", routinesController.UpdateDay)
	admin.Get("/routine/getAllUserProgresses/:routineId", progressController.GetAllUserProgresses)
	admin.Get("/routine/getAdminRoutineProgressSummary", progressController.GetAdminRoutineProgressSummary)

	// Consumer routes
	user := app.Group("/user", authMiddleware, consumerMiddleware)
	user.Post("/routine/joinRoutine/:routineId", progressController.JoinRoutine)
	user.Post("/routine/:routineId/:weekNumber/:dayNumber/:status", progressController.MarkDay)
	user.Get("/routines/getRoutineProgress/:routineId", progressController.GetRoutineProgress)
	user.Get("/routines/getAllRoutineProgress", progressController.GetAllRoutineProgress)

	// Public routes
	app.Get("/getRoutine/:routineId", routinesController.GetRoutine)
	app.Get("/getAllRoutines", routinesController.GetAllRoutines)
}
