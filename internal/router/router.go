package router

import (
	"database/sql"

	"shiftforge/internal/handlers"
	"shiftforge/internal/middleware"
	"shiftforge/internal/repositories"
	"shiftforge/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	positionRepo := repositories.NewPositionRepository(db)
	ruleRepo := repositories.NewStaffingRuleRepository(db)
	requestRepo := repositories.NewShiftRequestRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, db)
	positionService := services.NewPositionService(positionRepo, db)
	ruleService := services.NewStaffingRuleService(ruleRepo, positionRepo, db)
	requestService := services.NewShiftRequestService(requestRepo, positionRepo, db)
	shiftService := services.NewShiftService(shiftRepo, requestRepo, ruleRepo, db)
	assignmentService := services.NewAssignmentService(requestRepo, ruleRepo, shiftRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	positionHandler := handlers.NewPositionHandler(positionService)
	ruleHandler := handlers.NewStaffingRuleHandler(ruleService)
	requestHandler := handlers.NewShiftRequestHandler(requestService)
	shiftHandler := handlers.NewShiftHandler(shiftService, assignmentService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupPositionRoutes(authenticated, positionHandler)
		SetupStaffingRuleRoutes(authenticated, ruleHandler)
		SetupEmployeeRoutes(authenticated, authHandler)
		SetupShiftRequestRoutes(authenticated, requestHandler)
		SetupShiftRoutes(authenticated, shiftHandler)
		SetupDashboardRoutes(authenticated, shiftHandler)
	}
}
