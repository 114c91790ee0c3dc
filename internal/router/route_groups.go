package router

import (
	"shiftforge/internal/handlers"
	"shiftforge/internal/middleware"
	"shiftforge/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupPositionRoutes sets up the position routes. Reads are open to any
// authenticated user so employees can pick a position when submitting
// availability; writes are admin only.
func SetupPositionRoutes(authenticatedGroup *gin.RouterGroup, positionHandler *handlers.PositionHandler) {
	positionWriteRoutes := authenticatedGroup.Group("/positions")
	positionWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		positionWriteRoutes.POST("", positionHandler.CreatePosition)
		positionWriteRoutes.PUT("/:id", positionHandler.UpdatePosition)
		positionWriteRoutes.DELETE("/:id", positionHandler.DeletePosition)
	}

	authenticatedGroup.GET("/positions", positionHandler.GetPositions)
	authenticatedGroup.GET("/positions/:id", positionHandler.GetPositionByID)
}

// SetupStaffingRuleRoutes sets up the staffing rule routes.
func SetupStaffingRuleRoutes(authenticatedGroup *gin.RouterGroup, ruleHandler *handlers.StaffingRuleHandler) {
	ruleRoutes := authenticatedGroup.Group("/staffing-rules")
	ruleRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		ruleRoutes.POST("", ruleHandler.CreateStaffingRule)
		ruleRoutes.GET("", ruleHandler.GetStaffingRules)
		ruleRoutes.PUT("/:id", ruleHandler.UpdateStaffingRule)
		ruleRoutes.DELETE("/:id", ruleHandler.DeleteStaffingRule)
	}
}

// SetupEmployeeRoutes sets up the employee management routes.
func SetupEmployeeRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	employeeRoutes := authenticatedGroup.Group("/employees")
	employeeRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		employeeRoutes.POST("", authHandler.CreateEmployee)
		employeeRoutes.GET("", authHandler.GetEmployees)
	}
}

// SetupShiftRequestRoutes sets up the shift request routes. Employees manage
// their own requests; listing the full pool and deciding statuses is admin only.
func SetupShiftRequestRoutes(authenticatedGroup *gin.RouterGroup, requestHandler *handlers.ShiftRequestHandler) {
	requestRoutes := authenticatedGroup.Group("/shift-requests")
	{
		requestRoutes.POST("", requestHandler.CreateShiftRequest)
		requestRoutes.GET("/mine", requestHandler.GetOwnShiftRequests)
		requestRoutes.PUT("/:id", requestHandler.UpdateShiftRequest)
		requestRoutes.DELETE("/:id", requestHandler.DeleteShiftRequest)

		requestRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin), requestHandler.GetShiftRequests)
		requestRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware(models.RoleAdmin), requestHandler.UpdateShiftRequestStatus)
	}
}

// SetupShiftRoutes sets up the shift routes, including the auto-assignment
// run and the month-level finalize/clear operations.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	{
		shiftRoutes.GET("/mine", shiftHandler.GetOwnShifts)
		shiftRoutes.GET("/total-hours", shiftHandler.GetTotalHours)

		adminShiftRoutes := shiftRoutes.Group("")
		adminShiftRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminShiftRoutes.GET("", shiftHandler.GetShifts)
			adminShiftRoutes.POST("", shiftHandler.CreateShift)
			adminShiftRoutes.PUT("/:id", shiftHandler.UpdateShift)
			adminShiftRoutes.DELETE("/:id", shiftHandler.DeleteShift)
			adminShiftRoutes.POST("/auto-assign", shiftHandler.AutoAssign)
			adminShiftRoutes.POST("/finalize", shiftHandler.FinalizeMonth)
			adminShiftRoutes.POST("/clear-drafts", shiftHandler.ClearDrafts)
		}
	}
}

// SetupDashboardRoutes sets up the admin dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		dashboardRoutes.GET("/stats", shiftHandler.GetDashboardStats)
	}
}
