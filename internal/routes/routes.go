package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lifetrack/internal/authz"
	"lifetrack/internal/handlers"
	"lifetrack/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	loginLimiter *middleware.IPRateLimiter,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	xpHandler *handlers.XPHandler,
	rewardHandler *handlers.RewardHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := r.Group("/", middleware.RateLimit(loginLimiter))
	{
		limited.POST("/login", authHandler.Login)
		limited.POST("/register", authHandler.Register)
	}
	r.POST("/refresh", authHandler.Refresh)

	// ---- protected
	api := r.Group("/", middleware.AuthMiddleware(jwtSecret))

	api.POST("/logout", authHandler.Logout)
	api.GET("/me", userHandler.Me)
	api.PUT("/me/notifications", userHandler.UpdateNotifications)
	api.GET("/users", middleware.RequireRole(authz.RoleAdmin), userHandler.List)

	// TASKS
	tasks := api.Group("/tasks")
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/day/:date", taskHandler.ForDate)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/toggle", taskHandler.Toggle)
	}

	// XP
	xp := api.Group("/xp")
	{
		xp.POST("/calculate", xpHandler.Calculate)
		xp.GET("/balance", xpHandler.Balance)
		xp.GET("/history", xpHandler.History)
		xp.GET("/guide", xpHandler.Guide)
	}

	// REWARDS
	rewards := api.Group("/rewards")
	{
		rewards.GET("", rewardHandler.List)
		rewards.GET("/near", xpHandler.NearEarned)
		rewards.POST("/:id/redeem", rewardHandler.Redeem)

		admin := rewards.Group("", middleware.RequireRole(authz.RoleAdmin))
		admin.POST("", rewardHandler.Create)
		admin.PUT("/:id", rewardHandler.Update)
		admin.DELETE("/:id", rewardHandler.Delete)
	}

	// REPORTS
	reports := api.Group("/reports")
	{
		reports.GET("/day/:date", reportHandler.Day)
		reports.GET("/day/:date/pdf", reportHandler.DayPDF)
	}

	return r
}
