package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/middleware"
	"github.com/noah-isme/campus-gpa-api/internal/models"
)

// RouterDeps carries everything RegisterRoutes mounts.
type RouterDeps struct {
	Auth        *AuthHandler
	Users       *UserHandler
	SemesterGPA *SemesterGPAHandler
	Metrics     *MetricsHandler

	Tokens middleware.TokenValidator
	Audit  middleware.AuditWriter
	Logger *zap.Logger

	APIPrefix      string
	MetricsEnabled bool
	DocsEnabled    bool
}

// RegisterRoutes mounts health, docs and the versioned API onto r.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", deps.Metrics.Ready)
	if deps.MetricsEnabled {
		r.GET("/metrics", deps.Metrics.Prometheus)
	}
	if deps.DocsEnabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.APIPrefix)
	authRequired := middleware.JWT(deps.Tokens)
	admin := middleware.RequireRoles(models.RoleAdmin)
	student := middleware.RequireRoles(models.RoleStudent)
	audit := func(action string, params ...string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, deps.Logger, action, models.AuditResourceSemesterGPA, params...)
	}

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh)
	auth.POST("/logout", authRequired, deps.Auth.Logout)
	auth.GET("/me", authRequired, deps.Auth.Me)

	users := api.Group("/users", authRequired)
	users.GET("/me", deps.Users.Me)
	users.PUT("/me/details", deps.Users.UpdateDetails)
	users.GET("/:userId", middleware.RBAC(string(models.RoleAdmin), "SELF"), deps.Users.Get)

	mine := api.Group("/student/semester-gpa", authRequired, student)
	mine.POST("", audit(models.AuditActionSemesterUpsert), deps.SemesterGPA.Upsert)
	mine.GET("", deps.SemesterGPA.List)
	mine.GET("/semester/:semesterId", deps.SemesterGPA.Get)
	mine.PUT("/semester/:semesterId", audit(models.AuditActionSemesterUpdate, "semesterId"), deps.SemesterGPA.Update)
	mine.DELETE("/semester/:semesterId", audit(models.AuditActionSemesterDelete, "semesterId"), deps.SemesterGPA.Delete)
	mine.GET("/cgpa", deps.SemesterGPA.CGPA)
	mine.GET("/batch-average", deps.SemesterGPA.MyBatchAverage)
	mine.GET("/transcript", deps.SemesterGPA.Transcript)

	adminGPA := api.Group("/admin/semester-gpa", authRequired, admin)
	adminGPA.POST("/user/:userId", audit(models.AuditActionSemesterUpsert, "userId"), deps.SemesterGPA.Upsert)
	adminGPA.GET("/user/:userId", deps.SemesterGPA.List)
	adminGPA.GET("/user/:userId/semester/:semesterId", deps.SemesterGPA.Get)
	adminGPA.PUT("/user/:userId/semester/:semesterId", audit(models.AuditActionSemesterUpdate, "userId", "semesterId"), deps.SemesterGPA.Update)
	adminGPA.DELETE("/user/:userId/semester/:semesterId", audit(models.AuditActionSemesterDelete, "userId", "semesterId"), deps.SemesterGPA.Delete)
	adminGPA.GET("/user/:userId/cgpa", deps.SemesterGPA.CGPA)
	adminGPA.GET("/user/:userId/transcript", deps.SemesterGPA.Transcript)
	adminGPA.GET("/batch/:uniYear", deps.SemesterGPA.BatchAverage)
	adminGPA.GET("/:id", deps.SemesterGPA.GetByID)
	adminGPA.DELETE("/:id", audit(models.AuditActionSemesterDelete, "id"), deps.SemesterGPA.DeleteByID)

	adminUsers := api.Group("/admin", authRequired, admin)
	adminUsers.GET("/users", deps.Users.List)
	adminUsers.GET("/metrics", deps.Metrics.Snapshot)
}
