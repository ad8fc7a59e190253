package app

import (
	"edu_quiz_backend/docs"
	"edu_quiz_backend/internal/config"
	"edu_quiz_backend/internal/middleware"
	"edu_quiz_backend/internal/model"
	"edu_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerSharedRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/self-study/register", c.selfStudy.Register)
	}
}

// Routes open to every authenticated role; services scope the results to the caller.
func (a *App) registerSharedRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/tests/:id", c.test.GetTest)
	group.POST("/test-attempts", c.attempt.SubmitAttempt)
	group.GET("/test-attempts", c.attempt.ListAttempts)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/assigned-tests", c.assignment.AssignedTests)
	}
}

func (a *App) registerInstructorRoutes(group *gin.RouterGroup, c *controllers) {
	instructor := group.Group("")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/tests", c.test.CreateTest)
		instructor.GET("/tests", c.test.ListTests)
		instructor.POST("/tests/:id/document", c.test.UploadDocument)

		instructor.POST("/student-teacher-relations", c.student.AddStudent)
		instructor.GET("/my-students", c.student.MyStudents)

		instructor.POST("/test-assignments", c.assignment.AssignTest)

		instructor.POST("/test-attempts/:id/ai-evaluate", c.attempt.AIEvaluate)
		instructor.POST("/test-attempts/:id/instructor-feedback", c.attempt.InstructorFeedback)
	}
}
