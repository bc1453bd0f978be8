package app

import (
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/security"
	"learnpath_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *App) setupRouter() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	r.Use(security.Secure())
	if a.Config.RateLimit.MaxRequests > 0 {
		r.Use(security.RateLimiter(
			a.Config.RateLimit.MaxRequests,
			time.Duration(a.Config.RateLimit.WindowMinutes)*time.Minute))
	}
	if a.Config.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	r.Use(monitoring.MetricsMiddleware())

	r.GET("/health", a.healthController.Health)
	r.GET("/metrics", monitoring.PrometheusHandler())

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", a.authController.Register)
			auth.POST("/login", a.authController.Login)
			auth.POST("/logout", a.authController.Logout)
		}

		v1.GET("/courses/templates", a.courseController.AvailableCourses)

		users := v1.Group("/users/:username")
		{
			users.GET("/courses", a.courseController.UserCourses)
			users.POST("/courses", a.courseController.CreateCustomCourse)
			users.GET("/dashboard", a.progressController.Dashboard)
			users.POST("/answers", a.learningController.SubmitAnswer)

			course := users.Group("/courses/:courseName")
			{
				course.POST("/plan", a.courseController.GeneratePlan)
				course.GET("/plan", a.courseController.GetPlan)
				course.GET("/progress", a.progressController.CourseProgress)
				course.GET("/days", a.learningController.DayStatuses)

				day := course.Group("/days/:day")
				{
					day.GET("/status", a.learningController.DayStatus)
					day.GET("/questions", a.learningController.GetQuestions)
					day.POST("/questions/generate", a.learningController.GenerateQuestions)
					day.POST("/questions/regenerate", a.learningController.RegenerateQuestions)
					day.GET("/review", a.learningController.QuestionsReview)
				}
			}
		}
	}

	return r
}
