package api

import (
	"net/http"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	projectService service.ProjectService,
	intakeService service.IntakeService,
	applicationService service.ApplicationService,
	resumeService service.ResumeService,
	analyticsService service.AnalyticsService,
) {

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService, analyticsService)
	applicationHandler := NewApplicationHandler(intakeService, applicationService, resumeService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Public (any authenticated user) project browsing ---
		projectGroup := protected.Group("/projects")
		{
			// GET /api/v1/projects - published, visible, effectively open
			projectGroup.GET("", projectHandler.ListOpenProjects)
			// GET /api/v1/projects/{projectId}
			projectGroup.GET("/:projectId", projectHandler.GetProject)

			// POST /api/v1/projects/{projectId}/applications - student intake
			projectGroup.POST("/:projectId/applications", RoleMiddleware(domain.RoleStudent), applicationHandler.SubmitApplication)
		}

		// --- Student Specific Routes ---
		studentApiGroup := protected.Group("/student")
		studentApiGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			// GET /api/v1/student/applications
			studentApiGroup.GET("/applications", applicationHandler.GetMyApplications)
		}

		// --- Professor Specific Routes ---
		// All routes in this group require authentication AND the professor role.
		professorApiGroup := protected.Group("/professor")
		professorApiGroup.Use(RoleMiddleware(domain.RoleProfessor))
		{
			// --- Project Lifecycle Management ---
			// POST /api/v1/professor/projects (creates DRAFT)
			professorApiGroup.POST("/projects", projectHandler.CreateProject)
			// GET /api/v1/professor/projects
			professorApiGroup.GET("/projects", projectHandler.GetMyProjects)
			// POST /api/v1/professor/projects/{projectId}/publish
			professorApiGroup.POST("/projects/:projectId/publish", projectHandler.PublishProject)
			// POST /api/v1/professor/projects/{projectId}/delist
			professorApiGroup.POST("/projects/:projectId/delist", projectHandler.DelistProject)
			// DELETE /api/v1/professor/projects/{projectId}[?force=true]
			professorApiGroup.DELETE("/projects/:projectId", projectHandler.DeleteProject)

			// --- Application Review ---
			// GET /api/v1/professor/projects/{projectId}/applications
			professorApiGroup.GET("/projects/:projectId/applications", applicationHandler.GetProjectApplications)
			// GET /api/v1/professor/projects/{projectId}/applications/{applicationId}/resume
			professorApiGroup.GET("/projects/:projectId/applications/:applicationId/resume", applicationHandler.GetResumeURL)
			// POST /api/v1/professor/applications/{applicationId}/close
			professorApiGroup.POST("/applications/:applicationId/close", applicationHandler.CloseApplication)

			// --- Analytics ---
			// GET /api/v1/professor/analytics[?projectId=]
			professorApiGroup.GET("/analytics", projectHandler.GetAnalytics)
		}
	}
}
