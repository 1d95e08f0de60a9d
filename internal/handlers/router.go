package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/services"
	"github.com/steamlab-platform/lab-service/internal/utils"
)

type HandlerManager struct {
	userHandler        *UserHandler
	schoolHandler      *SchoolHandler
	labHandler         *LabHandler
	teacherHandler     *TeacherHandler
	studentHandler     *StudentHandler
	enrollmentHandler  *EnrollmentHandler
	projectHandler     *ProjectHandler
	markHandler        *MarkHandler
	dashboardHandler   *DashboardHandler
	leaderboardHandler *LeaderboardHandler
	reportHandler      *ReportHandler
	authMiddleware     *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		userHandler:        NewUserHandler(serviceManager.User(), logger),
		schoolHandler:      NewSchoolHandler(serviceManager.School(), logger),
		labHandler:         NewLabHandler(serviceManager.Lab(), logger),
		teacherHandler:     NewTeacherHandler(serviceManager.Teacher(), logger),
		studentHandler:     NewStudentHandler(serviceManager.Student(), logger),
		enrollmentHandler:  NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		projectHandler:     NewProjectHandler(serviceManager.Project(), logger),
		markHandler:        NewMarkHandler(serviceManager.Mark(), logger),
		dashboardHandler:   NewDashboardHandler(serviceManager.Dashboard(), logger),
		leaderboardHandler: NewLeaderboardHandler(serviceManager.Leaderboard(), logger),
		reportHandler:      NewReportHandler(serviceManager.Report(), logger),
		authMiddleware:     NewAuthMiddleware(tokens, userRepo),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	staff := []models.UserRole{models.RoleAdmin, models.RoleSubAdmin, models.RoleLabHead, models.RoleTeacher}
	administrative := []models.UserRole{models.RoleAdmin, models.RoleSubAdmin}
	labManagement := []models.UserRole{models.RoleAdmin, models.RoleSubAdmin, models.RoleLabHead}

	// Public routes
	router.POST("/api/v1/auth/login", hm.userHandler.Login)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.Authenticate())
	{
		// Own account
		me := v1.Group("/me")
		{
			me.GET("", hm.userHandler.GetMe)
			me.PUT("", hm.userHandler.UpdateMe)
			me.POST("/password", hm.userHandler.ChangePassword)
			me.GET("/enrollments", hm.authMiddleware.RequireRole(models.RoleStudent), hm.enrollmentHandler.MyEnrollments)
			me.GET("/assignments", hm.authMiddleware.RequireRole(models.RoleLabHead, models.RoleTeacher), hm.enrollmentHandler.MyAssignments)
			me.GET("/projects", hm.authMiddleware.RequireRole(models.RoleStudent), hm.projectHandler.MyProjects)
			me.GET("/marks", hm.authMiddleware.RequireRole(models.RoleStudent), hm.markHandler.MyMarks)
			me.GET("/dashboard", hm.authMiddleware.RequireRole(models.RoleStudent), hm.dashboardHandler.GetMyDashboard)
		}

		// User management
		users := v1.Group("/users")
		{
			users.POST("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.CreateUser)
			users.POST("/:id/reset-password", hm.authMiddleware.RequireRole(staff...), hm.userHandler.ResetPassword)
		}

		// Schools - administrative only
		schools := v1.Group("/schools")
		schools.Use(hm.authMiddleware.RequireRole(administrative...))
		{
			schools.POST("", hm.schoolHandler.CreateSchool)
			schools.GET("", hm.schoolHandler.ListSchools)
			schools.GET("/:id", hm.schoolHandler.GetSchool)
			schools.PUT("/:id", hm.schoolHandler.UpdateSchool)
			schools.DELETE("/:id", hm.schoolHandler.DeleteSchool)
		}

		// Labs
		labs := v1.Group("/labs")
		{
			labs.POST("", hm.authMiddleware.RequireRole(administrative...), hm.labHandler.CreateLab)
			labs.GET("", hm.authMiddleware.RequireRole(staff...), hm.labHandler.ListLabs)
			labs.GET("/:lab_id", hm.authMiddleware.RequireRole(staff...), hm.labHandler.GetLab)
			labs.PUT("/:lab_id", hm.authMiddleware.RequireRole(administrative...), hm.labHandler.UpdateLab)
			labs.DELETE("/:lab_id", hm.authMiddleware.RequireRole(administrative...), hm.labHandler.DeleteLab)

			// Lab staff
			labs.POST("/:lab_id/teachers", hm.authMiddleware.RequireRole(labManagement...), hm.teacherHandler.CreateTeacher)
			labs.GET("/:lab_id/teachers", hm.authMiddleware.RequireRole(staff...), hm.teacherHandler.ListByLab)

			// Lab students
			labs.POST("/:lab_id/students", hm.authMiddleware.RequireRole(labManagement...), hm.studentHandler.BulkCreateStudents)
			labs.GET("/:lab_id/students", hm.authMiddleware.RequireRole(staff...), hm.studentHandler.ListByLab)

			// Cohorts of a lab
			labs.POST("/:lab_id/cohorts", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.CreateCohort)
			labs.GET("/:lab_id/cohorts", hm.authMiddleware.RequireRole(staff...), hm.enrollmentHandler.ListCohortsByLab)

			// Project gallery of a lab (students may browse their own lab)
			labs.GET("/:lab_id/projects", hm.projectHandler.ListByLab)
		}

		// Teachers
		teachers := v1.Group("/teachers")
		{
			teachers.GET("/:id", hm.authMiddleware.RequireRole(staff...), hm.teacherHandler.GetTeacher)
			teachers.PUT("/:id", hm.authMiddleware.RequireRole(staff...), hm.teacherHandler.UpdateTeacher)
		}

		// Students
		students := v1.Group("/students")
		{
			students.GET("", hm.authMiddleware.RequireRole(administrative...), hm.studentHandler.SearchStudents)
			students.PUT("/:id", hm.authMiddleware.RequireRole(staff...), hm.studentHandler.UpdateStudent)
		}

		// Cohorts and enrollments
		cohorts := v1.Group("/cohorts")
		{
			cohorts.GET("/:id", hm.enrollmentHandler.GetCohort)
			cohorts.PUT("/:id", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.UpdateCohort)
			cohorts.DELETE("/:id", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.DeleteCohort)
			cohorts.POST("/:id/enrollments", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.EnrollStudents)
			cohorts.POST("/:id/teachers", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.AssignTeacher)
			cohorts.GET("/:id/projects", hm.projectHandler.ListByCohort)
		}

		enrollments := v1.Group("/enrollments")
		{
			enrollments.DELETE("/:id", hm.authMiddleware.RequireRole(labManagement...), hm.enrollmentHandler.UnenrollStudent)
			enrollments.POST("/:id/marks", hm.authMiddleware.RequireRole(staff...), hm.markHandler.AddMark)
			enrollments.GET("/:id/marks", hm.markHandler.ListMarks)
		}

		// Marks
		marks := v1.Group("/marks")
		{
			marks.PUT("/:id", hm.authMiddleware.RequireRole(staff...), hm.markHandler.UpdateMark)
		}

		// Projects
		projects := v1.Group("/projects")
		{
			projects.POST("", hm.authMiddleware.RequireRole(models.RoleStudent), hm.projectHandler.CreateProject)
			projects.GET("/:id", hm.projectHandler.GetProject)
			projects.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleStudent), hm.projectHandler.UpdateProject)
			projects.DELETE("/:id", hm.projectHandler.DeleteProject)
			projects.POST("/:id/star", hm.authMiddleware.RequireRole(staff...), hm.projectHandler.ToggleStar)
		}

		// Dashboards
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/labs/:lab_id", hm.authMiddleware.RequireRole(staff...), hm.dashboardHandler.GetLabDashboard)
			dashboard.GET("/projects", hm.dashboardHandler.GetProjectDashboard)
			dashboard.GET("/admin", hm.authMiddleware.RequireRole(administrative...), hm.dashboardHandler.GetAdminDashboard)
		}

		// Leaderboard - all authenticated users
		v1.GET("/leaderboard", hm.leaderboardHandler.GetLeaderboard)

		// Reports
		reports := v1.Group("/reports")
		{
			reports.GET("/cohorts/:id", hm.authMiddleware.RequireRole(staff...), hm.reportHandler.GetLabReport)
			reports.GET("/cohorts/:id/export", hm.authMiddleware.RequireRole(staff...), hm.reportHandler.ExportLabReport)
			reports.GET("/top-students", hm.authMiddleware.RequireRole(administrative...), hm.reportHandler.GetTopStudents)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lab-service",
		})
	})
}
