package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/projecthub/backend/controllers"
	"github.com/projecthub/backend/middleware"
	"github.com/projecthub/backend/models"
	"github.com/projecthub/backend/services"
	"github.com/projecthub/backend/utils"
	"github.com/projecthub/backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	cache := services.NewCache(rdb, 2*time.Minute)
	controllers.TimelineCache = cache

	submissionSvc := services.NewSubmissionService(db, utils.NewSupabaseStore(), cache)
	submissionSvc.OnProgress = func(teamID string, subType models.SubmissionType, percent int) {
		status := "uploading"
		if percent >= 100 {
			status = "uploaded"
		}
		ws.SendSubmissionStatus(teamID, string(subType), status, percent, "")
	}
	submissionCtl := controllers.NewSubmissionController(submissionSvc)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Me)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	// Routes shared by every authenticated role.
	shared := api.Group("")
	{
		shared.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		shared.GET("/timeline", controllers.GetTimeline)
		shared.GET("/resources", controllers.GetResources)
		shared.GET("/teams/:id/members", controllers.GetTeamMembers)
		shared.GET("/teams/:id/submissions", submissionCtl.ListTeamSubmissions)
	}

	student := api.Group("/student")
	{
		student.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles(models.RoleStudent))

		student.POST("/teams", controllers.CreateTeam)
		student.POST("/teams/join", controllers.JoinTeam)
		student.GET("/my-team", controllers.GetMyTeam)
		student.POST("/teams/:id/member-names", controllers.AddMemberName)
		student.DELETE("/teams/:id/member-names/:memberId", controllers.RemoveMemberName)
		student.POST("/teams/:id/submissions", submissionCtl.Submit)
	}

	mentor := api.Group("/mentor")
	{
		mentor.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles(models.RoleMentor, models.RoleAdmin))

		mentor.GET("/teams", controllers.GetMentorTeams)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles(models.RoleAdmin))

		admin.POST("/mentors", controllers.AdminCreateMentor)

		admin.GET("/timeline", controllers.GetAllTimelineEvents)
		admin.POST("/timeline", controllers.CreateTimelineEvent)
		admin.PUT("/timeline/:id", controllers.UpdateTimelineEvent)
		admin.DELETE("/timeline/:id", controllers.DeleteTimelineEvent)

		admin.GET("/resources", controllers.GetAllResources)
		admin.POST("/resources", controllers.CreateResource)
		admin.PUT("/resources/:id", controllers.UpdateResource)
		admin.DELETE("/resources/:id", controllers.DeleteResource)
	}

	r.GET("/ws/team/:id", ws.HandleTeamWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
