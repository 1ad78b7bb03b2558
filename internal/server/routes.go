// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// Init swagger doc
	_ "github.com/IliaRaxat/RaxatJob-sub002/docs"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/auth"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller/application"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller/moderation"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller/posting"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/middleware"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	lAuth := auth.NewLocalAuthHandler(s.DB)
	postingController := posting.NewPostingController(s.Postings)
	moderationController := moderation.NewModerationController(s.Moderation, s.Postings)
	applicationController := application.NewApplicationController(s.Applications)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.ConfigRateLimitMiddleware(s.Config), middleware.SizeLimit(middleware.DefaultBodyLimit))
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Public listing
		v1.GET("/postings", postingController.ListPublicHandler)

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.ConfigUserRateLimitMiddleware(s.Config))

			postingRoute := needAuth.Group("/postings")
			{
				postingRoute.GET("/:id", postingController.GetHandler)
				postingRoute.GET("/:id/visibility", postingController.VisibilityHandler)
				postingRoute.GET("/:id/history", postingController.HistoryHandler)
				postingRoute.GET("/:id/applications", applicationController.ListForPostingHandler)
				postingRoute.DELETE("/:id", middleware.CheckRole(model.RoleHR, model.RoleUniversity, model.RoleAdmin), postingController.DeleteHandler)
				postingRoute.POST("/:id/applications", middleware.CheckRole(model.RoleCandidate), applicationController.ApplyHandler)

				owner := postingRoute.Group("")
				{
					owner.Use(middleware.CheckRole(model.RoleHR, model.RoleUniversity))
					owner.POST("", postingController.CreateHandler)
					owner.GET("/mine", postingController.ListMineHandler)
					owner.PUT("/:id", postingController.EditHandler)
					owner.PATCH("/:id/status", postingController.SetStatusHandler)
					owner.POST("/:id/submit", moderationController.SubmitHandler)
				}
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.GET("/mine", middleware.CheckRole(model.RoleCandidate), applicationController.ListMineHandler)
				applicationRoute.POST("/:id/decision", middleware.CheckRole(model.RoleHR, model.RoleUniversity), applicationController.DecideHandler)
			}

			needAuth.GET("/candidates/:candidate_id/applications", applicationController.ListForCandidateHandler)

			moderationRoute := needAuth.Group("/moderation/postings")
			{
				moderationRoute.Use(middleware.CheckRole(model.RoleAdmin))
				moderationRoute.GET("", moderationController.QueueHandler)
				moderationRoute.POST("/bulk-approve", moderationController.BulkApproveHandler)
				moderationRoute.POST("/bulk-reject", moderationController.BulkRejectHandler)
				moderationRoute.POST("/:id/approve", moderationController.ApproveHandler)
				moderationRoute.POST("/:id/reject", moderationController.RejectHandler)
				moderationRoute.POST("/:id/return", moderationController.ReturnHandler)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
