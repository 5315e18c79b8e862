package routes

import (
	"jobdesk-api/controllers"
	"jobdesk-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Job Desk API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Job orders
			jobOrders := protected.Group("/job-orders")
			{
				jobOrders.GET("", controllers.GetJobOrders)
				jobOrders.GET("/pending-approvals", controllers.GetPendingApprovals)
				jobOrders.GET("/:id", controllers.GetJobOrder)
				jobOrders.POST("", controllers.CreateJobOrder)

				// Workflow transitions; role checks live in the workflow
				// service since they depend on the order's department.
				jobOrders.POST("/:id/approve", controllers.ApproveJobOrder)
				jobOrders.POST("/:id/reject", controllers.RejectJobOrder)
				jobOrders.POST("/:id/assign", controllers.AssignJobOrder)
				jobOrders.POST("/:id/start", controllers.StartJobOrder)
				jobOrders.POST("/:id/resolve", controllers.ResolveJobOrder)
				jobOrders.POST("/:id/close", controllers.CloseJobOrder)
				jobOrders.POST("/:id/cancel", controllers.CancelJobOrder)
				jobOrders.POST("/:id/hold", controllers.HoldJobOrder)
				jobOrders.POST("/:id/resume", controllers.ResumeJobOrder)

				// Attachments
				jobOrders.POST("/:id/attachments", controllers.UploadAttachment)
				jobOrders.GET("/:id/attachments", controllers.GetAttachments)
			}
			protected.GET("/attachments/:attachment_id/download", controllers.DownloadAttachment)

			// Assignment targets
			protected.GET("/technicians", controllers.GetTechnicians)

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadNotificationCount)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Lab domain: corrective action reports
			cars := protected.Group("/cars")
			{
				cars.GET("", controllers.GetCARs)
				cars.POST("", controllers.CreateCAR)
				cars.PUT("/:id", controllers.UpdateCAR)
				cars.DELETE("/:id", controllers.DeleteCAR)
			}

			// Lab domain: endorsements and facility lookups
			endorsements := protected.Group("/endorsements")
			{
				endorsements.GET("", controllers.GetEndorsements)
				endorsements.POST("", controllers.CreateEndorsement)
				endorsements.PUT("/:id/status", controllers.UpdateEndorsementStatus)
				endorsements.DELETE("/:id", controllers.DeleteEndorsement)
			}
			protected.GET("/facilities/:code", controllers.GetFacility)
		}
	}
}
