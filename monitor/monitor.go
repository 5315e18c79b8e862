package monitor

import (
	"net/http"
	"time"

	"jobdesk-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage exposes a small operational status endpoint with DB
// connectivity and uptime, for the ops dashboard to poll.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		dbStatus := "ok"
		if sqlDB, err := config.DB.DB(); err != nil {
			dbStatus = "error"
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"service":  "jobdesk-api",
			"database": dbStatus,
			"uptime":   time.Since(startedAt).Round(time.Second).String(),
			"time":     time.Now().Format(time.RFC3339),
		})
	})
}
