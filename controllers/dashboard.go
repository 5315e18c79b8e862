package controllers

import (
	"net/http"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type statusCountRow struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

type labelCountRow struct {
	Label string `gorm:"column:label"`
	Count int64  `gorm:"column:count"`
}

// GetDashboardStats returns the derived counters the trackers render:
// counts by status, priority and department plus open/closed totals. These
// are plain reads over job_orders, recomputed per request.
func GetDashboardStats(c *gin.Context) {
	actor := currentActor(c)
	perms := services.GetPermissions(actor.Position)

	base := func() *gorm.DB {
		query := config.DB.Model(&models.JobOrder{})
		switch {
		case perms.IsRequester:
			query = query.Where("requester_id = ?", actor.UserID)
		case perms.IsApprover:
			query = query.Where("requester_id = ? OR (department = ? AND status = ?)",
				actor.UserID, perms.ApprovableDept, services.StatusPendingApproval)
		}
		return query
	}

	var byStatus []statusCountRow
	if err := base().Select("status, COUNT(*) AS count").
		Group("status").Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	statusCounts := gin.H{}
	var total, open, closed int64
	for _, row := range byStatus {
		statusCounts[row.Status] = row.Count
		total += row.Count
		if services.IsTerminalStatus(row.Status) {
			closed += row.Count
		} else {
			open += row.Count
		}
	}

	var byPriority []labelCountRow
	base().Select("priority AS label, COUNT(*) AS count").
		Group("priority").Scan(&byPriority)

	priorityCounts := gin.H{}
	for _, row := range byPriority {
		priorityCounts[row.Label] = row.Count
	}

	var byDepartment []labelCountRow
	base().Select("department AS label, COUNT(*) AS count").
		Group("department").Scan(&byDepartment)

	departmentCounts := gin.H{}
	for _, row := range byDepartment {
		departmentCounts[row.Label] = row.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total":         total,
			"open":          open,
			"closed":        closed,
			"by_status":     statusCounts,
			"by_priority":   priorityCounts,
			"by_department": departmentCounts,
		},
	})
}
