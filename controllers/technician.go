package controllers

import (
	"net/http"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"

	"github.com/gin-gonic/gin"
)

// GetTechnicians lists users eligible as assignment targets (active users
// holding a troubleshooter position).
func GetTechnicians(c *gin.Context) {
	var users []models.User
	if err := config.DB.Where("delete_at IS NULL").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch technicians"})
		return
	}

	technicians := make([]gin.H, 0)
	for _, user := range users {
		if !services.IsTroubleshooterPosition(user.Position) {
			continue
		}
		technicians = append(technicians, gin.H{
			"user_id":  user.UserID,
			"name":     user.FullName(),
			"email":    user.Email,
			"position": user.Position,
			"initials": services.Initials(user.FullName()),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"technicians": technicians,
		"total":       len(technicians),
	})
}
