package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Corrective action reports carry a free-standing status field
// (open|pending|closed) with no transition table; any update may set it.
var carStatuses = map[string]bool{
	"open":    true,
	"pending": true,
	"closed":  true,
}

type CARRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Department  string  `json:"department"`
	Status      string  `json:"status"`
	ActionPlan  *string `json:"action_plan"`
	VerifiedBy  *string `json:"verified_by"`
}

// GetCARs lists corrective action reports with optional status filter.
func GetCARs(c *gin.Context) {
	status := c.Query("status")

	query := config.DB.Where("delete_at IS NULL")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var cars []models.CAR
	if err := query.Order("create_at DESC").Find(&cars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cars":    cars,
		"total":   len(cars),
	})
}

// CreateCAR opens a new corrective action report.
func CreateCAR(c *gin.Context) {
	var req CARRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "open"
	}
	if !carStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of open, pending, closed"})
		return
	}

	actor := currentActor(c)
	now := time.Now()

	car := models.CAR{
		CaseNo:      "CAR-" + now.Format("2006") + "-" + strconv.FormatInt(now.UnixNano()%100000, 10),
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		Department:  utils.SanitizeInput(req.Department),
		Status:      status,
		ReportedBy:  actor.UserID,
		ActionPlan:  req.ActionPlan,
		VerifiedBy:  req.VerifiedBy,
		CreateAt:    now,
		UpdateAt:    now,
	}

	if err := config.DB.Create(&car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "car": car})
}

// UpdateCAR updates fields including the free status value.
func UpdateCAR(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil || carID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var car models.CAR
	if err := config.DB.Where("car_id = ? AND delete_at IS NULL", carID).First(&car).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	var req CARRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != "" && !carStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of open, pending, closed"})
		return
	}

	car.Title = utils.SanitizeInput(req.Title)
	car.Description = utils.SanitizeInput(req.Description)
	if req.Department != "" {
		car.Department = utils.SanitizeInput(req.Department)
	}
	if req.Status != "" {
		car.Status = req.Status
	}
	if req.ActionPlan != nil {
		car.ActionPlan = req.ActionPlan
	}
	if req.VerifiedBy != nil {
		car.VerifiedBy = req.VerifiedBy
	}
	car.UpdateAt = time.Now()

	if err := config.DB.Save(&car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "car": car})
}

// DeleteCAR soft-deletes a report.
func DeleteCAR(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil || carID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.CAR{}).
		Where("car_id = ? AND delete_at IS NULL", carID).
		Update("delete_at", now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report deleted"})
}
