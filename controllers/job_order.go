package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"
	"jobdesk-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var workOrderNumberMutex sync.Mutex

type CreateJobOrderRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
	Department  string  `json:"department" binding:"required"`
	Tags        string  `json:"tags"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

// CreateJobOrder opens a new request in pending_approval with a generated
// work order number. Any authenticated user may file one.
func CreateJobOrder(c *gin.Context) {
	var req CreateJobOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = services.PriorityMedium
	}
	if !services.IsValidPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Priority must be one of low, medium, high, critical"})
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.DueDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}
		dueDate = &parsed
	}

	actor := currentActor(c)
	now := time.Now()

	order := models.JobOrder{
		WorkOrderNo:   generateWorkOrderNumber(),
		Title:         utils.SanitizeInput(req.Title),
		Description:   utils.SanitizeInput(req.Description),
		Category:      utils.SanitizeInput(req.Category),
		Type:          utils.SanitizeInput(req.Type),
		Priority:      priority,
		Department:    services.NormalizeDepartment(utils.SanitizeInput(req.Department)),
		Tags:          utils.SanitizeInput(req.Tags),
		Status:        services.StatusPendingApproval,
		RequesterID:   actor.UserID,
		RequesterName: actor.Name,
		RequesterDept: actor.Department,
		CreatedAt:     now,
		UpdatedAt:     now,
		DueDate:       dueDate,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job order"})
		return
	}

	history := models.JobOrderStatusHistory{
		JobOrderID: order.JobOrderID,
		NewStatus:  services.StatusPendingApproval,
		ChangedBy:  actor.UserID,
		CreatedAt:  now,
	}
	config.DB.Create(&history)

	writeAudit(c, "create", "job_order", order.JobOrderID, order.WorkOrderNo,
		map[string]interface{}{"title": order.Title, "department": order.Department, "priority": order.Priority},
		"Job order created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"ticket":  services.ProjectTicket(order),
	})
}

// GetJobOrder returns one order with attachments, projected as a ticket.
func GetJobOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job order ID"})
		return
	}

	var order models.JobOrder
	if err := config.DB.Preload("Attachments").
		Where("job_order_id = ?", orderID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job order"})
		return
	}

	actor := currentActor(c)
	perms := services.GetPermissions(actor.Position)
	if perms.IsRequester && order.RequesterID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own job orders"})
		return
	}

	var history []models.JobOrderStatusHistory
	config.DB.Where("job_order_id = ?", orderID).Order("created_at ASC").Find(&history)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  services.ProjectTicket(order),
		"history": history,
	})
}

// generateWorkOrderNumber creates a unique work order number
// (JOR-YYYY-MM-RUNNING) scoped to the current month.
func generateWorkOrderNumber() string {
	workOrderNumberMutex.Lock()
	defer workOrderNumberMutex.Unlock()

	yearMonth := time.Now().Format("2006-01")
	prefixLike := fmt.Sprintf("JOR-%s-%%", yearMonth)

	var count int64
	config.DB.Model(&models.JobOrder{}).
		Where("work_order_no LIKE ?", prefixLike).
		Count(&count)

	// Reserve the next running number, re-checking for collisions.
	for i := int64(1); i <= 10; i++ {
		potential := fmt.Sprintf("JOR-%s-%03d", yearMonth, count+i)

		var existing int64
		config.DB.Model(&models.JobOrder{}).
			Where("work_order_no = ?", potential).
			Count(&existing)

		if existing == 0 {
			return potential
		}
	}

	// Concurrent writers exhausted the retry window; fall back to a random
	// suffix rather than handing out a duplicate.
	bytes := make([]byte, 3)
	rand.Read(bytes)
	randomSuffix := strings.ToUpper(hex.EncodeToString(bytes))
	return fmt.Sprintf("JOR-%s-R-%s", yearMonth, randomSuffix)
}
