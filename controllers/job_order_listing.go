// controllers/job_order_listing.go - Job Order Listing Controllers

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"

	"github.com/gin-gonic/gin"
)

// GetJobOrders returns a paginated list of projected tickets with filters
func GetJobOrders(c *gin.Context) {
	actor := currentActor(c)
	perms := services.GetPermissions(actor.Position)

	// Parse query parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")
	priority := c.Query("priority")
	department := c.Query("department")
	requesterID := c.Query("requester_id")
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	// Validate pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Validate sort parameters
	allowedSortFields := map[string]bool{
		"created_at":    true,
		"updated_at":    true,
		"work_order_no": true,
		"priority":      true,
		"status":        true,
		"due_date":      true,
	}
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	// Build base query
	var orders []models.JobOrder
	query := config.DB.Model(&models.JobOrder{})

	// Role-based visibility: requesters see their own tickets, approvers
	// additionally see their department's pending items, troubleshooters
	// see all.
	switch {
	case perms.IsRequester:
		query = query.Where("requester_id = ?", actor.UserID)
	case perms.IsApprover:
		query = query.Where("requester_id = ? OR (department = ? AND status = ?)",
			actor.UserID, perms.ApprovableDept, services.StatusPendingApproval)
	}

	// Apply filters
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if requesterID != "" {
		query = query.Where("requester_id = ?", requesterID)
	}

	// Search functionality
	if search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(work_order_no) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	// Get total count for pagination
	var totalCount int64
	query.Count(&totalCount)

	// Apply sorting and pagination
	orderClause := sortBy + " " + strings.ToUpper(sortOrder)
	if err := query.Order(orderClause).Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job orders"})
		return
	}

	// Calculate pagination info
	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": services.ProjectTickets(orders),
		"pagination": gin.H{
			"current_page": page,
			"per_page":     limit,
			"total_count":  totalCount,
			"total_pages":  totalPages,
			"has_next":     page < int(totalPages),
			"has_prev":     page > 1,
		},
		"filters": gin.H{
			"status":     status,
			"priority":   priority,
			"department": department,
			"search":     search,
		},
	})
}

// GetPendingApprovals lists pending_approval orders the current approver may
// act on. Troubleshooters see pending items across all departments.
func GetPendingApprovals(c *gin.Context) {
	actor := currentActor(c)
	perms := services.GetPermissions(actor.Position)

	query := config.DB.Model(&models.JobOrder{}).
		Where("status = ?", services.StatusPendingApproval)

	switch {
	case perms.IsApprover:
		query = query.Where("department = ?", perms.ApprovableDept)
	case perms.IsTroubleshooter:
		// full visibility
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only approvers can view pending approvals"})
		return
	}

	var orders []models.JobOrder
	if err := query.Order("created_at ASC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending approvals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": services.ProjectTickets(orders),
		"total":   len(orders),
	})
}
