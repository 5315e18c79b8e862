package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"

	"github.com/gin-gonic/gin"
)

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// currentActor builds the workflow actor from the auth middleware context.
func currentActor(c *gin.Context) services.Actor {
	userID, _ := c.Get("userID")
	userName, _ := c.Get("userName")
	position, _ := c.Get("position")
	department, _ := c.Get("department")

	actor := services.Actor{}
	if id, ok := userID.(int); ok {
		actor.UserID = id
	}
	if name, ok := userName.(string); ok {
		actor.Name = name
	}
	if pos, ok := position.(string); ok {
		actor.Position = pos
	}
	if dept, ok := department.(string); ok {
		actor.Department = dept
	}
	return actor
}

// respondWorkflowError maps service error kinds onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUpstreamFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// writeAudit records an audit row outside the workflow transaction; a
// failure is not fatal to the request.
func writeAudit(c *gin.Context, action, entityType string, entityID int, entityNumber string, values map[string]interface{}, description string) {
	actor := currentActor(c)

	serialized, _ := json.Marshal(values)
	id := entityID
	audit := models.AuditLog{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &id,
		NewValues:   ptr(string(serialized)),
		Description: ptr(description),
		IPAddress:   c.ClientIP(),
		CreatedAt:   time.Now(),
	}
	if entityNumber != "" {
		audit.EntityNumber = &entityNumber
	}
	if ua := strings.TrimSpace(c.GetHeader("User-Agent")); ua != "" {
		audit.UserAgent = &ua
	}

	config.DB.Create(&audit)
}
