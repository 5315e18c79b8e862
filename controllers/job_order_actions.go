package controllers

import (
	"net/http"
	"strconv"

	"jobdesk-api/config"
	"jobdesk-api/services"

	"github.com/gin-gonic/gin"
)

// Transition endpoints. Each one funnels into services.ApplyTransition; the
// controller only parses input, maps errors and fires notifications after
// the commit.

func parseOrderID(c *gin.Context) (int, bool) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job order ID"})
		return 0, false
	}
	return orderID, true
}

func applyAndRespond(c *gin.Context, orderID int, action string, input services.TransitionInput) {
	actor := currentActor(c)

	order, err := services.ApplyTransition(config.DB, orderID, action, actor, input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.NotifyTransition(config.DB, order, action, actor)

	writeAudit(c, action, "job_order", order.JobOrderID, order.WorkOrderNo,
		map[string]interface{}{"status": order.Status}, "Job order "+action)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  services.ProjectTicket(*order),
	})
}

// ApproveJobOrder moves a pending order into the assignment queue.
func ApproveJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionApprove, services.TransitionInput{})
}

// RejectJobOrder requires a non-empty reason.
func RejectJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	applyAndRespond(c, orderID, services.ActionReject, services.TransitionInput{Reason: req.Reason})
}

// AssignJobOrder hands a queued order to a technician.
func AssignJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		TechID int `json:"tech_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	applyAndRespond(c, orderID, services.ActionAssign, services.TransitionInput{TechID: req.TechID})
}

// StartJobOrder marks an assigned order as in progress.
func StartJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionStart, services.TransitionInput{})
}

// ResolveJobOrder records the action taken and optional notes.
func ResolveJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		ActionTaken     string `json:"action_taken"`
		ResolutionNotes string `json:"resolution_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	applyAndRespond(c, orderID, services.ActionResolve, services.TransitionInput{
		ActionTaken:     req.ActionTaken,
		ResolutionNotes: req.ResolutionNotes,
	})
}

// CloseJobOrder finishes a resolved order.
func CloseJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionClose, services.TransitionInput{})
}

// CancelJobOrder terminates an order from any non-terminal state.
func CancelJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionCancel, services.TransitionInput{})
}

// HoldJobOrder parks an order; the prior status is recorded for resume.
func HoldJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionHold, services.TransitionInput{})
}

// ResumeJobOrder restores the status the order was holding from.
func ResumeJobOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	applyAndRespond(c, orderID, services.ActionResume, services.TransitionInput{})
}
