package services

import (
	"fmt"
	"strings"
	"time"

	"jobdesk-api/models"

	"gorm.io/gorm"
)

// Job order statuses. The set is closed; rows only ever move between these
// values through ApplyTransition.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusQueued          = "queued"
	StatusAssigned        = "assigned"
	StatusInProgress      = "in_progress"
	StatusResolved        = "resolved"
	StatusClosed          = "closed"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
	StatusOnHold          = "on_hold"
)

// Workflow actions accepted by ApplyTransition.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionAssign  = "assign"
	ActionStart   = "start"
	ActionResolve = "resolve"
	ActionClose   = "close"
	ActionCancel  = "cancel"
	ActionHold    = "hold"
	ActionResume  = "resume"
)

var terminalStatuses = map[string]bool{
	StatusClosed:    true,
	StatusRejected:  true,
	StatusCancelled: true,
}

var validStatuses = map[string]bool{
	StatusPendingApproval: true,
	StatusApproved:        true,
	StatusQueued:          true,
	StatusAssigned:        true,
	StatusInProgress:      true,
	StatusResolved:        true,
	StatusClosed:          true,
	StatusRejected:        true,
	StatusCancelled:       true,
	StatusOnHold:          true,
}

var nonTerminalStatuses = []string{
	StatusPendingApproval,
	StatusApproved,
	StatusQueued,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusOnHold,
}

// transitionFrom maps each action to the statuses it is legal from.
// "approved" is a transient landing: approve moves straight to queued, so
// assign only ever sees queued rows.
var transitionFrom = map[string][]string{
	ActionApprove: {StatusPendingApproval},
	ActionReject:  {StatusPendingApproval},
	ActionAssign:  {StatusQueued},
	ActionStart:   {StatusAssigned},
	ActionResolve: {StatusInProgress},
	ActionClose:   {StatusResolved},
	ActionCancel:  nonTerminalStatuses,
	ActionHold: {
		StatusPendingApproval,
		StatusApproved,
		StatusQueued,
		StatusAssigned,
		StatusInProgress,
		StatusResolved,
	},
	ActionResume: {StatusOnHold},
}

// IsValidStatus reports whether value belongs to the closed status set.
func IsValidStatus(status string) bool {
	return validStatuses[status]
}

// IsTerminalStatus reports whether no further transitions are legal.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[status]
}

// CanTransition reports whether action is legal from the given status.
func CanTransition(action, fromStatus string) bool {
	allowed, ok := transitionFrom[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// Actor identifies the user applying a transition. Position drives the
// permission check through GetPermissions.
type Actor struct {
	UserID     int
	Name       string
	Position   string
	Department string
}

// TransitionInput carries the per-action payload fields.
type TransitionInput struct {
	Reason          string // reject
	TechID          int    // assign
	ActionTaken     string // resolve
	ResolutionNotes string // resolve, optional
}

// ApplyTransition validates and applies one workflow action to a job order.
// The status change and its timestamp land in a single guarded UPDATE keyed
// on the status the caller observed, so of two concurrent conflicting
// transitions the first one wins and the second fails with
// ErrInvalidTransition. Validation and permission failures happen before any
// write and leave the row untouched.
func ApplyTransition(db *gorm.DB, jobOrderID int, action string, actor Actor, input TransitionInput) (*models.JobOrder, error) {
	if _, ok := transitionFrom[action]; !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}

	var order models.JobOrder
	if err := db.Where("job_order_id = ?", jobOrderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: job order %d", ErrNotFound, jobOrderID)
		}
		return nil, err
	}

	perms := GetPermissions(actor.Position)
	if err := checkActorAllowed(action, &order, perms, actor); err != nil {
		return nil, err
	}

	if !CanTransition(action, order.Status) {
		return nil, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, order.Status)
	}

	now := time.Now()
	updates, historyNote, err := buildTransitionUpdates(db, action, &order, actor, input, now)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Guarded on the observed status: a concurrent transition that got there
	// first leaves zero rows affected and this attempt fails.
	result := tx.Model(&models.JobOrder{}).
		Where("job_order_id = ? AND status = ?", order.JobOrderID, order.Status).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}

	oldStatus := order.Status
	history := models.JobOrderStatusHistory{
		JobOrderID: order.JobOrderID,
		OldStatus:  &oldStatus,
		NewStatus:  updates["status"].(string),
		ChangedBy:  actor.UserID,
		CreatedAt:  now,
	}
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		history.Reason = &reason
	}
	if historyNote != "" {
		history.Notes = &historyNote
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	var updated models.JobOrder
	if err := db.Preload("Attachments").First(&updated, order.JobOrderID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func checkActorAllowed(action string, order *models.JobOrder, perms Permissions, actor Actor) error {
	switch action {
	case ActionApprove, ActionReject:
		if !perms.IsApprover || perms.ApprovableDept != NormalizeDepartment(order.Department) {
			return fmt.Errorf("%w: %s requires the %s department approver", ErrPermissionDenied, action, order.Department)
		}
	case ActionAssign, ActionStart, ActionResolve, ActionHold, ActionResume:
		if !perms.IsTroubleshooter {
			return fmt.Errorf("%w: %s requires a troubleshooter", ErrPermissionDenied, action)
		}
	case ActionClose, ActionCancel:
		if !perms.IsTroubleshooter && actor.UserID != order.RequesterID {
			return fmt.Errorf("%w: %s allowed for a troubleshooter or the requester", ErrPermissionDenied, action)
		}
	}
	return nil
}

// buildTransitionUpdates assembles the UPDATE column set for one action. Every
// status-dependent timestamp is written here, in the same statement as the
// status itself.
func buildTransitionUpdates(db *gorm.DB, action string, order *models.JobOrder, actor Actor, input TransitionInput, now time.Time) (map[string]interface{}, string, error) {
	updates := map[string]interface{}{"updated_at": now}
	note := ""

	switch action {
	case ActionApprove:
		// Approved is transient: the order lands directly on queued with the
		// approval fields recorded.
		updates["status"] = StatusQueued
		updates["approved_at"] = now
		updates["approved_by_name"] = actor.Name
		note = "approved"

	case ActionReject:
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			return nil, "", fmt.Errorf("%w: rejection reason is required", ErrValidation)
		}
		updates["status"] = StatusRejected
		updates["rejection_reason"] = reason
		note = "rejected"

	case ActionAssign:
		tech, err := lookupTechnician(db, input.TechID)
		if err != nil {
			return nil, "", err
		}
		updates["status"] = StatusAssigned
		updates["tech_id"] = tech.UserID
		updates["tech_name"] = tech.FullName()
		updates["assigned_at"] = now
		note = "assigned to " + tech.FullName()

	case ActionStart:
		updates["status"] = StatusInProgress

	case ActionResolve:
		actionTaken := strings.TrimSpace(input.ActionTaken)
		if actionTaken == "" {
			return nil, "", fmt.Errorf("%w: action_taken is required", ErrValidation)
		}
		updates["status"] = StatusResolved
		updates["action_taken"] = actionTaken
		updates["resolved_at"] = now
		if notes := strings.TrimSpace(input.ResolutionNotes); notes != "" {
			updates["resolution_notes"] = notes
		}
		note = "resolved"

	case ActionClose:
		updates["status"] = StatusClosed
		updates["closed_at"] = now

	case ActionCancel:
		updates["status"] = StatusCancelled
		note = "cancelled"

	case ActionHold:
		updates["status"] = StatusOnHold
		updates["held_from_status"] = order.Status
		note = "held from " + order.Status

	case ActionResume:
		// Resume restores exactly the status the order was holding from.
		if order.HeldFromStatus == nil || !validStatuses[*order.HeldFromStatus] {
			return nil, "", fmt.Errorf("%w: no held-from status recorded", ErrInvalidTransition)
		}
		updates["status"] = *order.HeldFromStatus
		updates["held_from_status"] = nil
		note = "resumed to " + *order.HeldFromStatus
	}

	return updates, note, nil
}

// lookupTechnician validates an assignment target: the user must exist, be
// active and hold a troubleshooter position.
func lookupTechnician(db *gorm.DB, techID int) (*models.User, error) {
	if techID <= 0 {
		return nil, fmt.Errorf("%w: tech_id is required", ErrValidation)
	}
	var tech models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", techID).First(&tech).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: unknown technician %d", ErrValidation, techID)
		}
		return nil, err
	}
	if !IsTroubleshooterPosition(tech.Position) {
		return nil, fmt.Errorf("%w: user %d is not a technician", ErrValidation, techID)
	}
	return &tech, nil
}
