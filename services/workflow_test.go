package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"jobdesk-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.JobOrder{},
		&models.JobOrderStatusHistory{},
		&models.JobOrderAttachment{},
		&models.Notification{},
		&models.Facility{},
		&models.CaseSequence{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id int, fname, lname, position, department string) models.User {
	t.Helper()
	user := models.User{
		UserID:     id,
		UserFname:  fname,
		UserLname:  lname,
		Email:      fname + "@example.test",
		Position:   position,
		Department: department,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func actorFor(user models.User) Actor {
	return Actor{
		UserID:     user.UserID,
		Name:       user.FullName(),
		Position:   user.Position,
		Department: user.Department,
	}
}

var seedOrderSeq int

func seedOrder(t *testing.T, db *gorm.DB, status, department string, requesterID int) models.JobOrder {
	t.Helper()
	seedOrderSeq++
	now := time.Now()
	order := models.JobOrder{
		WorkOrderNo:   fmt.Sprintf("JOR-2026-02-%03d", seedOrderSeq),
		Title:         "Printer broken",
		Description:   "Paper jam",
		Priority:      PriorityMedium,
		Department:    department,
		Status:        status,
		RequesterID:   requesterID,
		RequesterName: "Juan dela Cruz",
		RequesterDept: department,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

type workflowFixture struct {
	db          *gorm.DB
	labApprover Actor
	pdoApprover Actor
	tech        Actor
	techUser    models.User
	requester   Actor
}

func newWorkflowFixture(t *testing.T) workflowFixture {
	t.Helper()
	db := openTestDB(t)
	labUser := seedUser(t, db, 1, "Lina", "Flores", "Chief Medical Technologist", "Laboratory")
	pdoUser := seedUser(t, db, 2, "Pia", "Reyes", "PDO Section Head", "PDO")
	reqUser := seedUser(t, db, 3, "Juan", "dela Cruz", "Clerk", "Laboratory")
	techUser := seedUser(t, db, 7, "Maria", "Santos", "IT Officer", "IT")
	return workflowFixture{
		db:          db,
		labApprover: actorFor(labUser),
		pdoApprover: actorFor(pdoUser),
		tech:        actorFor(techUser),
		techUser:    techUser,
		requester:   actorFor(reqUser),
	}
}

func TestApproveSetsAuditFieldsAndLandsQueued(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)

	updated, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.labApprover, TransitionInput{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if updated.Status != StatusQueued {
		t.Fatalf("expected queued, got %q", updated.Status)
	}
	if updated.ApprovedAt == nil {
		t.Fatal("approved_at not set")
	}
	if updated.ApprovedByName == nil || *updated.ApprovedByName != "Lina Flores" {
		t.Fatalf("approved_by_name = %v, want Lina Flores", updated.ApprovedByName)
	}

	var history []models.JobOrderStatusHistory
	f.db.Where("job_order_id = ?", order.JobOrderID).Find(&history)
	if len(history) != 1 || history[0].NewStatus != StatusQueued {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestApproveTwiceFailsWithInvalidTransition(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)

	if _, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.labApprover, TransitionInput{}); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}

	_, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.labApprover, TransitionInput{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApproveWrongDepartmentDenied(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)

	_, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.pdoApprover, TransitionInput{})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// No write happened.
	var reloaded models.JobOrder
	f.db.First(&reloaded, order.JobOrderID)
	if reloaded.Status != StatusPendingApproval {
		t.Fatalf("status changed despite denial: %q", reloaded.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)

	for _, reason := range []string{"", "   "} {
		_, err := ApplyTransition(f.db, order.JobOrderID, ActionReject, f.labApprover, TransitionInput{Reason: reason})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("reason %q: expected ErrValidation, got %v", reason, err)
		}
	}

	var reloaded models.JobOrder
	f.db.First(&reloaded, order.JobOrderID)
	if reloaded.Status != StatusPendingApproval {
		t.Fatalf("validation failure must not change status, got %q", reloaded.Status)
	}

	updated, err := ApplyTransition(f.db, order.JobOrderID, ActionReject, f.labApprover, TransitionInput{Reason: "printer broken"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if updated.Status != StatusRejected {
		t.Fatalf("expected rejected, got %q", updated.Status)
	}
	if updated.RejectionReason == nil || *updated.RejectionReason != "printer broken" {
		t.Fatalf("rejection_reason = %v, want %q", updated.RejectionReason, "printer broken")
	}
}

func TestAssignUnknownTechnicianFailsValidation(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusQueued, "Laboratory", f.requester.UserID)

	_, err := ApplyTransition(f.db, order.JobOrderID, ActionAssign, f.tech, TransitionInput{TechID: 999})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var reloaded models.JobOrder
	f.db.First(&reloaded, order.JobOrderID)
	if reloaded.Status != StatusQueued {
		t.Fatalf("status changed on failed assign: %q", reloaded.Status)
	}
}

func TestAssignNonTechnicianFailsValidation(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusQueued, "Laboratory", f.requester.UserID)

	// User 3 exists but is a clerk, not a troubleshooter.
	_, err := ApplyTransition(f.db, order.JobOrderID, ActionAssign, f.tech, TransitionInput{TechID: 3})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)

	if _, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.labApprover, TransitionInput{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	updated, err := ApplyTransition(f.db, order.JobOrderID, ActionAssign, f.tech, TransitionInput{TechID: f.techUser.UserID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.Status != StatusAssigned || updated.AssignedAt == nil {
		t.Fatalf("assign effects missing: %+v", updated)
	}
	if updated.TechName == nil || *updated.TechName != "Maria Santos" {
		t.Fatalf("tech_name = %v", updated.TechName)
	}

	if _, err := ApplyTransition(f.db, order.JobOrderID, ActionStart, f.tech, TransitionInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Missing action_taken fails validation.
	if _, err := ApplyTransition(f.db, order.JobOrderID, ActionResolve, f.tech, TransitionInput{ActionTaken: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank action_taken, got %v", err)
	}

	updated, err = ApplyTransition(f.db, order.JobOrderID, ActionResolve, f.tech, TransitionInput{
		ActionTaken:     "Replaced fuser unit",
		ResolutionNotes: "Part under warranty",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if updated.Status != StatusResolved || updated.ResolvedAt == nil {
		t.Fatalf("resolve effects missing: %+v", updated)
	}
	if updated.ActionTaken == nil || *updated.ActionTaken != "Replaced fuser unit" {
		t.Fatalf("action_taken = %v", updated.ActionTaken)
	}

	updated, err = ApplyTransition(f.db, order.JobOrderID, ActionClose, f.requester, TransitionInput{})
	if err != nil {
		t.Fatalf("close by requester: %v", err)
	}
	if updated.Status != StatusClosed || updated.ClosedAt == nil {
		t.Fatalf("close effects missing: %+v", updated)
	}

	if _, err := ApplyTransition(f.db, order.JobOrderID, ActionClose, f.tech, TransitionInput{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second close: expected ErrInvalidTransition, got %v", err)
	}

	var history []models.JobOrderStatusHistory
	f.db.Where("job_order_id = ?", order.JobOrderID).Order("created_at ASC").Find(&history)
	if len(history) != 5 {
		t.Fatalf("expected 5 history rows, got %d", len(history))
	}
}

func TestCancelRules(t *testing.T) {
	f := newWorkflowFixture(t)

	// Requester may cancel their own ticket.
	own := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", f.requester.UserID)
	updated, err := ApplyTransition(f.db, own.JobOrderID, ActionCancel, f.requester, TransitionInput{})
	if err != nil {
		t.Fatalf("cancel own ticket: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %q", updated.Status)
	}

	// Terminal states accept no further transitions.
	if _, err := ApplyTransition(f.db, own.JobOrderID, ActionCancel, f.tech, TransitionInput{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after cancel: expected ErrInvalidTransition, got %v", err)
	}

	// A requester cannot cancel somebody else's ticket.
	other := seedOrder(t, f.db, StatusPendingApproval, "Laboratory", 999)
	if _, err := ApplyTransition(f.db, other.JobOrderID, ActionCancel, f.requester, TransitionInput{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("cancel foreign ticket: expected ErrPermissionDenied, got %v", err)
	}
}

func TestHoldAndResumeRestoresPriorStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	order := seedOrder(t, f.db, StatusInProgress, "Laboratory", f.requester.UserID)

	updated, err := ApplyTransition(f.db, order.JobOrderID, ActionHold, f.tech, TransitionInput{})
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if updated.Status != StatusOnHold {
		t.Fatalf("expected on_hold, got %q", updated.Status)
	}
	if updated.HeldFromStatus == nil || *updated.HeldFromStatus != StatusInProgress {
		t.Fatalf("held_from_status = %v", updated.HeldFromStatus)
	}

	updated, err = ApplyTransition(f.db, order.JobOrderID, ActionResume, f.tech, TransitionInput{})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Fatalf("expected in_progress after resume, got %q", updated.Status)
	}
	if updated.HeldFromStatus != nil {
		t.Fatalf("held_from_status not cleared: %v", *updated.HeldFromStatus)
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := ApplyTransition(f.db, 12345, ActionApprove, f.labApprover, TransitionInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		action string
		from   string
		want   bool
	}{
		{ActionApprove, StatusPendingApproval, true},
		{ActionApprove, StatusQueued, false},
		{ActionAssign, StatusQueued, true},
		{ActionAssign, StatusPendingApproval, false},
		{ActionStart, StatusAssigned, true},
		{ActionResolve, StatusInProgress, true},
		{ActionResolve, StatusAssigned, false},
		{ActionClose, StatusResolved, true},
		{ActionClose, StatusClosed, false},
		{ActionCancel, StatusInProgress, true},
		{ActionCancel, StatusRejected, false},
		{ActionCancel, StatusCancelled, false},
		{ActionHold, StatusAssigned, true},
		{ActionHold, StatusOnHold, false},
		{ActionResume, StatusOnHold, true},
		{"unknown", StatusQueued, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.action, tc.from); got != tc.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", tc.action, tc.from, got, tc.want)
		}
	}
}

func TestApproveToleratesDepartmentSpelling(t *testing.T) {
	f := newWorkflowFixture(t)

	// Legacy rows may carry unnormalized department text; routing still
	// matches the registered spelling.
	order := seedOrder(t, f.db, StatusPendingApproval, " laboratory ", f.requester.UserID)

	updated, err := ApplyTransition(f.db, order.JobOrderID, ActionApprove, f.labApprover, TransitionInput{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != StatusQueued {
		t.Fatalf("expected queued, got %q", updated.Status)
	}

	// The wrong department's approver is still denied.
	other := seedOrder(t, f.db, StatusPendingApproval, " laboratory ", f.requester.UserID)
	if _, err := ApplyTransition(f.db, other.JobOrderID, ActionApprove, f.pdoApprover, TransitionInput{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
