package services

import (
	"testing"
	"time"

	"jobdesk-api/models"
)

func sampleOrder() models.JobOrder {
	techID := 7
	techName := "Maria Santos"
	return models.JobOrder{
		JobOrderID:    42,
		WorkOrderNo:   "JOR-2026-02-001",
		Title:         "Printer broken",
		Description:   "Laser printer jams on every second page",
		Category:      "Hardware",
		Type:          "repair",
		Priority:      PriorityHigh,
		Department:    "Laboratory",
		Tags:          "printer, hardware ,urgent,,",
		Status:        StatusAssigned,
		RequesterID:   3,
		RequesterName: "Juan dela Cruz",
		RequesterDept: "Laboratory",
		TechID:        &techID,
		TechName:      &techName,
		CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestProjectTicketCopiesAndDerives(t *testing.T) {
	order := sampleOrder()
	ticket := ProjectTicket(order)

	if ticket.ID != 42 || ticket.WorkOrderNo != "JOR-2026-02-001" {
		t.Fatalf("identity fields not copied: %+v", ticket)
	}
	if ticket.Title != order.Title || ticket.Priority != PriorityHigh || ticket.Status != StatusAssigned {
		t.Fatalf("classification fields wrong: %+v", ticket)
	}

	wantTags := []string{"printer", "hardware", "urgent"}
	if len(ticket.Tags) != len(wantTags) {
		t.Fatalf("expected %d tags, got %v", len(wantTags), ticket.Tags)
	}
	for i, tag := range wantTags {
		if ticket.Tags[i] != tag {
			t.Fatalf("tag %d: expected %q, got %q", i, tag, ticket.Tags[i])
		}
	}

	if ticket.Requester.Initials != "JD" {
		t.Fatalf("expected requester initials JD, got %q", ticket.Requester.Initials)
	}
	if ticket.Assignee == nil || ticket.Assignee.ID != 7 || ticket.Assignee.Initials != "MS" {
		t.Fatalf("assignee not derived: %+v", ticket.Assignee)
	}
}

func TestProjectTicketNormalizesUnknownValues(t *testing.T) {
	order := sampleOrder()
	order.Status = "WONTFIX"
	order.Priority = "extreme"

	ticket := ProjectTicket(order)

	if ticket.Status != StatusPendingApproval {
		t.Fatalf("expected fallback status pending_approval, got %q", ticket.Status)
	}
	if ticket.Priority != PriorityMedium {
		t.Fatalf("expected fallback priority medium, got %q", ticket.Priority)
	}
}

func TestProjectTicketDoesNotMutateInput(t *testing.T) {
	order := sampleOrder()
	order.Status = "garbage"
	before := order

	_ = ProjectTicket(order)
	_ = ProjectTicket(order)

	if order.Status != before.Status || order.Tags != before.Tags || order.Priority != before.Priority {
		t.Fatalf("input mutated: before=%+v after=%+v", before, order)
	}
}

func TestProjectTicketIsIdempotent(t *testing.T) {
	order := sampleOrder()
	first := ProjectTicket(order)
	second := ProjectTicket(order)

	if first.Status != second.Status || first.Priority != second.Priority ||
		len(first.Tags) != len(second.Tags) || first.Requester != second.Requester {
		t.Fatalf("projection not stable: %+v vs %+v", first, second)
	}
}

func TestProjectTicketNoAssignee(t *testing.T) {
	order := sampleOrder()
	order.TechID = nil
	order.TechName = nil

	ticket := ProjectTicket(order)
	if ticket.Assignee != nil {
		t.Fatalf("expected nil assignee, got %+v", ticket.Assignee)
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Juan dela Cruz", "JD"},
		{"Maria", "M"},
		{"", "?"},
		{"   ", "?"},
		{"ana reyes", "AR"},
	}
	for _, tc := range cases {
		if got := Initials(tc.name); got != tc.want {
			t.Fatalf("Initials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSplitTagsEmpty(t *testing.T) {
	if tags := SplitTags(""); len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
	if tags := SplitTags(" , ,, "); len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}
