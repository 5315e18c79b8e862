package services

import (
	"strings"
	"time"

	"jobdesk-api/models"
)

// Priorities accepted on job orders; unrecognized values project as medium.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// IsValidPriority reports whether value belongs to the closed priority set.
func IsValidPriority(priority string) bool {
	return validPriorities[priority]
}

// TicketPerson is the display form of a requester or assignee.
type TicketPerson struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// Ticket is the UI-facing view of a job order.
type Ticket struct {
	ID          int      `json:"id"`
	WorkOrderNo string   `json:"work_order_no"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Department  string   `json:"department,omitempty"`
	Tags        []string `json:"tags"`

	Requester TicketPerson  `json:"requester"`
	Assignee  *TicketPerson `json:"assignee,omitempty"`

	ActionTaken     *string `json:"action_taken,omitempty"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`

	Attachments []models.JobOrderAttachment `json:"attachments,omitempty"`
}

// ProjectTicket maps a persisted job order into its display ticket. Pure and
// idempotent; the input is never mutated. Unrecognized statuses and
// priorities fall back to pending_approval / medium.
func ProjectTicket(order models.JobOrder) Ticket {
	ticket := Ticket{
		ID:          order.JobOrderID,
		WorkOrderNo: order.WorkOrderNo,
		Title:       order.Title,
		Description: order.Description,
		Category:    order.Category,
		Type:        order.Type,
		Priority:    normalizePriority(order.Priority),
		Status:      normalizeStatus(order.Status),
		Department:  order.Department,
		Tags:        SplitTags(order.Tags),
		Requester: TicketPerson{
			ID:       order.RequesterID,
			Name:     order.RequesterName,
			Initials: Initials(order.RequesterName),
		},
		ActionTaken:     order.ActionTaken,
		ResolutionNotes: order.ResolutionNotes,
		RejectionReason: order.RejectionReason,
		CreatedAt:       order.CreatedAt,
		ApprovedAt:      order.ApprovedAt,
		AssignedAt:      order.AssignedAt,
		ResolvedAt:      order.ResolvedAt,
		ClosedAt:        order.ClosedAt,
		DueDate:         order.DueDate,
		Attachments:     order.Attachments,
	}

	if order.TechID != nil {
		name := ""
		if order.TechName != nil {
			name = *order.TechName
		}
		ticket.Assignee = &TicketPerson{
			ID:       *order.TechID,
			Name:     name,
			Initials: Initials(name),
		}
	}

	return ticket
}

// ProjectTickets maps a slice of orders preserving order.
func ProjectTickets(orders []models.JobOrder) []Ticket {
	tickets := make([]Ticket, 0, len(orders))
	for _, order := range orders {
		tickets = append(tickets, ProjectTicket(order))
	}
	return tickets
}

func normalizeStatus(status string) string {
	if IsValidStatus(status) {
		return status
	}
	return StatusPendingApproval
}

func normalizePriority(priority string) string {
	if validPriorities[priority] {
		return priority
	}
	return PriorityMedium
}

// SplitTags parses the comma-separated tags column into a list, dropping
// blanks.
func SplitTags(raw string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// Initials derives an avatar label from a display name: first letter of the
// first two words, uppercased. Blank names yield "?".
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	initials := strings.ToUpper(string([]rune(fields[0])[0]))
	if len(fields) > 1 {
		initials += strings.ToUpper(string([]rune(fields[1])[0]))
	}
	return initials
}
