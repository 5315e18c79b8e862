package models

import "time"

// JobOrder is the central IT support request record. Status moves only
// through the transitions defined in services/workflow.go; rows are never
// deleted (cancellation is a terminal status, not removal).
type JobOrder struct {
	JobOrderID  int    `gorm:"primaryKey;column:job_order_id" json:"job_order_id"`
	WorkOrderNo string `gorm:"column:work_order_no;unique" json:"work_order_no"`

	Title       string `gorm:"column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Category    string `gorm:"column:category" json:"category"`
	Type        string `gorm:"column:type" json:"type"`
	Priority    string `gorm:"column:priority" json:"priority"` // low|medium|high|critical
	Department  string `gorm:"column:department" json:"department"`
	Tags        string `gorm:"column:tags" json:"tags"` // comma-separated

	Status         string  `gorm:"column:status;index" json:"status"`
	HeldFromStatus *string `gorm:"column:held_from_status" json:"held_from_status,omitempty"`

	RequesterID    int     `gorm:"column:requester_id;index" json:"requester_id"`
	RequesterName  string  `gorm:"column:requester_name" json:"requester_name"`
	RequesterDept  string  `gorm:"column:requester_dept" json:"requester_dept"`
	TechID         *int    `gorm:"column:tech_id" json:"tech_id,omitempty"`
	TechName       *string `gorm:"column:tech_name" json:"tech_name,omitempty"`
	ApprovedByName *string `gorm:"column:approved_by_name" json:"approved_by_name,omitempty"`

	ActionTaken     *string `gorm:"column:action_taken" json:"action_taken,omitempty"`
	ResolutionNotes *string `gorm:"column:resolution_notes" json:"resolution_notes,omitempty"`
	RejectionReason *string `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AssignedAt *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ClosedAt   *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	DueDate    *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`

	// Relations
	Attachments []JobOrderAttachment `gorm:"foreignKey:JobOrderID" json:"attachments,omitempty"`
}

// JobOrderAttachment rows are append-only; uploads happen after the order
// exists and an upload failure never rolls the order back.
type JobOrderAttachment struct {
	AttachmentID int       `gorm:"primaryKey;column:attachment_id" json:"attachment_id"`
	JobOrderID   int       `gorm:"column:job_order_id;index" json:"job_order_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredPath   string    `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// JobOrderStatusHistory records one row per applied transition.
type JobOrderStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	JobOrderID int       `gorm:"column:job_order_id;index" json:"job_order_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status,omitempty"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Reason     *string   `gorm:"column:reason" json:"reason,omitempty"`
	Notes      *string   `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (JobOrder) TableName() string {
	return "job_orders"
}

func (JobOrderAttachment) TableName() string {
	return "job_order_attachments"
}

func (JobOrderStatusHistory) TableName() string {
	return "job_order_status_history"
}
