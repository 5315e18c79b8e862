package models

import "time"

// CAR (corrective action report) is a lab-domain record with a plain
// free-standing status field (open|pending|closed). Unlike job orders there
// is no transition table; status is settable by any update.
type CAR struct {
	CarID       int        `gorm:"primaryKey;column:car_id" json:"car_id"`
	CaseNo      string     `gorm:"column:case_no" json:"case_no"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Department  string     `gorm:"column:department" json:"department"`
	Status      string     `gorm:"column:status" json:"status"`
	ReportedBy  int        `gorm:"column:reported_by" json:"reported_by"`
	ActionPlan  *string    `gorm:"column:action_plan" json:"action_plan,omitempty"`
	VerifiedBy  *string    `gorm:"column:verified_by" json:"verified_by,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Endorsement is a lab referral record tied to a facility; its case number
// comes from the per-province sequential generator.
type Endorsement struct {
	EndorsementID int        `gorm:"primaryKey;column:endorsement_id" json:"endorsement_id"`
	CaseNo        string     `gorm:"column:case_no;unique" json:"case_no"`
	FacilityCode  string     `gorm:"column:facility_code" json:"facility_code"`
	FacilityName  string     `gorm:"column:facility_name" json:"facility_name"`
	PatientName   string     `gorm:"column:patient_name" json:"patient_name"`
	Specimen      string     `gorm:"column:specimen" json:"specimen"`
	Status        string     `gorm:"column:status" json:"status"`
	EndorsedBy    int        `gorm:"column:endorsed_by" json:"endorsed_by"`
	Remarks       *string    `gorm:"column:remarks" json:"remarks,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (CAR) TableName() string {
	return "corrective_action_reports"
}

func (Endorsement) TableName() string {
	return "endorsements"
}
