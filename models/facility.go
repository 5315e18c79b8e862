package models

import "time"

// Facility mirrors the upstream facility registry (code lookups against the
// health-facility master list).
type Facility struct {
	FacilityID   int        `gorm:"primaryKey;column:facility_id" json:"facility_id"`
	Code         string     `gorm:"column:code;unique" json:"code"`
	Name         string     `gorm:"column:name" json:"name"`
	City         string     `gorm:"column:city" json:"city"`
	Province     string     `gorm:"column:province" json:"province"`
	ProvinceCode string     `gorm:"column:province_code" json:"province_code"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// CaseSequence backs the per-province, per-year running case number.
type CaseSequence struct {
	SequenceID   int    `gorm:"primaryKey;column:sequence_id" json:"sequence_id"`
	ProvinceCode string `gorm:"column:province_code;uniqueIndex:idx_province_year" json:"province_code"`
	Year         int    `gorm:"column:year;uniqueIndex:idx_province_year" json:"year"`
	LastSeq      int    `gorm:"column:last_seq" json:"last_seq"`
}

// TableName overrides
func (Facility) TableName() string {
	return "facilities"
}

func (CaseSequence) TableName() string {
	return "case_sequences"
}
