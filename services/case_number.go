package services

import (
	"fmt"
	"strings"

	"jobdesk-api/models"

	"gorm.io/gorm"
)

// NextCaseNumber reserves the next sequential case number for a province and
// year. The read-increment-write runs in one transaction keyed on the unique
// (province_code, year) row, so two concurrent callers never receive the
// same number.
func NextCaseNumber(db *gorm.DB, provinceCode string, year int) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(provinceCode))
	if code == "" {
		return "", fmt.Errorf("%w: province code is required", ErrValidation)
	}
	if year <= 0 {
		return "", fmt.Errorf("%w: invalid year %d", ErrValidation, year)
	}

	var next int
	err := db.Transaction(func(tx *gorm.DB) error {
		var seq models.CaseSequence
		err := tx.Where("province_code = ? AND year = ?", code, year).First(&seq).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			seq = models.CaseSequence{ProvinceCode: code, Year: year, LastSeq: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			result := tx.Model(&models.CaseSequence{}).
				Where("sequence_id = ? AND last_seq = ?", seq.SequenceID, seq.LastSeq).
				Update("last_seq", seq.LastSeq+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: case sequence contention for %s/%d", ErrUpstreamFailure, code, year)
			}
			seq.LastSeq++
		}
		next = seq.LastSeq
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%04d", code, year, next), nil
}

// LookupFacility resolves a facility code against the registry.
func LookupFacility(db *gorm.DB, code string) (*models.Facility, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: facility code is required", ErrValidation)
	}

	var facility models.Facility
	if err := db.Where("code = ? AND delete_at IS NULL", trimmed).First(&facility).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: facility %s", ErrNotFound, trimmed)
		}
		return nil, fmt.Errorf("%w: facility lookup: %v", ErrUpstreamFailure, err)
	}
	return &facility, nil
}
