package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"
	"jobdesk-api/services"
	"jobdesk-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EndorsementRequest struct {
	FacilityCode string  `json:"facility_code" binding:"required"`
	PatientName  string  `json:"patient_name" binding:"required"`
	Specimen     string  `json:"specimen" binding:"required"`
	Status       string  `json:"status"`
	Remarks      *string `json:"remarks"`
}

// CreateEndorsement files a lab referral. The facility code is resolved
// against the registry and the case number comes from the per-province
// sequential generator.
func CreateEndorsement(c *gin.Context) {
	var req EndorsementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := services.LookupFacility(config.DB, req.FacilityCode)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	caseNo, err := services.NextCaseNumber(config.DB, facility.ProvinceCode, time.Now().Year())
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "pending"
	}

	actor := currentActor(c)
	now := time.Now()

	endorsement := models.Endorsement{
		CaseNo:       caseNo,
		FacilityCode: facility.Code,
		FacilityName: facility.Name,
		PatientName:  utils.SanitizeInput(req.PatientName),
		Specimen:     utils.SanitizeInput(req.Specimen),
		Status:       status,
		EndorsedBy:   actor.UserID,
		Remarks:      req.Remarks,
		CreateAt:     now,
		UpdateAt:     now,
	}

	if err := config.DB.Create(&endorsement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create endorsement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "endorsement": endorsement})
}

// GetEndorsements lists referrals with optional status filter.
func GetEndorsements(c *gin.Context) {
	status := c.Query("status")

	query := config.DB.Where("delete_at IS NULL")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var endorsements []models.Endorsement
	if err := query.Order("create_at DESC").Find(&endorsements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch endorsements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"endorsements": endorsements,
		"total":        len(endorsements),
	})
}

// UpdateEndorsementStatus sets the free status field.
func UpdateEndorsementStatus(c *gin.Context) {
	endorsementID, err := strconv.Atoi(c.Param("id"))
	if err != nil || endorsementID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endorsement ID"})
		return
	}

	var req struct {
		Status  string  `json:"status" binding:"required"`
		Remarks *string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var endorsement models.Endorsement
	if err := config.DB.Where("endorsement_id = ? AND delete_at IS NULL", endorsementID).
		First(&endorsement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endorsement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch endorsement"})
		return
	}

	endorsement.Status = strings.TrimSpace(req.Status)
	if req.Remarks != nil {
		endorsement.Remarks = req.Remarks
	}
	endorsement.UpdateAt = time.Now()

	if err := config.DB.Save(&endorsement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update endorsement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "endorsement": endorsement})
}

// DeleteEndorsement soft-deletes a referral.
func DeleteEndorsement(c *gin.Context) {
	endorsementID, err := strconv.Atoi(c.Param("id"))
	if err != nil || endorsementID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endorsement ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Endorsement{}).
		Where("endorsement_id = ? AND delete_at IS NULL", endorsementID).
		Update("delete_at", now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete endorsement"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endorsement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Endorsement deleted"})
}

// GetFacility resolves a facility code to its registry entry.
func GetFacility(c *gin.Context) {
	facility, err := services.LookupFacility(config.DB, c.Param("code"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"facility": facility,
	})
}
