package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedAttachmentTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func uploadRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

// UploadAttachment stores one file against an existing job order. Uploads
// are independent of order creation: a failure here leaves the order as it
// was and the client is told which part failed.
func UploadAttachment(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var order models.JobOrder
	if err := config.DB.Where("job_order_id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job order"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	maxSize := int64(10 * 1024 * 1024) // 10MB
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 10MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAttachmentTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	orderFolder := filepath.Join(uploadRoot(), "job-orders", strconv.Itoa(order.JobOrderID))
	if err := os.MkdirAll(orderFolder, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
		return
	}

	storedName := uuid.NewString() + ext
	fullPath := filepath.Join(orderFolder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	actor := currentActor(c)
	attachment := models.JobOrderAttachment{
		JobOrderID:   order.JobOrderID,
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   actor.UserID,
		UploadedAt:   time.Now(),
	}

	if err := config.DB.Create(&attachment).Error; err != nil {
		// Remove the orphaned file; the job order itself is untouched.
		os.Remove(fullPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file info"})
		return
	}

	writeAudit(c, "upload", "job_order_attachment", attachment.AttachmentID, order.WorkOrderNo,
		map[string]interface{}{"original_name": file.Filename, "size": file.Size},
		"Attachment uploaded")

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"attachment": attachment,
	})
}

// GetAttachments lists the files attached to one job order.
func GetAttachments(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var count int64
	config.DB.Model(&models.JobOrder{}).Where("job_order_id = ?", orderID).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job order not found"})
		return
	}

	var attachments []models.JobOrderAttachment
	if err := config.DB.Where("job_order_id = ?", orderID).
		Order("uploaded_at ASC").Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"attachments": attachments,
		"total":       len(attachments),
	})
}

// DownloadAttachment streams a stored file with its original name.
func DownloadAttachment(c *gin.Context) {
	attachmentID, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil || attachmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	var attachment models.JobOrderAttachment
	if err := config.DB.Where("attachment_id = ?", attachmentID).First(&attachment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		return
	}

	if _, err := os.Stat(attachment.StoredPath); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Stored file is unavailable"})
		return
	}

	c.FileAttachment(attachment.StoredPath, attachment.OriginalName)
}
