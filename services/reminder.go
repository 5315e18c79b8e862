package services

import (
	"fmt"
	"log"
	"time"

	"jobdesk-api/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartDueDateReminder schedules a daily pass over open job orders whose
// due date has lapsed and notifies the assignee. Returns the running cron so
// main can stop it on shutdown. This is a convenience reminder, not part of
// workflow correctness; a missed run changes nothing about order state.
func StartDueDateReminder(db *gorm.DB, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = "0 8 * * *" // 08:00 every day
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := remindOverdueOrders(db); err != nil {
			log.Printf("Warning: overdue reminder pass failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("Overdue reminder scheduled (%s)", spec)
	return c, nil
}

func remindOverdueOrders(db *gorm.DB) error {
	var orders []models.JobOrder
	err := db.Where("due_date IS NOT NULL AND due_date < ?", time.Now()).
		Where("status IN ?", []string{StatusAssigned, StatusInProgress}).
		Find(&orders).Error
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.TechID == nil {
			continue
		}
		orderID := uint(order.JobOrderID)
		notification := models.Notification{
			UserID:            uint(*order.TechID),
			Title:             fmt.Sprintf("Job order %s is overdue", order.WorkOrderNo),
			Message:           fmt.Sprintf("\"%s\" passed its due date on %s.", order.Title, order.DueDate.Format("2006-01-02")),
			Type:              "warning",
			RelatedJobOrderID: &orderID,
			CreateAt:          time.Now(),
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("Warning: failed to create overdue notification for order %d: %v", order.JobOrderID, err)
		}
	}

	if len(orders) > 0 {
		log.Printf("Overdue reminder: notified %d order(s)", len(orders))
	}
	return nil
}
