package services

import (
	"fmt"
	"log"
	"time"

	"jobdesk-api/config"
	"jobdesk-api/models"

	"gorm.io/gorm"
)

// NotifyTransition writes the in-app notification for a completed workflow
// action and sends the matching email best-effort. Called after the
// transition committed; a mail failure is logged and never undoes the
// transition.
func NotifyTransition(db *gorm.DB, order *models.JobOrder, action string, actor Actor) {
	title, message, notifType := transitionNotice(order, action, actor)
	if title == "" {
		return
	}

	recipients := transitionRecipients(db, order, action)
	for _, user := range recipients {
		orderID := uint(order.JobOrderID)
		notification := models.Notification{
			UserID:            uint(user.UserID),
			Title:             title,
			Message:           message,
			Type:              notifType,
			RelatedJobOrderID: &orderID,
			IsRead:            false,
			CreateAt:          time.Now(),
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("Warning: failed to create notification for user %d: %v", user.UserID, err)
		}

		if user.Email != "" {
			sendMailSafe([]string{user.Email}, title, buildNoticeHTML(user.FullName(), message))
		}
	}
}

func transitionNotice(order *models.JobOrder, action string, actor Actor) (title, message, notifType string) {
	switch action {
	case ActionApprove:
		return fmt.Sprintf("Job order %s approved", order.WorkOrderNo),
			fmt.Sprintf("%s approved your request \"%s\". It is now queued for assignment.", actor.Name, order.Title),
			"success"
	case ActionReject:
		reason := ""
		if order.RejectionReason != nil {
			reason = *order.RejectionReason
		}
		return fmt.Sprintf("Job order %s rejected", order.WorkOrderNo),
			fmt.Sprintf("%s rejected your request \"%s\". Reason: %s", actor.Name, order.Title, reason),
			"error"
	case ActionAssign:
		tech := ""
		if order.TechName != nil {
			tech = *order.TechName
		}
		return fmt.Sprintf("Job order %s assigned", order.WorkOrderNo),
			fmt.Sprintf("\"%s\" has been assigned to %s.", order.Title, tech),
			"info"
	case ActionResolve:
		return fmt.Sprintf("Job order %s resolved", order.WorkOrderNo),
			fmt.Sprintf("\"%s\" has been resolved. Please review and close the ticket.", order.Title),
			"success"
	case ActionClose:
		return fmt.Sprintf("Job order %s closed", order.WorkOrderNo),
			fmt.Sprintf("\"%s\" is closed.", order.Title),
			"info"
	case ActionCancel:
		return fmt.Sprintf("Job order %s cancelled", order.WorkOrderNo),
			fmt.Sprintf("\"%s\" was cancelled by %s.", order.Title, actor.Name),
			"warning"
	}
	return "", "", ""
}

// transitionRecipients picks who gets told about an action: the requester
// for lifecycle outcomes, plus the assignee when someone else resolves or
// cancels their ticket.
func transitionRecipients(db *gorm.DB, order *models.JobOrder, action string) []models.User {
	ids := map[int]bool{order.RequesterID: true}
	if action == ActionCancel && order.TechID != nil {
		ids[*order.TechID] = true
	}
	if action == ActionAssign && order.TechID != nil {
		ids[*order.TechID] = true
	}

	userIDs := make([]int, 0, len(ids))
	for id := range ids {
		userIDs = append(userIDs, id)
	}

	var users []models.User
	if err := db.Where("user_id IN ? AND delete_at IS NULL", userIDs).Find(&users).Error; err != nil {
		log.Printf("Warning: failed to load notification recipients: %v", err)
		return nil
	}
	return users
}

// sendMailSafe delivers in the background and only logs failures.
func sendMailSafe(to []string, subject, html string) {
	go func() {
		if err := config.SendMail(to, subject, html); err != nil {
			log.Printf("Warning: failed to send mail %q to %v: %v", subject, to, err)
		}
	}()
}

func buildNoticeHTML(recipientName, message string) string {
	return fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333">
<p>Dear %s,</p>
<p>%s</p>
<p style="color:#777;font-size:12px">This message was sent automatically by the IT Job Desk system.</p>
</body></html>`, recipientName, message)
}
