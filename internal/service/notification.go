package service

import (
	"context"
	"log"
	"time"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentReceived     NotificationType = "PAYMENT_RECEIVED"
	NotificationReconciliationStuck NotificationType = "RECONCILIATION_STUCK"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Email client (SendGrid)
	// - Operator alerting (PagerDuty, Slack webhook)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPaymentReceived sends the payer a confirmation after their code
// is consumed.
func (s *NotificationService) NotifyPaymentReceived(ctx context.Context, code, payerEmail string) error {
	if payerEmail == "" {
		return nil // Nothing to address the confirmation to.
	}
	notification := Notification{
		Type:      NotificationPaymentReceived,
		Recipient: payerEmail,
		Title:     "Payment Received",
		Message:   "Your course payment was received. A receipt is available on the success page.",
		Data: map[string]interface{}{
			"payment_code": code,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyReconciliationStuck alerts an operator that a completed payment
// could not be reconciled with the code store. The webhook still returns
// success to the provider, so without this alert the stuck code would be
// silent data loss.
func (s *NotificationService) NotifyReconciliationStuck(ctx context.Context, code string, cause error) error {
	notification := Notification{
		Type:      NotificationReconciliationStuck,
		Recipient: "operators",
		Title:     "Reconciliation Pending",
		Message:   "A completed payment could not be marked as used; manual reconciliation required.",
		Data: map[string]interface{}{
			"payment_code": code,
			"cause":        cause.Error(),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send email via the mail provider
	// 3. Page operators for RECONCILIATION_STUCK

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.Recipient, notification.Title, notification.Message)

	return nil
}
