package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"shademy/internal/domain"
	"shademy/internal/repository"
)

// WebhookService reconciles provider events with the code store.
type WebhookService struct {
	codeRepo      repository.PaymentCodeRepository
	bookingRepo   repository.BookingRepository
	notifier      *NotificationService
	signingSecret string
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	codeRepo repository.PaymentCodeRepository,
	bookingRepo repository.BookingRepository,
	notifier *NotificationService,
	signingSecret string,
) *WebhookService {
	return &WebhookService{
		codeRepo:      codeRepo,
		bookingRepo:   bookingRepo,
		notifier:      notifier,
		signingSecret: signingSecret,
	}
}

// Process verifies and applies one provider event.
//
// Verification runs against the raw body bytes; re-serialized JSON would
// not match the signature. checkout.session.completed consumes the code,
// checkout.session.expired returns an abandoned claim to the pool; every
// other verified event is accepted and ignored.
//
// Store failures are logged and swallowed: the provider retries on
// non-2xx, and redelivering an event we cannot apply only causes a
// redelivery storm. Stuck codes are reconciled by an operator.
func (s *WebhookService) Process(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.signingSecret)
	if err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		return ErrInvalidSignature
	}

	if event.Type != "checkout.session.completed" && event.Type != "checkout.session.expired" {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("webhook %s: malformed session object: %v", event.ID, err)
		return nil
	}

	if event.Type == "checkout.session.expired" {
		if code := session.Metadata["payment_code"]; code != "" {
			s.releaseAbandoned(ctx, code)
		}
		return nil
	}

	if code := session.Metadata["payment_code"]; code != "" {
		s.consumeCode(ctx, code, session.CustomerEmail)
	}

	if session.Metadata["type"] == "session_booking" {
		s.confirmBooking(ctx, session.ID)
	}

	return nil
}

// releaseAbandoned returns the claim on an expired checkout session so
// the still-unpaid code can be redeemed again. The claim only guards the
// in-flight session; once that session is gone the guard has no subject.
func (s *WebhookService) releaseAbandoned(ctx context.Context, code string) {
	if err := s.codeRepo.ReleaseClaim(ctx, code); err != nil {
		log.Printf("failed to release claim on code %s after expiry: %v", code, err)
		return
	}
	log.Printf("claim released on code %s (checkout expired)", code)
}

// consumeCode flips the code's used flag. The conditional update makes
// at-least-once delivery safe: a redelivered event is a no-op.
func (s *WebhookService) consumeCode(ctx context.Context, code, payerEmail string) {
	consumed, err := s.codeRepo.MarkUsed(ctx, code)
	if err != nil {
		log.Printf("failed to mark code %s as used: %v", code, err)
		if s.notifier != nil {
			_ = s.notifier.NotifyReconciliationStuck(ctx, code, err)
		}
		return
	}

	if !consumed {
		log.Printf("code %s already consumed (redelivery)", code)
		return
	}

	log.Printf("code %s marked as used", code)
	if s.notifier != nil {
		_ = s.notifier.NotifyPaymentReceived(ctx, code, payerEmail)
	}
}

// confirmBooking flips the booking audit row to PAID.
func (s *WebhookService) confirmBooking(ctx context.Context, sessionID string) {
	err := s.bookingRepo.UpdateStatusBySessionID(ctx, sessionID, domain.BookingStatusPaid)
	if err != nil {
		log.Printf("failed to confirm booking for session %s: %v", sessionID, err)
	}
}
