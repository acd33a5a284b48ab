package tests

import (
	"context"
	"errors"
	"testing"

	"shademy/internal/domain"
	"shademy/internal/service"
)

// ──────────────────────────────────────────────
// 2. SESSION BOOKING
// ──────────────────────────────────────────────

func validBookingRequest() service.BookSessionRequest {
	return service.BookSessionRequest{
		CourseName:   "Business English",
		StudentName:  "Haruto Ito",
		StudentEmail: "haruto@example.com",
		SessionDate:  "2026-09-15",
		SessionTime:  "18:00",
	}
}

func TestBookSession_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	bookingRepo := NewMockBookingRepository()
	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), bookingRepo, gateway, testStripeConfig())

	testCases := []struct {
		name   string
		mutate func(*service.BookSessionRequest)
	}{
		{"missing course name", func(r *service.BookSessionRequest) { r.CourseName = "" }},
		{"missing student name", func(r *service.BookSessionRequest) { r.StudentName = "" }},
		{"missing email", func(r *service.BookSessionRequest) { r.StudentEmail = "" }},
		{"missing date", func(r *service.BookSessionRequest) { r.SessionDate = "" }},
		{"missing time", func(r *service.BookSessionRequest) { r.SessionTime = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validBookingRequest()
			tc.mutate(&req)

			_, err := checkoutService.BookSession(context.Background(), req)
			if !errors.Is(err, service.ErrMissingBookingFields) {
				t.Errorf("expected ErrMissingBookingFields, got %v", err)
			}
		})
	}

	if gateway.CreateSessionCallCount != 0 {
		t.Errorf("expected no gateway calls for invalid requests, got %d", gateway.CreateSessionCallCount)
	}
}

func TestBookSession_DefaultsApplied(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	bookingRepo := NewMockBookingRepository()
	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), bookingRepo, gateway, testStripeConfig())

	redirect, err := checkoutService.BookSession(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirect.URL == "" {
		t.Fatal("expected a redirect URL")
	}

	// Defaults: 1000 JPY. JPY is zero-decimal, so no multiplication.
	params := gateway.LastSessionParams
	if params.Currency != "jpy" {
		t.Errorf("expected default currency jpy, got %s", params.Currency)
	}
	if params.UnitAmount != 1000 {
		t.Errorf("expected 1000 minor units for 1000 JPY, got %d", params.UnitAmount)
	}
	if params.Metadata["type"] != "session_booking" {
		t.Errorf("expected session_booking metadata type, got %v", params.Metadata)
	}
}

func TestBookSession_ExplicitCurrencyOverridesDefault(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), NewMockBookingRepository(), gateway, testStripeConfig())

	req := validBookingRequest()
	req.Amount = 19.99
	req.Currency = "eur"

	if _, err := checkoutService.BookSession(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := gateway.LastSessionParams
	if params.Currency != "eur" {
		t.Errorf("expected eur, got %s", params.Currency)
	}
	if params.UnitAmount != 1999 {
		t.Errorf("expected 1999 minor units for 19.99 EUR, got %d", params.UnitAmount)
	}
}

func TestBookSession_PendingAuditRowPersisted(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	bookingRepo := NewMockBookingRepository()
	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), bookingRepo, gateway, testStripeConfig())

	redirect, err := checkoutService.BookSession(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking := bookingRepo.GetBySessionID(redirect.SessionID)
	if booking == nil {
		t.Fatal("expected a booking row keyed by the checkout session")
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING status, got %s", booking.Status)
	}
	if booking.ID == "" {
		t.Error("expected a generated booking ID")
	}
	if booking.StudentEmail != "haruto@example.com" {
		t.Errorf("unexpected student email: %s", booking.StudentEmail)
	}
}

func TestBookSession_AuditInsertFailure_StillReturnsURL(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.CreateError = errors.New("pq: connection refused")

	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), bookingRepo, gateway, testStripeConfig())

	// The checkout session already exists at the provider; losing the audit
	// row must not cost the payer their redirect.
	redirect, err := checkoutService.BookSession(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("expected success despite audit failure, got %v", err)
	}
	if redirect.URL == "" {
		t.Error("expected a redirect URL despite audit failure")
	}
	if bookingRepo.CreateCallCount != 1 {
		t.Errorf("expected one Create attempt, got %d", bookingRepo.CreateCallCount)
	}
}

func TestBookSession_ProviderFailure_GenericError(t *testing.T) {
	t.Parallel()

	gateway := NewMockPaymentGateway()
	gateway.CreateSessionError = errors.New("stripe: invalid api key")
	bookingRepo := NewMockBookingRepository()

	checkoutService := service.NewCheckoutService(NewMockPaymentCodeRepository(), bookingRepo, gateway, testStripeConfig())

	_, err := checkoutService.BookSession(context.Background(), validBookingRequest())
	if !errors.Is(err, service.ErrSessionCreateFailed) {
		t.Fatalf("expected ErrSessionCreateFailed, got %v", err)
	}
	if bookingRepo.CreateCallCount != 0 {
		t.Errorf("expected no audit row without a session, got %d creates", bookingRepo.CreateCallCount)
	}
}
