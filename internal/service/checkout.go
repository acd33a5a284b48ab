package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"shademy/internal/config"
	"shademy/internal/domain"
	"shademy/internal/repository"
)

// CheckoutService validates payment codes and exchanges them for hosted
// checkout sessions. It also handles the session-booking variant.
type CheckoutService struct {
	codeRepo    repository.PaymentCodeRepository
	bookingRepo repository.BookingRepository
	gateway     PaymentGateway
	cfg         config.StripeConfig
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	codeRepo repository.PaymentCodeRepository,
	bookingRepo repository.BookingRepository,
	gateway PaymentGateway,
	cfg config.StripeConfig,
) *CheckoutService {
	return &CheckoutService{
		codeRepo:    codeRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		cfg:         cfg,
	}
}

// CheckoutRedirect is the result of a successful session creation.
type CheckoutRedirect struct {
	URL       string
	SessionID string
}

// Redeem validates a payment code and creates a checkout session for it.
//
// The code is claimed atomically before the provider call, so two
// concurrent redemptions of the same code cannot both open a session.
// The claim is rolled back if the provider rejects the session.
func (s *CheckoutService) Redeem(ctx context.Context, code string) (*CheckoutRedirect, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMissingCode
	}

	pc, err := s.codeRepo.ClaimUnused(ctx, code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrCodeNotFound
		}
		log.Printf("claim failed for code %s: %v", code, err)
		return nil, ErrStoreUnavailable
	}

	if pc.Amount <= 0 {
		s.releaseClaim(ctx, code)
		return nil, ErrInvalidAmount
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		UnitAmount:         domain.MinorUnits(pc.Amount, s.cfg.Currency),
		Currency:           s.cfg.Currency,
		CustomerEmail:      pc.Email,
		ProductName:        fmt.Sprintf("Course Payment - %s", pc.StudentName),
		ProductDescription: fmt.Sprintf("Course enrollment for %s", pc.StudentName),
		SuccessURL:         s.cfg.SuccessURL,
		CancelURL:          s.cfg.CancelURL,
		Metadata: map[string]string{
			"payment_code": pc.Code,
			"student_name": pc.StudentName,
		},
		// Scoped to this claim: a fresh redemption after a released
		// claim gets a new key, so the provider cannot replay a cached
		// response from an earlier failed attempt.
		IdempotencyKey: fmt.Sprintf("checkout:%s:%s", pc.Code, uuid.NewString()),
		EnableInvoice:  true,
	})
	if err != nil {
		log.Printf("checkout session creation failed for code %s: %v", code, err)
		s.releaseClaim(ctx, code)
		return nil, ErrSessionCreateFailed
	}

	return &CheckoutRedirect{URL: session.URL, SessionID: session.ID}, nil
}

// releaseClaim returns a claimed code to the pool so the payer can retry.
func (s *CheckoutService) releaseClaim(ctx context.Context, code string) {
	if err := s.codeRepo.ReleaseClaim(ctx, code); err != nil {
		log.Printf("failed to release claim on code %s: %v", code, err)
	}
}

// BookSessionRequest contains the parameters for booking a tutoring session.
type BookSessionRequest struct {
	CourseName   string
	StudentName  string
	StudentEmail string
	SessionDate  string
	SessionTime  string
	Amount       float64 // major units, 0 means the configured default
	Currency     string  // empty means the configured default
}

// BookSession creates a checkout session for a tutoring-session booking and
// records a pending audit row. A failed audit insert never fails the
// request; the payer still receives the redirect URL.
func (s *CheckoutService) BookSession(ctx context.Context, req BookSessionRequest) (*CheckoutRedirect, error) {
	if req.CourseName == "" || req.StudentName == "" || req.StudentEmail == "" ||
		req.SessionDate == "" || req.SessionTime == "" {
		return nil, ErrMissingBookingFields
	}

	currency := req.Currency
	if currency == "" {
		currency = s.cfg.BookingCurrency
	}
	amount := req.Amount
	if amount == 0 {
		amount = s.cfg.BookingAmount
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		UnitAmount:         domain.MinorUnits(amount, currency),
		Currency:           currency,
		CustomerEmail:      req.StudentEmail,
		ProductName:        fmt.Sprintf("Tutoring Session - %s", req.CourseName),
		ProductDescription: fmt.Sprintf("One-on-one session on %s at %s", req.SessionDate, req.SessionTime),
		SuccessURL:         s.cfg.BookingSuccessURL,
		CancelURL:          s.cfg.BookingCancelURL,
		Metadata: map[string]string{
			"type":         "session_booking",
			"course_name":  req.CourseName,
			"student_name": req.StudentName,
			"session_date": req.SessionDate,
			"session_time": req.SessionTime,
		},
	})
	if err != nil {
		log.Printf("booking session creation failed for %s: %v", req.StudentEmail, err)
		return nil, ErrSessionCreateFailed
	}

	booking := &domain.SessionBooking{
		ID:              uuid.New().String(),
		CourseName:      req.CourseName,
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		SessionDate:     fmt.Sprintf("%s %s", req.SessionDate, req.SessionTime),
		Amount:          amount,
		Currency:        currency,
		StripeSessionID: session.ID,
		Status:          domain.BookingStatusPending,
		CreatedAt:       time.Now(),
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Audit only; the checkout session already exists.
		log.Printf("failed to persist booking for session %s: %v", session.ID, err)
	}

	return &CheckoutRedirect{URL: session.URL, SessionID: session.ID}, nil
}
