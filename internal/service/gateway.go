package service

import (
	"context"

	"shademy/internal/domain"
)

// CheckoutSessionParams describes a hosted checkout session to create.
type CheckoutSessionParams struct {
	UnitAmount         int64 // minor currency units
	Currency           string
	CustomerEmail      string
	ProductName        string
	ProductDescription string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
	IdempotencyKey     string
	EnableInvoice      bool
}

// CheckoutSession is the provider's response to a session creation.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionDetails is a retrieved checkout session with its linked invoice,
// when one exists.
type SessionDetails struct {
	ID              string
	CustomerID      string
	PaymentIntentID string
	AmountTotal     int64 // minor currency units
	Currency        string
	Invoice         *domain.InvoiceReference
}

// PaymentConfirmation is the provider's record of the underlying payment.
type PaymentConfirmation struct {
	ID         string
	CustomerID string
	Succeeded  bool
}

// InvoiceParams describes an invoice to synthesize for a completed payment.
type InvoiceParams struct {
	CustomerID  string
	Amount      int64 // minor currency units
	Currency    string
	Description string
}

// PaymentGateway is the interface to the payment provider. The concrete
// Stripe implementation lives in internal/stripe; tests substitute a mock.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*SessionDetails, error)
	GetPaymentConfirmation(ctx context.Context, paymentIntentID string) (*PaymentConfirmation, error)
	CreateInvoice(ctx context.Context, params InvoiceParams) (*domain.InvoiceReference, error)
}
