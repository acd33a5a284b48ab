// Package stripe implements the payment gateway against the Stripe API.
package stripe

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"shademy/internal/domain"
	"shademy/internal/service"
)

// Gateway is the Stripe-backed implementation of service.PaymentGateway.
type Gateway struct {
	api *client.API
}

// NewGateway creates a Gateway with the given secret key. The key is the
// only credential this type holds; nothing reads the environment.
func NewGateway(secretKey string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api}
}

var _ service.PaymentGateway = (*Gateway)(nil)

// CreateCheckoutSession creates a hosted checkout session.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req service.CheckoutSessionParams) (*service.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.ProductName),
						Description: stripe.String(req.ProductDescription),
					},
					UnitAmount: stripe.Int64(req.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.EnableInvoice {
		params.InvoiceCreation = &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		}
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}

	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// GetCheckoutSession retrieves a checkout session with its invoice and
// payment intent expanded.
func (g *Gateway) GetCheckoutSession(ctx context.Context, sessionID string) (*service.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("invoice")
	params.AddExpand("payment_intent")

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}

	details := &service.SessionDetails{
		ID:          sess.ID,
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
	}
	if sess.Customer != nil {
		details.CustomerID = sess.Customer.ID
	}
	if sess.PaymentIntent != nil {
		details.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Invoice != nil {
		details.Invoice = &domain.InvoiceReference{
			SessionID: sess.ID,
			InvoiceID: sess.Invoice.ID,
			HostedURL: sess.Invoice.HostedInvoiceURL,
			PDFURL:    sess.Invoice.InvoicePDF,
		}
	}

	return details, nil
}

// GetPaymentConfirmation retrieves the payment intent behind a session.
func (g *Gateway) GetPaymentConfirmation(ctx context.Context, paymentIntentID string) (*service.PaymentConfirmation, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, err
	}

	confirmation := &service.PaymentConfirmation{
		ID:        pi.ID,
		Succeeded: pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
	if pi.Customer != nil {
		confirmation.CustomerID = pi.Customer.ID
	}

	return confirmation, nil
}

// CreateInvoice synthesizes a finalized invoice for a completed payment:
// draft invoice, one item for the session total, finalize.
func (g *Gateway) CreateInvoice(ctx context.Context, req service.InvoiceParams) (*domain.InvoiceReference, error) {
	invParams := &stripe.InvoiceParams{
		Customer:    stripe.String(req.CustomerID),
		AutoAdvance: stripe.Bool(false),
	}
	invParams.Context = ctx

	inv, err := g.api.Invoices.New(invParams)
	if err != nil {
		return nil, err
	}

	itemParams := &stripe.InvoiceItemParams{
		Customer:    stripe.String(req.CustomerID),
		Invoice:     stripe.String(inv.ID),
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	itemParams.Context = ctx

	if _, err := g.api.InvoiceItems.New(itemParams); err != nil {
		return nil, err
	}

	finalizeParams := &stripe.InvoiceFinalizeInvoiceParams{}
	finalizeParams.Context = ctx

	finalized, err := g.api.Invoices.FinalizeInvoice(inv.ID, finalizeParams)
	if err != nil {
		return nil, err
	}

	return &domain.InvoiceReference{
		InvoiceID: finalized.ID,
		HostedURL: finalized.HostedInvoiceURL,
		PDFURL:    finalized.InvoicePDF,
	}, nil
}
