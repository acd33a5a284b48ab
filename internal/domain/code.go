package domain

// PaymentCode is a single-use redemption token issued to a student out-of-band.
// It is redeemable for exactly one checkout session and consumed by the
// webhook reconciler once the payment completes.
type PaymentCode struct {
	Code        string
	Amount      float64 // major currency units; converted per currency at checkout
	Email       string
	StudentName string
	Used        bool
	Claimed     bool
}

// InvoiceReference is a read-only view of a provider-issued invoice,
// keyed by the checkout session it belongs to.
type InvoiceReference struct {
	SessionID string
	InvoiceID string
	HostedURL string
	PDFURL    string
}
