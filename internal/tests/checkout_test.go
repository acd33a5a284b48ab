package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"shademy/internal/config"
	"shademy/internal/domain"
	"shademy/internal/handler"
	"shademy/internal/service"
)

// ──────────────────────────────────────────────
// 1. PAYMENT CODE REDEMPTION
// ──────────────────────────────────────────────

func testStripeConfig() config.StripeConfig {
	return config.StripeConfig{
		SecretKey:         "sk_test_123",
		WebhookSecret:     "whsec_test_secret",
		Currency:          "usd",
		SuccessURL:        "https://shademy.online/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         "https://shademy.online/payment",
		BookingCurrency:   "jpy",
		BookingAmount:     1000,
		BookingSuccessURL: "https://shademy.online/session-booking?success=true",
		BookingCancelURL:  "https://shademy.online/session-booking",
	}
}

func TestRedeem_ValidCode_ReturnsCheckoutURL(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()

	codeRepo.AddCode(&domain.PaymentCode{
		Code:        "ABC123",
		Amount:      50,
		Email:       "student@example.com",
		StudentName: "Yuki Tanaka",
	})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	redirect, err := checkoutService.Redeem(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(redirect.URL, "checkout.stripe.com") {
		t.Errorf("expected hosted checkout URL, got %s", redirect.URL)
	}
	if redirect.SessionID == "" {
		t.Error("expected a session ID on the redirect")
	}

	// The code must be claimed so a concurrent redemption cannot reuse it.
	if pc := codeRepo.GetCode("ABC123"); !pc.Claimed {
		t.Error("expected code to be claimed after session creation")
	}

	// Session parameters must carry the minor-unit amount and the metadata
	// the reconciler keys on.
	params := gateway.LastSessionParams
	if params.UnitAmount != 5000 {
		t.Errorf("expected unit amount 5000 for $50, got %d", params.UnitAmount)
	}
	if params.Currency != "usd" {
		t.Errorf("expected currency usd, got %s", params.Currency)
	}
	if params.Metadata["payment_code"] != "ABC123" {
		t.Errorf("expected payment_code metadata, got %v", params.Metadata)
	}
	if params.CustomerEmail != "student@example.com" {
		t.Errorf("expected customer email prefill, got %s", params.CustomerEmail)
	}
	if !strings.HasPrefix(params.IdempotencyKey, "checkout:ABC123:") {
		t.Errorf("expected claim-scoped idempotency key, got %s", params.IdempotencyKey)
	}
}

func TestRedeem_EmptyCode_RejectedBeforeAnyCall(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()
	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	for _, code := range []string{"", "   ", "\t"} {
		_, err := checkoutService.Redeem(context.Background(), code)
		if !errors.Is(err, service.ErrMissingCode) {
			t.Errorf("code %q: expected ErrMissingCode, got %v", code, err)
		}
	}

	if codeRepo.ClaimCallCount != 0 {
		t.Errorf("expected no store calls for empty code, got %d", codeRepo.ClaimCallCount)
	}
	if gateway.CreateSessionCallCount != 0 {
		t.Errorf("expected no gateway calls for empty code, got %d", gateway.CreateSessionCallCount)
	}
}

func TestRedeem_UnknownAndUsedCode_SameError(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()

	codeRepo.AddCode(&domain.PaymentCode{
		Code:   "USED01",
		Amount: 50,
		Used:   true,
	})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	// A code that does not exist and a code that was already consumed must
	// be indistinguishable to the caller.
	_, errUnknown := checkoutService.Redeem(context.Background(), "NOSUCH")
	_, errUsed := checkoutService.Redeem(context.Background(), "USED01")

	if !errors.Is(errUnknown, service.ErrCodeNotFound) {
		t.Errorf("expected ErrCodeNotFound for unknown code, got %v", errUnknown)
	}
	if !errors.Is(errUsed, service.ErrCodeNotFound) {
		t.Errorf("expected ErrCodeNotFound for used code, got %v", errUsed)
	}
	if gateway.CreateSessionCallCount != 0 {
		t.Errorf("expected no gateway calls, got %d", gateway.CreateSessionCallCount)
	}
}

func TestRedeem_ProviderFailure_ReleasesClaim(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()
	gateway.CreateSessionError = errors.New("stripe: rate limited")

	codeRepo.AddCode(&domain.PaymentCode{
		Code:        "RETRY1",
		Amount:      75,
		StudentName: "Kenji Sato",
	})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	_, err := checkoutService.Redeem(context.Background(), "RETRY1")
	if !errors.Is(err, service.ErrSessionCreateFailed) {
		t.Fatalf("expected ErrSessionCreateFailed, got %v", err)
	}

	// The provider error must not leak to the caller verbatim.
	if strings.Contains(err.Error(), "rate limited") {
		t.Errorf("provider error leaked to caller: %v", err)
	}

	// The claim must be rolled back so the payer can retry.
	if codeRepo.ReleaseCallCount != 1 {
		t.Errorf("expected one ReleaseClaim call, got %d", codeRepo.ReleaseCallCount)
	}
	if pc := codeRepo.GetCode("RETRY1"); pc.Claimed {
		t.Error("expected claim to be released after provider failure")
	}

	// Retry succeeds once the provider recovers.
	gateway.CreateSessionError = nil
	if _, err := checkoutService.Redeem(context.Background(), "RETRY1"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestRedeem_NonPositiveAmount_Rejected(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()

	codeRepo.AddCode(&domain.PaymentCode{Code: "ZERO00", Amount: 0})
	codeRepo.AddCode(&domain.PaymentCode{Code: "NEG001", Amount: -10})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	for _, code := range []string{"ZERO00", "NEG001"} {
		_, err := checkoutService.Redeem(context.Background(), code)
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("code %s: expected ErrInvalidAmount, got %v", code, err)
		}
	}

	if gateway.CreateSessionCallCount != 0 {
		t.Errorf("expected no gateway calls for invalid amounts, got %d", gateway.CreateSessionCallCount)
	}
	// Claims on rejected codes must not stay stuck.
	if codeRepo.ReleaseCallCount != 2 {
		t.Errorf("expected claims released for both codes, got %d releases", codeRepo.ReleaseCallCount)
	}
}

func TestRedeem_StoreFailure_GenericError(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	codeRepo.ClaimError = errors.New(`pq: password authentication failed for user "shademy"`)
	gateway := NewMockPaymentGateway()

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	_, err := checkoutService.Redeem(context.Background(), "ANY001")
	if !errors.Is(err, service.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "pq:") {
		t.Errorf("driver error leaked to caller: %v", err)
	}
	if gateway.CreateSessionCallCount != 0 {
		t.Errorf("expected no gateway calls, got %d", gateway.CreateSessionCallCount)
	}
}

func TestRedeemEndpoint_StoreFailure_NoInternalDetail(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	codeRepo := NewMockPaymentCodeRepository()
	codeRepo.ClaimError = errors.New(`pq: password authentication failed for user "shademy"`)

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), NewMockPaymentGateway(), testStripeConfig())
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	router := gin.New()
	router.POST("/v1/checkout/redeem", checkoutHandler.RedeemCode)

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout/redeem", strings.NewReader(`{"code":"ANY001"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for store failure, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "pq:") || strings.Contains(body, "shademy") {
		t.Errorf("response body leaks internal detail: %s", body)
	}
	if !strings.Contains(body, "service temporarily unavailable") {
		t.Errorf("expected generic error body, got %s", body)
	}
}

func TestRedeem_RetryAfterRelease_FreshIdempotencyKey(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()

	codeRepo.AddCode(&domain.PaymentCode{
		Code:        "KEY001",
		Amount:      50,
		StudentName: "Mio Abe",
	})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	gateway.CreateSessionError = errors.New("stripe: api unavailable")
	if _, err := checkoutService.Redeem(context.Background(), "KEY001"); !errors.Is(err, service.ErrSessionCreateFailed) {
		t.Fatalf("expected ErrSessionCreateFailed, got %v", err)
	}
	firstKey := gateway.LastSessionParams.IdempotencyKey

	// The retry must not reuse the failed attempt's key, or the provider
	// replays its cached error response instead of opening a session.
	gateway.CreateSessionError = nil
	if _, err := checkoutService.Redeem(context.Background(), "KEY001"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	secondKey := gateway.LastSessionParams.IdempotencyKey

	for _, key := range []string{firstKey, secondKey} {
		if !strings.HasPrefix(key, "checkout:KEY001:") {
			t.Errorf("expected claim-scoped key, got %s", key)
		}
	}
	if firstKey == secondKey {
		t.Errorf("expected a fresh idempotency key per attempt, both were %s", firstKey)
	}
}

func TestRedeem_ConcurrentSameCode_OneSessionOnly(t *testing.T) {
	t.Parallel()

	codeRepo := NewMockPaymentCodeRepository()
	gateway := NewMockPaymentGateway()

	codeRepo.AddCode(&domain.PaymentCode{
		Code:        "RACE01",
		Amount:      50,
		StudentName: "Aiko Mori",
	})

	checkoutService := service.NewCheckoutService(codeRepo, NewMockBookingRepository(), gateway, testStripeConfig())

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, results[idx] = checkoutService.Redeem(context.Background(), "RACE01")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, service.ErrCodeNotFound) {
			t.Errorf("unexpected error from concurrent redemption: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly one successful redemption, got %d", successes)
	}
	if gateway.CreateSessionCallCount != 1 {
		t.Errorf("expected exactly one checkout session, got %d", gateway.CreateSessionCallCount)
	}
}
