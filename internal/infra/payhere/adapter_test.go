package payhere

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/payment"
	"guesthub/internal/domain/shared/money"
)

func testAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(Config{
		MerchantID:     "1231928",
		MerchantSecret: "SECRET",
		Sandbox:        true,
		ReturnURL:      "https://voda.center/payment/success",
		CancelURL:      "https://voda.center/payment/cancel",
		NotifyURL:      "https://voda.center/api/payhere/webhook",
	})
	require.NoError(t, err)
	return a
}

func testCustomer() Customer {
	return Customer{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+94777123456",
		Address:   "1 Hotel Rd",
		City:      "Colombo",
		Country:   "Sri Lanka",
	}
}

func TestSignKnownVector(t *testing.T) {
	// MD5("1231928PMS-abc12345-654321220.00USDSECRET"), hex upper-cased.
	a := testAdapter(t)
	got := a.sign("PMS-abc12345-654321", "220.00", "USD")
	assert.Equal(t, "32C287D1BB5A67B6FA3923F2913151F3", got)
}

func TestPrepareCheckoutFields(t *testing.T) {
	a := testAdapter(t)

	req, err := a.PrepareCheckout(CheckoutParams{
		BookingID: "booking-abc12345",
		RoomID:    "101",
		Amount:    money.Must(220, "USD"),
		Customer:  testCustomer(),
	})
	require.NoError(t, err)

	assert.Equal(t, sandboxCheckoutURL, req.CheckoutURL)
	assert.Equal(t, "220.00", req.Amount)
	assert.Contains(t, req.OrderID, "PMS-abc12345-")

	fields := req.Fields()
	assert.Equal(t, "1231928", fields["merchant_id"])
	assert.Equal(t, req.OrderID, fields["order_id"])
	assert.Equal(t, "220.00", fields["amount"])
	assert.Equal(t, "USD", fields["currency"])
	assert.Equal(t, "booking-abc12345", fields["custom_1"])
	assert.Equal(t, "101", fields["custom_2"])
	assert.Equal(t, "Hotel Booking #booking-abc12345", fields["items"])
	assert.Equal(t, "https://voda.center/api/payhere/webhook", fields["notify_url"])
	assert.Equal(t, req.Hash, fields["hash"])
	assert.Equal(t, a.sign(req.OrderID, "220.00", "USD"), req.Hash)
}

func TestPrepareCheckoutValidation(t *testing.T) {
	a := testAdapter(t)

	_, err := a.PrepareCheckout(CheckoutParams{Amount: money.Must(0, "USD"), Customer: testCustomer()})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = a.PrepareCheckout(CheckoutParams{Amount: money.Must(-5, "USD"), Customer: testCustomer()})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = a.PrepareCheckout(CheckoutParams{Amount: money.Must(100, "USD"), Customer: Customer{LastName: "Only"}})
	assert.ErrorIs(t, err, ErrInvalidCustomer)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	a := testAdapter(t)

	req, err := a.PrepareCheckout(CheckoutParams{
		BookingID: "booking-abc12345",
		Amount:    money.Must(770, "USD"),
		Customer:  testCustomer(),
	})
	require.NoError(t, err)

	n := Webhook{
		MerchantID: "1231928",
		OrderID:    req.OrderID,
		Amount:     "770.00",
		Currency:   "USD",
		StatusCode: "2",
		Signature:  req.Hash,
	}
	assert.True(t, a.VerifySignature(n))

	// Case-insensitive comparison against the supplied signature.
	n.Signature = "32c287d1bb5a67b6fa3923f2913151f3"
	n.OrderID = "PMS-abc12345-654321"
	n.Amount = "220.00"
	assert.True(t, a.VerifySignature(n))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	a := testAdapter(t)
	valid := Webhook{
		MerchantID: "1231928",
		OrderID:    "PMS-abc12345-654321",
		Amount:     "220.00",
		Currency:   "USD",
		Signature:  "32C287D1BB5A67B6FA3923F2913151F3",
	}
	require.True(t, a.VerifySignature(valid))

	tampered := valid
	tampered.OrderID = "PMS-abc12345-654322"
	assert.False(t, a.VerifySignature(tampered))

	tampered = valid
	tampered.Amount = "221.00"
	assert.False(t, a.VerifySignature(tampered))

	tampered = valid
	tampered.Currency = "LKR"
	assert.False(t, a.VerifySignature(tampered))

	// Foreign merchant id short-circuits before any hash comparison.
	tampered = valid
	tampered.MerchantID = "9999999"
	assert.False(t, a.VerifySignature(tampered))

	tampered = valid
	tampered.Amount = "not-a-number"
	assert.False(t, a.VerifySignature(tampered))

	tampered = valid
	tampered.Signature = ""
	assert.False(t, a.VerifySignature(tampered))
}

func TestParseWebhookAndOutcome(t *testing.T) {
	form := url.Values{}
	form.Set("merchant_id", "1231928")
	form.Set("order_id", "PMS-abc12345-654321")
	form.Set("payment_id", "320012345")
	form.Set("payhere_amount", "770.00")
	form.Set("payhere_currency", "USD")
	form.Set("status_code", "2")
	form.Set("md5sig", "ABC")
	form.Set("custom_1", "booking-abc12345")
	form.Set("custom_2", "101")

	n := ParseWebhook(form)
	assert.Equal(t, "booking-abc12345", n.BookingID)
	assert.Equal(t, "101", n.RoomID)
	assert.Equal(t, payment.OutcomeSuccess, n.Outcome())

	codes := map[string]payment.Outcome{
		"0":     payment.OutcomePending,
		"-1":    payment.OutcomeCancelled,
		"-2":    payment.OutcomeFailed,
		"-3":    payment.OutcomeRefunded,
		"7":     payment.OutcomeUnknown,
		"bogus": payment.OutcomeUnknown,
	}
	for code, want := range codes {
		n.StatusCode = code
		assert.Equal(t, want, n.Outcome(), "status_code %q", code)
	}
	assert.False(t, payment.OutcomeUnknown.Terminal())
	assert.False(t, payment.OutcomePending.Terminal())
	assert.True(t, payment.OutcomeSuccess.Terminal())
}

func TestOrderIDUniqueWithinSameMillisecond(t *testing.T) {
	gen := NewOrderIDGenerator("")
	frozen := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return frozen }

	const n = 500
	var mu sync.Mutex
	seen := make(map[string]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Next("booking-abc12345")
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n, "order ids must not collide inside one millisecond")
}
