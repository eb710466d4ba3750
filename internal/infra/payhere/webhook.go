package payhere

import (
	"net/url"
	"strconv"

	"guesthub/internal/domain/payment"
)

// Webhook is the flat notification PayHere posts to the notify URL.
// custom_1/custom_2 are the opaque passthrough fields the checkout request
// seeded with the booking and room ids.
type Webhook struct {
	MerchantID string
	OrderID    string
	PaymentID  string
	Amount     string
	Currency   string
	StatusCode string
	Signature  string
	BookingID  string
	RoomID     string
}

// ParseWebhook reads the provider's form-encoded notification payload.
func ParseWebhook(form url.Values) Webhook {
	return Webhook{
		MerchantID: form.Get("merchant_id"),
		OrderID:    form.Get("order_id"),
		PaymentID:  form.Get("payment_id"),
		Amount:     form.Get("payhere_amount"),
		Currency:   form.Get("payhere_currency"),
		StatusCode: form.Get("status_code"),
		Signature:  form.Get("md5sig"),
		BookingID:  form.Get("custom_1"),
		RoomID:     form.Get("custom_2"),
	}
}

// Outcome maps the provider status code; anything unrecognized (including a
// missing or malformed code) is the non-terminal unknown outcome.
func (n Webhook) Outcome() payment.Outcome {
	code, err := strconv.Atoi(n.StatusCode)
	if err != nil {
		return payment.OutcomeUnknown
	}
	return payment.OutcomeFromStatusCode(code)
}
