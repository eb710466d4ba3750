package dto

import (
	"time"

	"guesthub/internal/domain/payment"
	"guesthub/internal/infra/payhere"
)

// CheckoutResponse carries everything the client needs to submit the
// provider's hosted checkout form: the action URL plus the exact signed
// field set. Clients must post the fields untouched or the hash fails.
type CheckoutResponse struct {
	CheckoutURL string            `json:"checkout_url"`
	OrderID     string            `json:"order_id"`
	Fields      map[string]string `json:"fields"`
}

func NewCheckoutResponse(r *payhere.CheckoutRequest) CheckoutResponse {
	return CheckoutResponse{
		CheckoutURL: r.CheckoutURL,
		OrderID:     r.OrderID,
		Fields:      r.Fields(),
	}
}

type PaymentIntentView struct {
	OrderID   string    `json:"order_id"`
	BookingID string    `json:"booking_id"`
	Amount    MoneyDTO  `json:"amount"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	PaymentID string    `json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentIntentCollection struct {
	Items []PaymentIntentView `json:"items"`
}

func NewPaymentIntentCollection(intents []*payment.Intent) PaymentIntentCollection {
	items := make([]PaymentIntentView, 0, len(intents))
	for _, i := range intents {
		items = append(items, PaymentIntentView{
			OrderID:   i.OrderID,
			BookingID: i.BookingID,
			Amount:    NewMoney(i.Amount),
			Provider:  i.Provider,
			Status:    string(i.Status),
			PaymentID: i.PaymentID,
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
		})
	}
	return PaymentIntentCollection{Items: items}
}
