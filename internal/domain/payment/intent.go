package payment

import (
	"context"
	"errors"
	"time"

	"guesthub/internal/domain/shared/money"
)

var ErrIntentNotFound = errors.New("payment: intent not found")

const ProviderPayHere = "payhere"

// Outcome is the terminal-or-not classification of a provider webhook.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomePending   Outcome = "pending"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
	OutcomeRefunded  Outcome = "refunded"
	// OutcomeUnknown covers status codes the provider has not documented;
	// callers must treat it as non-terminal and leave state untouched.
	OutcomeUnknown Outcome = "unknown"
)

// OutcomeFromStatusCode maps PayHere webhook status codes.
func OutcomeFromStatusCode(code int) Outcome {
	switch code {
	case 2:
		return OutcomeSuccess
	case 0:
		return OutcomePending
	case -1:
		return OutcomeCancelled
	case -2:
		return OutcomeFailed
	case -3:
		return OutcomeRefunded
	default:
		return OutcomeUnknown
	}
}

// Terminal reports whether the outcome ends the payment attempt.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeSuccess, OutcomeCancelled, OutcomeFailed, OutcomeRefunded:
		return true
	default:
		return false
	}
}

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentPaid      IntentStatus = "paid"
	IntentCancelled IntentStatus = "cancelled"
	IntentFailed    IntentStatus = "failed"
	IntentRefunded  IntentStatus = "refunded"
)

// Intent records one payment attempt. A new attempt always produces a new
// intent with a new order id; intents are never reused.
type Intent struct {
	OrderID   string
	BookingID string
	Amount    money.Money
	Provider  string
	Status    IntentStatus
	PaymentID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Apply moves the intent according to a verified webhook outcome. Unknown
// outcomes leave the status alone.
func (i *Intent) Apply(outcome Outcome, paymentID string, now time.Time) {
	switch outcome {
	case OutcomeSuccess:
		i.Status = IntentPaid
	case OutcomeCancelled:
		i.Status = IntentCancelled
	case OutcomeFailed:
		i.Status = IntentFailed
	case OutcomeRefunded:
		i.Status = IntentRefunded
	case OutcomePending:
		i.Status = IntentPending
	default:
		return
	}
	if paymentID != "" {
		i.PaymentID = paymentID
	}
	i.UpdatedAt = now.UTC()
}

type IntentRepository interface {
	ByOrderID(ctx context.Context, orderID string) (*Intent, error)
	Save(ctx context.Context, intent *Intent) error
	ListByBooking(ctx context.Context, bookingID string) ([]*Intent, error)
}
