package pricing

import (
	"errors"

	"guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/daterange"
	"guesthub/internal/domain/shared/money"
)

const taxRatePercent = 10

var (
	ErrCurrencyUnset     = errors.New("pricing: currency must be defined")
	ErrNegativeComponent = errors.New("pricing: components cannot be negative")
)

// PriceBreakdown is the user-facing total decomposition. It is derived on
// demand and never persisted as the source of truth.
type PriceBreakdown struct {
	Nights           int
	NightlyRate      money.Money
	RoomSubtotal     money.Money
	ServicesSubtotal money.Money
	Tax              money.Money
	Total            money.Money
}

// Quote computes the full breakdown for a stay at the given nightly rate
// plus selected services.
//
// Tax is a flat 10% of room plus services, rounded half-up to the nearest
// whole currency unit. The rounding mode is part of the contract: the same
// figure is shown to the guest and signed into the payment request, so it
// must be deterministic.
func Quote(nightlyRate money.Money, dr daterange.DateRange, selections []services.Selection) (PriceBreakdown, error) {
	if nightlyRate.Currency == "" {
		return PriceBreakdown{}, ErrCurrencyUnset
	}
	if err := dr.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	if nightlyRate.Amount < 0 {
		return PriceBreakdown{}, ErrNegativeComponent
	}

	nights := dr.Nights()
	roomSubtotal := nightlyRate.Multiply(int64(nights))

	servicesSubtotal := money.Money{Amount: 0, Currency: nightlyRate.Currency}
	for _, sel := range selections {
		if sel.Quantity < 1 || sel.UnitPrice.Amount < 0 {
			return PriceBreakdown{}, ErrNegativeComponent
		}
		sum, err := servicesSubtotal.Add(sel.Subtotal())
		if err != nil {
			return PriceBreakdown{}, err
		}
		servicesSubtotal = sum
	}

	taxable := roomSubtotal.Amount + servicesSubtotal.Amount
	tax := money.Money{Amount: roundHalfUpPercent(taxable, taxRatePercent), Currency: nightlyRate.Currency}

	total := money.Money{
		Amount:   roomSubtotal.Amount + servicesSubtotal.Amount + tax.Amount,
		Currency: nightlyRate.Currency,
	}

	return PriceBreakdown{
		Nights:           nights,
		NightlyRate:      nightlyRate,
		RoomSubtotal:     roomSubtotal,
		ServicesSubtotal: servicesSubtotal,
		Tax:              tax,
		Total:            total,
	}, nil
}

// roundHalfUpPercent computes amount*percent/100 rounded half-up away from
// zero, in integer arithmetic. Subtotals are never negative here, but the
// negative branch keeps the function total.
func roundHalfUpPercent(amount int64, percent int64) int64 {
	scaled := amount * percent
	if scaled >= 0 {
		return (scaled + 50) / 100
	}
	return (scaled - 50) / 100
}
