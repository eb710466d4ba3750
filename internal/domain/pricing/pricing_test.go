package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/daterange"
	"guesthub/internal/domain/shared/money"
)

func stayRange(t *testing.T, nights int) daterange.DateRange {
	t.Helper()
	checkIn := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	dr, err := daterange.New(checkIn, checkIn.AddDate(0, 0, nights))
	require.NoError(t, err)
	return dr
}

func TestQuoteReferenceScenario(t *testing.T) {
	// $200/night, 2023-06-01 to 2023-06-04, one $50 service x2.
	dr := stayRange(t, 3)
	selections := []services.Selection{
		{ServiceID: "spa", Name: "Spa", UnitPrice: money.Must(50, "USD"), Quantity: 2},
	}

	got, err := Quote(money.Must(200, "USD"), dr, selections)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, int64(600), got.RoomSubtotal.Amount)
	assert.Equal(t, int64(100), got.ServicesSubtotal.Amount)
	assert.Equal(t, int64(70), got.Tax.Amount)
	assert.Equal(t, int64(770), got.Total.Amount)
	assert.Equal(t, "USD", got.Total.Currency)
}

func TestQuoteLinearInNights(t *testing.T) {
	rate := money.Must(125, "USD")

	three, err := Quote(rate, stayRange(t, 3), nil)
	require.NoError(t, err)
	six, err := Quote(rate, stayRange(t, 6), nil)
	require.NoError(t, err)

	assert.Equal(t, three.RoomSubtotal.Amount*2, six.RoomSubtotal.Amount)
}

func TestQuoteLinearInServiceQuantity(t *testing.T) {
	dr := stayRange(t, 2)
	one := []services.Selection{{ServiceID: "bf", UnitPrice: money.Must(30, "USD"), Quantity: 1}}
	two := []services.Selection{{ServiceID: "bf", UnitPrice: money.Must(30, "USD"), Quantity: 2}}

	a, err := Quote(money.Must(100, "USD"), dr, one)
	require.NoError(t, err)
	b, err := Quote(money.Must(100, "USD"), dr, two)
	require.NoError(t, err)

	assert.Equal(t, a.ServicesSubtotal.Amount*2, b.ServicesSubtotal.Amount)
}

func TestQuoteTaxRoundsHalfUp(t *testing.T) {
	// Taxable 125 -> 10% is 12.5 -> rounds up to 13.
	got, err := Quote(money.Must(125, "USD"), stayRange(t, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(13), got.Tax.Amount)
	assert.Equal(t, int64(138), got.Total.Amount)

	// Taxable 124 -> 12.4 -> rounds down to 12.
	got, err = Quote(money.Must(124, "USD"), stayRange(t, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Tax.Amount)
}

func TestQuoteRejectsBadInput(t *testing.T) {
	dr := stayRange(t, 1)

	_, err := Quote(money.Money{Amount: 100}, dr, nil)
	assert.ErrorIs(t, err, ErrCurrencyUnset)

	_, err = Quote(money.Must(100, "USD"), daterange.DateRange{}, nil)
	assert.Error(t, err)

	_, err = Quote(money.Must(100, "USD"), dr, []services.Selection{
		{ServiceID: "x", UnitPrice: money.Must(10, "USD"), Quantity: 0},
	})
	assert.ErrorIs(t, err, ErrNegativeComponent)
}
