// Package payhere builds PayHere checkout requests and verifies webhook
// signatures. Field names, ordering, and the MD5 hash formula are dictated
// by the provider protocol and must not be altered.
package payhere

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"guesthub/internal/domain/shared/money"
)

const (
	sandboxCheckoutURL = "https://sandbox.payhere.lk/pay/checkout"
	liveCheckoutURL    = "https://www.payhere.lk/pay/checkout"
)

var (
	ErrMerchantNotConfigured = errors.New("payhere: merchant id and secret are required")
	ErrInvalidAmount         = errors.New("payhere: amount must be a positive number")
	ErrInvalidCustomer       = errors.New("payhere: customer name and email are required")
)

type Config struct {
	MerchantID     string
	MerchantSecret string
	Sandbox        bool
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
}

func (c Config) checkoutURL() string {
	if c.Sandbox {
		return sandboxCheckoutURL
	}
	return liveCheckoutURL
}

// Customer carries the billing contact PayHere requires on every request.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

func (c Customer) validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.Email) == "" {
		return ErrInvalidCustomer
	}
	return nil
}

type CheckoutParams struct {
	BookingID string
	RoomID    string
	Amount    money.Money
	Items     string
	Customer  Customer
}

// CheckoutRequest is one immutable payment attempt. A retry goes through
// PrepareCheckout again and gets a fresh order id.
type CheckoutRequest struct {
	CheckoutURL string
	OrderID     string
	Amount      string
	Currency    string
	Items       string
	Customer    Customer
	Hash        string
	BookingID   string
	RoomID      string

	returnURL string
	cancelURL string
	notifyURL string
	merchant  string
}

// Fields returns the flat key-value map submitted to the provider-hosted
// checkout page as a form POST.
func (r *CheckoutRequest) Fields() map[string]string {
	return map[string]string{
		"merchant_id": r.merchant,
		"return_url":  r.returnURL,
		"cancel_url":  r.cancelURL,
		"notify_url":  r.notifyURL,
		"order_id":    r.OrderID,
		"items":       r.Items,
		"currency":    r.Currency,
		"amount":      r.Amount,
		"first_name":  r.Customer.FirstName,
		"last_name":   r.Customer.LastName,
		"email":       r.Customer.Email,
		"phone":       r.Customer.Phone,
		"address":     r.Customer.Address,
		"city":        r.Customer.City,
		"country":     r.Customer.Country,
		"hash":        r.Hash,
		"custom_1":    r.BookingID,
		"custom_2":    r.RoomID,
	}
}

// Adapter shapes checkout requests and checks webhook signatures for one
// merchant account. Safe for concurrent use.
type Adapter struct {
	cfg      Config
	orderIDs *OrderIDGenerator
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.MerchantID) == "" || strings.TrimSpace(cfg.MerchantSecret) == "" {
		return nil, ErrMerchantNotConfigured
	}
	return &Adapter{cfg: cfg, orderIDs: NewOrderIDGenerator("")}, nil
}

// PrepareCheckout builds a signed provider request for one payment attempt.
func (a *Adapter) PrepareCheckout(params CheckoutParams) (*CheckoutRequest, error) {
	if params.Amount.Amount <= 0 || params.Amount.Currency == "" {
		return nil, ErrInvalidAmount
	}
	if err := params.Customer.validate(); err != nil {
		return nil, err
	}

	orderID := a.orderIDs.Next(params.BookingID)
	formatted := formatAmount(float64(params.Amount.Amount))
	items := params.Items
	if items == "" {
		items = fmt.Sprintf("Hotel Booking #%s", params.BookingID)
	}

	return &CheckoutRequest{
		CheckoutURL: a.cfg.checkoutURL(),
		OrderID:     orderID,
		Amount:      formatted,
		Currency:    params.Amount.Currency,
		Items:       items,
		Customer:    params.Customer,
		Hash:        a.sign(orderID, formatted, params.Amount.Currency),
		BookingID:   params.BookingID,
		RoomID:      params.RoomID,
		returnURL:   a.cfg.ReturnURL,
		cancelURL:   a.cfg.CancelURL,
		notifyURL:   a.cfg.NotifyURL,
		merchant:    a.cfg.MerchantID,
	}, nil
}

// VerifySignature checks an inbound webhook against this merchant account.
// It never returns an error: any mismatch, including a foreign merchant id
// or an unparsable amount, is reported as false and the payload must be
// discarded by the caller.
func (a *Adapter) VerifySignature(n Webhook) bool {
	if n.MerchantID != a.cfg.MerchantID {
		return false
	}
	if n.Signature == "" {
		return false
	}
	formatted, err := normalizeAmount(n.Amount)
	if err != nil {
		return false
	}
	expected := a.sign(n.OrderID, formatted, n.Currency)
	return strings.EqualFold(expected, n.Signature)
}

// sign computes UPPER(HEX(MD5(merchantId + orderId + amount + currency +
// UPPER(merchantSecret)))). The concatenation order is the provider's.
func (a *Adapter) sign(orderID, formattedAmount, currency string) string {
	payload := a.cfg.MerchantID + orderID + formattedAmount + currency + strings.ToUpper(a.cfg.MerchantSecret)
	sum := md5.Sum([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// formatAmount renders an amount with exactly two decimal places, the only
// form the provider accepts for signing and transmission.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func normalizeAmount(raw string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return "", ErrInvalidAmount
	}
	return formatAmount(v), nil
}
