package services

import (
	"context"
	"errors"

	"guesthub/internal/domain/shared/money"
)

var (
	ErrServiceNotFound = errors.New("services: not found")
	ErrInvalidQuantity = errors.New("services: quantity must be positive")
)

type ServiceID string

// Service is an ancillary offering (spa, breakfast, airport transfer)
// guests can attach to a booking.
type Service struct {
	ID          ServiceID
	Name        string
	Description string
	Price       money.Money
	Category    string
	ImageURL    string
}

// Selection captures one chosen service with the unit price frozen at
// booking time, so later catalog price changes never move a quoted total.
type Selection struct {
	ServiceID ServiceID
	Name      string
	UnitPrice money.Money
	Quantity  int
}

func NewSelection(svc Service, quantity int) (Selection, error) {
	if quantity < 1 {
		return Selection{}, ErrInvalidQuantity
	}
	return Selection{ServiceID: svc.ID, Name: svc.Name, UnitPrice: svc.Price, Quantity: quantity}, nil
}

// Subtotal is unit price times quantity.
func (s Selection) Subtotal() money.Money {
	return s.UnitPrice.Multiply(int64(s.Quantity))
}

type Repository interface {
	ByID(ctx context.Context, id ServiceID) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
}
