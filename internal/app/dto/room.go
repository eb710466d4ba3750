package dto

import (
	"guesthub/internal/domain/pricing"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoney(m money.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount, Currency: m.Currency}
}

type RoomView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	NightlyRate MoneyDTO `json:"nightly_rate"`
	Capacity    int      `json:"capacity"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

type RoomCollection struct {
	Items []RoomView `json:"items"`
}

func NewRoomView(r *rooms.Room) RoomView {
	return RoomView{
		ID:          string(r.ID),
		Name:        r.Name,
		Type:        string(r.Type),
		Description: r.Description,
		NightlyRate: NewMoney(r.NightlyRate),
		Capacity:    r.Capacity,
		ImageURLs:   append([]string(nil), r.ImageURLs...),
		Amenities:   append([]string(nil), r.Amenities...),
	}
}

type PriceBreakdownDTO struct {
	Nights           int      `json:"nights"`
	NightlyRate      MoneyDTO `json:"nightly_rate"`
	RoomSubtotal     MoneyDTO `json:"room_subtotal"`
	ServicesSubtotal MoneyDTO `json:"services_subtotal"`
	Tax              MoneyDTO `json:"tax"`
	Total            MoneyDTO `json:"total"`
}

func NewPriceBreakdown(p pricing.PriceBreakdown) PriceBreakdownDTO {
	return PriceBreakdownDTO{
		Nights:           p.Nights,
		NightlyRate:      NewMoney(p.NightlyRate),
		RoomSubtotal:     NewMoney(p.RoomSubtotal),
		ServicesSubtotal: NewMoney(p.ServicesSubtotal),
		Tax:              NewMoney(p.Tax),
		Total:            NewMoney(p.Total),
	}
}

type AvailabilityOffer struct {
	Room  RoomView          `json:"room"`
	Price PriceBreakdownDTO `json:"price"`
}

type AvailabilityCollection struct {
	Items []AvailabilityOffer `json:"items"`
}
