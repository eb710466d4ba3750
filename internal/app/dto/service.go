package dto

import (
	"guesthub/internal/domain/services"
)

type ServiceView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       MoneyDTO `json:"price"`
	Category    string   `json:"category,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

type ServiceCollection struct {
	Items []ServiceView `json:"items"`
}

func NewServiceCollection(catalog []*services.Service) ServiceCollection {
	items := make([]ServiceView, 0, len(catalog))
	for _, s := range catalog {
		items = append(items, ServiceView{
			ID:          string(s.ID),
			Name:        s.Name,
			Description: s.Description,
			Price:       NewMoney(s.Price),
			Category:    s.Category,
			ImageURL:    s.ImageURL,
		})
	}
	return ServiceCollection{Items: items}
}
