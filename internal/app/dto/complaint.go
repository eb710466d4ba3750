package dto

import (
	"time"

	"guesthub/internal/domain/complaint"
)

type ComplaintView struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ComplaintCollection struct {
	Items []ComplaintView `json:"items"`
}

func NewComplaintView(c *complaint.Complaint) ComplaintView {
	return ComplaintView{
		ID:          string(c.ID),
		BookingID:   c.BookingID,
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

func NewComplaintCollection(list []*complaint.Complaint) ComplaintCollection {
	items := make([]ComplaintView, 0, len(list))
	for _, c := range list {
		items = append(items, NewComplaintView(c))
	}
	return ComplaintCollection{Items: items}
}
