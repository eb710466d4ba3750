package complaint

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrIDRequired          = errors.New("complaint: id is required")
	ErrGuestRequired       = errors.New("complaint: guest id is required")
	ErrBookingRequired     = errors.New("complaint: booking id is required")
	ErrTitleRequired       = errors.New("complaint: title is required")
	ErrTitleTooLong        = errors.New("complaint: title exceeds 100 characters")
	ErrDescriptionRequired = errors.New("complaint: description is required")
	ErrNotFound            = errors.New("complaint: not found")
)

// MaxTitleLength bounds the short summary a guest can file.
const MaxTitleLength = 100

type ID string

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Complaint is a grievance a guest files against their current stay. It is
// always pinned to a booking so staff can see which room and dates it
// concerns.
type Complaint struct {
	ID          ID
	GuestID     string
	BookingID   string
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Complaint, error)
	Save(ctx context.Context, c *Complaint) error
	ListByGuest(ctx context.Context, guestID string) ([]*Complaint, error)
}

type CreateParams struct {
	ID          ID
	GuestID     string
	BookingID   string
	Title       string
	Description string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Complaint, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	guestID := strings.TrimSpace(params.GuestID)
	if guestID == "" {
		return nil, ErrGuestRequired
	}
	bookingID := strings.TrimSpace(params.BookingID)
	if bookingID == "" {
		return nil, ErrBookingRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	created := params.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &Complaint{
		ID:          ID(id),
		GuestID:     guestID,
		BookingID:   bookingID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}, nil
}

// Resolve closes the complaint. Resolving twice is a no-op.
func (c *Complaint) Resolve(now time.Time) {
	if c.Status == StatusResolved {
		return
	}
	c.Status = StatusResolved
	c.UpdatedAt = now
}
