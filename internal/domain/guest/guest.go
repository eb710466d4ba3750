package guest

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("guest: id is required")
	ErrEmailRequired       = errors.New("guest: email is required")
	ErrPasswordHashMissing = errors.New("guest: password hash is required")
	ErrEmailAlreadyUsed    = errors.New("guest: email already used")
	ErrNotFound            = errors.New("guest: not found")
)

type ID string

// Guest is a registered hotel guest. Contact details double as the default
// billing contact for payment requests.
type Guest struct {
	ID           ID
	Email        string
	FullName     string
	Phone        string
	Address      string
	City         string
	Country      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Guest, error)
	ByEmail(ctx context.Context, email string) (*Guest, error)
	Save(ctx context.Context, g *Guest) error
}

type CreateParams struct {
	ID           ID
	Email        string
	FullName     string
	Phone        string
	Address      string
	City         string
	Country      string
	PasswordHash string
	CreatedAt    time.Time
}

func New(params CreateParams) (*Guest, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Guest{
		ID:           ID(id),
		Email:        email,
		FullName:     strings.TrimSpace(params.FullName),
		Phone:        strings.TrimSpace(params.Phone),
		Address:      strings.TrimSpace(params.Address),
		City:         strings.TrimSpace(params.City),
		Country:      strings.TrimSpace(params.Country),
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FirstLast splits the full name into the first-name/last-name pair payment
// providers expect. A single-word name becomes the first name only.
func (g *Guest) FirstLast() (string, string) {
	parts := strings.Fields(g.FullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
