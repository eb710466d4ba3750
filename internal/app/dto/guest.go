package dto

import (
	"time"

	"guesthub/internal/domain/guest"
)

type GuestProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	Guest GuestProfile `json:"guest"`
}

func NewGuestProfile(g *guest.Guest) GuestProfile {
	return GuestProfile{
		ID:        string(g.ID),
		Email:     g.Email,
		FullName:  g.FullName,
		Phone:     g.Phone,
		CreatedAt: g.CreatedAt,
	}
}

func NewAuthResponse(g *guest.Guest, token string) AuthResponse {
	return AuthResponse{Token: token, Guest: NewGuestProfile(g)}
}
