package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "guesthub/internal/domain/auth"
	"guesthub/internal/domain/guest"
	"guesthub/internal/infra/security"
	"guesthub/internal/infra/storage/memory"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Guests:    memory.NewGuestRepository(),
		Sessions:  memory.NewSessionStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
}

func TestRegisterIssuesResolvableSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{
		Email:    "Jane.Doe@Example.com",
		FullName: "Jane Doe",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "jane.doe@example.com", res.Guest.Email)
	assert.NotEqual(t, "correct horse", res.Guest.PasswordHash)

	resolved, err := svc.ResolveToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Guest.ID, resolved.Guest.ID)
}

func TestRegisterKeepsBillingContact(t *testing.T) {
	svc := newService(t)

	res, err := svc.Register(context.Background(), RegisterParams{
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		Address:  " 12 Galle Road ",
		City:     "Galle",
		Country:  "Sri Lanka",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Galle Road", res.Guest.Address)
	assert.Equal(t, "Galle", res.Guest.City)
	assert.Equal(t, "Sri Lanka", res.Guest.Country)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", FullName: "A", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Email: "GUEST@example.com", FullName: "B", Password: "longenough"})
	assert.ErrorIs(t, err, guest.ErrEmailAlreadyUsed)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), RegisterParams{Email: "guest@example.com", FullName: "A", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", FullName: "A", Password: "longenough"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginParams{Email: "guest@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", FullName: "A", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))

	_, err = svc.ResolveToken(ctx, res.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	svc := newService(t)
	svc.SessionTTL = time.Nanosecond
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterParams{Email: "guest@example.com", FullName: "A", Password: "longenough"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = svc.ResolveToken(ctx, res.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}
