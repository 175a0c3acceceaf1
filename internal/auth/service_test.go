package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/visionise-api/internal/auth"
	"github.com/redmonkez12/visionise-api/internal/database/memory"
	"github.com/redmonkez12/visionise-api/internal/user"
)

// fastArgon2Params keeps hashing cheap in tests
var fastArgon2Params = auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func newTestService(t *testing.T) (*auth.Service, *auth.JWTService) {
	t.Helper()

	tokens, err := auth.NewJWTService([]byte("test-secret"))
	require.NoError(t, err)

	return auth.NewService(memory.New().Users(), tokens, auth.NewPasswordHasher(fastArgon2Params), 0), tokens
}

func TestService_SignupThenSignin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestService(t)

	created, err := svc.Signup(ctx, auth.SignupInput{Email: "a@x.com", Password: "p1", FirstName: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "p1", created.PasswordHash)

	token, u, err := svc.Signin(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenValidity), claims.ExpiresAt, 5*time.Second)
}

func TestService_SignupValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), auth.SignupInput{Password: "p1"})
	assert.ErrorIs(t, err, auth.ErrEmailRequired)

	_, err = svc.Signup(context.Background(), auth.SignupInput{Email: "  "})
	assert.ErrorIs(t, err, auth.ErrEmailRequired)

	_, err = svc.Signup(context.Background(), auth.SignupInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, auth.ErrPasswordRequired)
}

func TestService_SignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Signup(ctx, auth.SignupInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, auth.SignupInput{Email: "a@x.com", Password: "p2"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestService_SigninInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Signup(ctx, auth.SignupInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	tests := map[string][2]string{
		"wrong password": {"a@x.com", "nope"},
		"unknown email":  {"b@x.com", "p1"},
		"empty password": {"a@x.com", ""},
		"empty email":    {"", "p1"},
	}

	for name, creds := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Signin(ctx, creds[0], creds[1])
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}
