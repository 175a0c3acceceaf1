package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redmonkez12/visionise-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// DefaultTokenValidity is how long a signin token stays valid
const DefaultTokenValidity = 12 * time.Hour

// SignupInput carries the signup form
type SignupInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Profession string
	BirthDate  string
}

// Service handles signup and signin
type Service struct {
	users         user.Repository
	tokens        TokenService
	hasher        *PasswordHasher
	tokenValidity time.Duration
}

func NewService(users user.Repository, tokens TokenService, hasher *PasswordHasher, tokenValidity time.Duration) *Service {
	if tokenValidity <= 0 {
		tokenValidity = DefaultTokenValidity
	}
	return &Service{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		tokenValidity: tokenValidity,
	}
}

// Signup creates a user. A taken email surfaces as user.ErrDuplicateEmail
// from the store's unique constraint.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*user.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &user.User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Profession:   in.Profession,
		BirthDate:    in.BirthDate,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// Signin checks credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Signin(ctx context.Context, email, password string) (string, *user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existing.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, existing.Email, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, existing, nil
}
