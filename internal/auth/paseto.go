package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// pasetoKeySize is the v4.local symmetric key length
const pasetoKeySize = 32

// PasetoService is the TOKEN_FORMAT=paseto alternative to JWTService.
// Tokens are v4.local, so the claims are encrypted and clients cannot
// read them. The claim set is userId, email and exp, nothing else.
type PasetoService struct {
	key paseto.V4SymmetricKey
	now func() time.Time
}

func NewPasetoService(key []byte) (*PasetoService, error) {
	if len(key) != pasetoKeySize {
		return nil, fmt.Errorf("paseto key must be %d bytes, got %d", pasetoKeySize, len(key))
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("invalid paseto key: %w", err)
	}

	return &PasetoService{key: k, now: time.Now}, nil
}

func (s *PasetoService) CreateToken(userID, email string, validity time.Duration) (string, error) {
	token := paseto.NewToken()
	token.SetString(claimUserID, userID)
	token.SetString(claimEmail, email)
	token.SetExpiration(s.now().Add(validity))

	return token.V4Encrypt(s.key, nil), nil
}

// VerifyToken decrypts tokenStr. The parser's default rule rejects
// tokens past exp or without one; every failure is ErrInvalidToken.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	token, err := paseto.NewParser().ParseV4Local(s.key, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims TokenClaims
	if claims.UserID, err = token.GetString(claimUserID); err != nil || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Email, err = token.GetString(claimEmail); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt, err = token.GetExpiration(); err != nil {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
