package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/klinikvoice/admin-api/internal/model"
)

// JWTService signs and validates session bearer tokens. The token only
// carries the session id; the session row stays authoritative so revocation
// works.
type JWTService interface {
	GenerateSessionToken(session *model.Session) (string, error)
	ValidateSessionToken(token string) (*model.SessionClaims, error)
}

type jwtService struct {
	secret []byte
}

func NewJWTService(secret string) JWTService {
	return &jwtService{secret: []byte(secret)}
}

func (s *jwtService) GenerateSessionToken(session *model.Session) (string, error) {
	claims := &model.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.IdentityID.String(),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		SessionID:  session.ID,
		IdentityID: session.IdentityID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateSessionToken(tokenStr string) (*model.SessionClaims, error) {
	var claims model.SessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims, nil
}
