// Package identity validates tokens minted by the external identity
// provider. This service never issues tokens; it only reads the user id and
// role claims it needs to scope queries.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"lineage/internal/platform/middleware"
	dErrors "lineage/pkg/domain-errors"
)

// Roles recognized by this service.
const (
	RoleGenealogist = "genealogist"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// Claims represents the JWT claims of an access token.
type Claims struct {
	UserID int64    `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Service validates HS256 tokens from the identity provider.
type Service struct {
	signingKey []byte
}

func NewService(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// ValidateToken parses and validates a token, returning middleware-level
// claims. Satisfies middleware.TokenValidator.
func (s *Service) ValidateToken(tokenString string) (*middleware.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.AuthClaims{UserID: claims.UserID, Roles: claims.Roles}, nil
}
