package usecase

import (
	"tour-checkout/internal/domain/user"
	"tour-checkout/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator checks access tokens issued by the platform's auth service.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

// ValidateToken treats a token without a role claim as a customer token.
func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}
	if claims.Role == "" {
		return claims.UserID, user.RoleCustomer, nil
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, role, nil
}
