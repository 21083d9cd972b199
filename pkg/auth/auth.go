package auth

import (
	"context"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v4"
)

const (
	AuthorizationHeader = "Authorization"
	Bearer              = "Bearer "
)

type Config struct {
	Secret string `yaml:"secret" envconfig:"JWT_SECRET"`
}

type Role string

const (
	RoleClient       Role = "CLIENT"
	RoleManager      Role = "MANAGER"
	RoleReceptionist Role = "RECEPTIONIST"
)

// Identity is the decoded caller attached to each authenticated request.
type Identity struct {
	ID    int
	Email string
	Roles []Role
}

func (id Identity) HasRole(role Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Claims struct {
	jwt.RegisteredClaims
	UserID int      `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

func (c *Claims) Identity() Identity {
	roles := make([]Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		roles = append(roles, Role(strings.ToUpper(r)))
	}
	return Identity{
		ID:    c.UserID,
		Email: c.Email,
		Roles: roles,
	}
}

// ParseToken verifies an HS256 bearer token and returns its claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

type ctxKey int

const identityKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
