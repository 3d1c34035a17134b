package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// Extensions carries the viewer's allowed extension list; it is authoritative
// for report visibility, so tokens must be reissued when a user's extensions
// change. Admin viewers carry no extension list and see everything.
type Claims struct {
	jwt.RegisteredClaims

	Username   string    `json:"username"`
	Admin      bool      `json:"is_admin"`
	Extensions []string  `json:"extensions,omitempty"`
	TokenType  TokenType `json:"token_type"`
}
