// internal/services/principal.go
package services

import (
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/utils"
)

const (
	PrincipalAdmin = utils.TokenTypeAdmin
	PrincipalUser  = utils.TokenTypeUser
)

// Principal is the authenticated caller: either *AdminPrincipal or
// *UserPrincipal.
type Principal interface {
	ID() string
	Kind() string
	Role() string
	Username() string
	isPrincipal()
}

type AdminPrincipal struct {
	Admin *models.Admin
}

func (p *AdminPrincipal) ID() string       { return p.Admin.ID }
func (p *AdminPrincipal) Kind() string     { return PrincipalAdmin }
func (p *AdminPrincipal) Role() string     { return p.Admin.Role }
func (p *AdminPrincipal) Username() string { return p.Admin.Username }
func (p *AdminPrincipal) isPrincipal()     {}

type UserPrincipal struct {
	User *models.User
}

func (p *UserPrincipal) ID() string       { return p.User.ID }
func (p *UserPrincipal) Kind() string     { return PrincipalUser }
func (p *UserPrincipal) Role() string     { return p.User.Role }
func (p *UserPrincipal) Username() string { return p.User.Username }
func (p *UserPrincipal) isPrincipal()     {}

// HasRole reports whether p's role is one of roles.
func HasRole(p Principal, roles ...string) bool {
	for _, role := range roles {
		if p.Role() == role {
			return true
		}
	}
	return false
}

// TokenKind maps the optional type claim to a principal kind. Tokens
// without a type predate the claim and were only issued to admins.
func TokenKind(claims *utils.JWTClaims) (string, bool) {
	switch claims.Type {
	case "", utils.TokenTypeAdmin:
		return PrincipalAdmin, true
	case utils.TokenTypeUser:
		return PrincipalUser, true
	}
	return "", false
}
