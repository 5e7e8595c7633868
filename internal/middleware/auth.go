// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

// Context keys set by the auth middleware.
const (
	ContextPrincipal = "principal"
	ContextAdmin     = "admin"
	ContextUser      = "user"
	ContextUserType  = "user_type"
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextUsername  = "username"
)

type Auth struct {
	auth *services.AuthService
}

func NewAuth(authService *services.AuthService) *Auth {
	return &Auth{auth: authService}
}

// AdminAuth accepts admin tokens only.
func (a *Auth) AdminAuth() gin.HandlerFunc {
	return a.require(services.PrincipalAdmin)
}

// UserAuth accepts active-user tokens only.
func (a *Auth) UserAuth() gin.HandlerFunc {
	return a.require(services.PrincipalUser)
}

// AnyAuth accepts either kind of principal.
func (a *Auth) AnyAuth() gin.HandlerFunc {
	return a.require("")
}

// OptionalUserAuth attaches a user principal when the request carries a
// valid user token and never rejects.
func (a *Auth) OptionalUserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		principal, err := a.auth.Authenticate(c.Request.Context(), token, services.PrincipalUser)
		if err != nil {
			c.Next()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

func (a *Auth) require(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthNoToken))
			c.Abort()
			return
		}

		principal, err := a.auth.Authenticate(c.Request.Context(), token, kind)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrTokenExpired):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			case errors.Is(err, utils.ErrTokenInvalid):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			case errors.Is(err, services.ErrWrongPrincipal) && kind == services.PrincipalAdmin:
				utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAdminOnly))
			case errors.Is(err, services.ErrWrongPrincipal):
				utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthUserOnly))
			case errors.Is(err, services.ErrUserNotFound):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthUserNotFound))
			case errors.Is(err, services.ErrAdminNotFound):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthAdminNotFound))
			case errors.Is(err, services.ErrAccountInactive):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthAccountInactive))
			default:
				logrus.WithError(err).Error("Failed to load principal")
				utils.InternalErrorResponse(c, "")
			}
			c.Abort()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole must run after one of the auth middlewares.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok || !services.HasRole(principal, roles...) {
			utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInsufficientRole))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal attached by the auth middleware.
func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	v, exists := c.Get(ContextPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(services.Principal)
	return p, ok
}

func setPrincipal(c *gin.Context, p services.Principal) {
	c.Set(ContextPrincipal, p)
	c.Set(ContextUserType, p.Kind())
	c.Set(ContextUserID, p.ID())
	c.Set(ContextRole, p.Role())
	c.Set(ContextUsername, p.Username())

	switch v := p.(type) {
	case *services.AdminPrincipal:
		c.Set(ContextAdmin, v.Admin)
	case *services.UserPrincipal:
		c.Set(ContextUser, v.User)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
