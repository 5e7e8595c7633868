// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/middleware"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

type AuthHandler struct {
	authService  *services.AuthService
	userService  *services.UserService
	adminService *services.AdminService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, adminService *services.AdminService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		userService:  userService,
		adminService: adminService,
	}
}

func tokenPayload(message string, resp *services.AuthResponse) gin.H {
	payload := gin.H{
		"message":      message,
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
		"tokenType":    resp.TokenType,
		"expiresIn":    resp.ExpiresIn,
	}
	if resp.Admin != nil {
		payload["admin"] = resp.Admin
	}
	if resp.User != nil {
		payload["user"] = resp.User
	}
	return payload
}

// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "admin")
		return
	}

	utils.SuccessResponse(c, tokenPayload(i18n.T(lang, i18n.KeyAuthLoginSuccess), authResponse))
}

// POST /api/admin/refresh
func (h *AuthHandler) AdminRefresh(c *gin.Context) {
	h.refresh(c, services.PrincipalAdmin)
}

// GET /api/admin/verify
func (h *AuthHandler) AdminVerify(c *gin.Context) {
	h.verify(c)
}

// GET /api/admin/profile
func (h *AuthHandler) AdminProfile(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	admin, err := h.adminService.GetAdmin(c.Request.Context(), principal.ID())
	if err != nil {
		respondError(c, err, "admin")
		return
	}

	utils.SuccessResponse(c, gin.H{"admin": admin})
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.CreatedResponse(c, tokenPayload(i18n.T(lang, i18n.KeyAuthRegisterSuccess), authResponse))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, tokenPayload(i18n.T(lang, i18n.KeyAuthLoginSuccess), authResponse))
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	h.refresh(c, services.PrincipalUser)
}

// GET /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	h.verify(c)
}

// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	user, err := h.userService.GetProfile(c.Request.Context(), principal.ID())
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal, _ := middleware.GetPrincipal(c)

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), principal.ID(), &req)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal, _ := middleware.GetPrincipal(c)

	var req services.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), principal.ID(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthWrongPassword), nil)
		return
	}
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAuthPasswordChanged)})
}

func (h *AuthHandler) refresh(c *gin.Context, kind string) {
	lang := utils.GetLangFromContext(c)

	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, kind)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTokenExpired):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
		case errors.Is(err, utils.ErrTokenInvalid):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidRefresh))
		case errors.Is(err, services.ErrUserNotFound):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthUserNotFound))
		case errors.Is(err, services.ErrAdminNotFound):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthAdminNotFound))
		default:
			respondError(c, err, "user")
		}
		return
	}

	utils.SuccessResponse(c, tokenPayload(i18n.T(lang, i18n.KeyAuthTokenRefreshed), authResponse))
}

func (h *AuthHandler) verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal, _ := middleware.GetPrincipal(c)

	payload := gin.H{
		"message": i18n.T(lang, i18n.KeyAuthTokenValid),
		"valid":   true,
		"type":    principal.Kind(),
	}
	switch p := principal.(type) {
	case *services.AdminPrincipal:
		payload["admin"] = p.Admin.Public()
	case *services.UserPrincipal:
		payload["user"] = p.User.Public()
	}

	utils.SuccessResponse(c, payload)
}
