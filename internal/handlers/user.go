// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

// UserHandler serves the admin-side user management endpoints. Profile
// endpoints for the user itself live on AuthHandler.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /api/admin/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), services.UserQuery{
		Params: params,
		Active: queryBool(c, "isActive"),
	})
	if err != nil {
		respondError(c, err, "user")
		return
	}

	result := utils.CreatePaginationResult(users, int64(total), params)
	utils.PaginatedResponse(c, result)
}

// PUT /api/admin/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetUserStatus(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	key := i18n.KeyUserDeactivated
	if user.IsActive {
		key = i18n.KeyUserActivated
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, key),
		"user":    user,
	})
}

// DELETE /api/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyUserDeleted)})
}
