// internal/handlers/errors.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

// respondError maps service errors onto the response envelope. resource
// names the i18n "<resource>.not_found" key.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	if details, ok := services.ValidationDetails(err); ok {
		utils.ValidationErrorResponse(c, details)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, repository.ErrEmailTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthEmailTaken))
	case errors.Is(err, repository.ErrUsernameTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUsernameTaken))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrAccountInactive):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthAccountInactive))
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON binds and validates a request body, writing the 400 response
// itself when either step fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func queryFloat(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
