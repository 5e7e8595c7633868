// internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/utils"
)

// Recovery turns panics into a 500 envelope. The panic value is only
// exposed outside production.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(ContextRequestID),
			"panic":      recovered,
		}).Error("Recovered from panic")

		var details interface{}
		if !production {
			details = fmt.Sprint(recovered)
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR",
			i18n.T(utils.GetLangFromContext(c), i18n.KeyInternalError), details)
		c.Abort()
	})
}
