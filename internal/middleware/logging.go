// internal/middleware/logging.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/utils"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString(ContextRequestID),
		}
		if userID, ok := utils.GetUserIDFromContext(c); ok {
			userType, _ := utils.GetUserTypeFromContext(c)
			fields["user_id"] = userID
			fields["user_type"] = userType
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware records mutating requests made by authenticated
// principals. Entries are written asynchronously.
func AuditLogMiddleware(auditLogs *repository.AuditLogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for reads and health checks
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		principal, ok := GetPrincipal(c)
		if !ok {
			return
		}

		entry := &models.AuditLog{
			PrincipalID:   principal.ID(),
			PrincipalType: principal.Kind(),
			Action:        c.Request.Method + " " + c.FullPath(),
			ResourceType:  extractResourceType(c.Request.URL.Path),
			ResourceID:    c.Param("id"),
			Status:        c.Writer.Status(),
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			RequestID:     c.GetString(ContextRequestID),
			DurationMs:    time.Since(start).Milliseconds(),
		}

		// Save audit log asynchronously
		go func() {
			if err := auditLogs.Create(context.Background(), entry); err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

// extractResourceType maps /api/<resource>/... to <resource>.
func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}
