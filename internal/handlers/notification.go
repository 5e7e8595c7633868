// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/middleware"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func recipient(c *gin.Context) repository.Recipient {
	principal, _ := middleware.GetPrincipal(c)
	return services.RecipientFor(principal)
}

// GET /api/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	unreadOnly := false
	if v := queryBool(c, "unreadOnly"); v != nil {
		unreadOnly = *v
	}

	list, err := h.notificationService.List(c.Request.Context(), repository.NotificationQuery{
		Recipient:  recipient(c),
		UnreadOnly: unreadOnly,
		Type:       models.NotificationType(c.Query("type")),
		Priority:   models.NotificationPriority(c.Query("priority")),
	})
	if err != nil {
		respondError(c, err, "notification")
		return
	}

	page := utils.Paginate(list.Notifications, params)
	result := utils.CreatePaginationResult(page, int64(len(list.Notifications)), params)
	utils.SetPaginationHeaders(c, result)
	utils.SuccessResponseWithMeta(c, gin.H{
		"notifications": page,
		"unreadCount":   list.UnreadCount,
	}, gin.H{"pagination": result.Meta()})
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), recipient(c))
	if err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{"unreadCount": count})
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	notification, err := h.notificationService.MarkRead(c.Request.Context(), recipient(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyNotificationRead),
		"notification": notification,
	})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), recipient(c))
	if err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationAllRead),
		"updated": updated,
	})
}

// POST /api/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyNotificationCreated),
		"notification": notification,
	})
}

// DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.notificationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyNotificationDeleted)})
}
