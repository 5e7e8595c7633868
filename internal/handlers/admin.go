// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/ledger"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /api/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	summary, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "admin")
		return
	}

	utils.SuccessResponse(c, gin.H{"dashboard": summary})
}

// GET /api/admin/ledger
func (h *AdminHandler) GetLedgerEntries(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entries, err := h.adminService.LedgerEntries(c.Request.Context(), c.Query("status"))
	if errors.Is(err, services.ErrLedgerDisabled) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyLedgerDisabled), nil)
		return
	}
	if err != nil {
		respondError(c, err, "ledger")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// POST /api/admin/ledger/:id/retry
func (h *AdminHandler) RetryLedgerEntry(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entry, err := h.adminService.RetryLedgerEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLedgerDisabled):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyLedgerDisabled), nil)
		case errors.Is(err, ledger.ErrNotFailed):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyLedgerNotFailed))
		default:
			respondError(c, err, "ledger")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLedgerRequeued),
		"entry":   entry,
	})
}

// GET /api/admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.adminService.AuditLogs(c.Request.Context(), services.AuditLogQuery{
		Params:        params,
		PrincipalID:   c.Query("principalId"),
		PrincipalType: c.Query("principalType"),
		ResourceType:  c.Query("resourceType"),
	})
	if err != nil {
		respondError(c, err, "admin")
		return
	}

	result := utils.CreatePaginationResult(entries, int64(total), params)
	utils.PaginatedResponse(c, result)
}
