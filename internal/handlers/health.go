// internal/handlers/health.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/ledger"
)

const Version = "1.0.0"

type HealthHandler struct {
	storeDriver string
	outbox      *ledger.Outbox
	started     time.Time
}

func NewHealthHandler(storeDriver string, outbox *ledger.Outbox) *HealthHandler {
	return &HealthHandler{
		storeDriver: storeDriver,
		outbox:      outbox,
		started:     time.Now(),
	}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"version":       Version,
		"store":         h.storeDriver,
		"ledgerEnabled": h.outbox.Enabled(),
		"uptime":        time.Since(h.started).Round(time.Second).String(),
	})
}
