package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := i18n.Initialize(); err != nil {
		panic(err)
	}
}

func TestI18nMiddlewarePicksLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"bn-BD,bn;q=0.9,en;q=0.8", "bn"},
		{"bn", "bn"},
		{"en-GB", "en"},
		{"fr-FR", "en"},
		{"fr-FR,bn;q=0.8", "bn"},
		{"bn_BD", "bn"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := gin.New()
			r.Use(I18nMiddleware("en"))
			var got string
			r.GET("/", func(c *gin.Context) {
				got = utils.GetLangFromContext(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireRole(t *testing.T) {
	editor := &services.AdminPrincipal{Admin: &models.Admin{Username: "ed", Role: models.AdminRoleEditor}}
	owner := &services.AdminPrincipal{Admin: &models.Admin{Username: "own", Role: models.AdminRoleSuperAdmin}}

	tests := []struct {
		name      string
		principal services.Principal
		want      int
	}{
		{"no principal", nil, http.StatusForbidden},
		{"role not listed", editor, http.StatusForbidden},
		{"role listed", owner, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.principal != nil {
					setPrincipal(c, tt.principal)
				}
				c.Next()
			})
			r.GET("/", RequireRole(models.AdminRoleAdmin, models.AdminRoleSuperAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
