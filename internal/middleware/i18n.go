// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
)

// I18nMiddleware stores the response language under "lang": the first
// Accept-Language entry whose primary tag has a locale, or defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}

	return func(c *gin.Context) {
		c.Set("lang", negotiate(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// negotiate handles headers like "bn-BD,bn;q=0.9,en;q=0.8". Entries are
// taken in header order; q values are ignored.
func negotiate(header, defaultLang string) string {
	for _, entry := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(entry), ";")
		primary, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
		primary = strings.ToLower(primary)
		if primary != "" && i18n.Supports(primary) {
			return primary
		}
	}
	return defaultLang
}
