// internal/config/database.go
package config

import (
	"strings"
)

// DSN returns the connection string for the configured SQL dialect. Empty
// postgres settings are left out so libpq defaults apply.
func (d *DatabaseConfig) DSN() string {
	if d.Dialect == "sqlite" {
		if d.SQLitePath == "" {
			return "file::memory:?cache=shared"
		}
		return d.SQLitePath
	}

	pairs := [][2]string{
		{"host", d.Host},
		{"port", d.Port},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.Database},
		{"sslmode", d.SSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, " ")
}
