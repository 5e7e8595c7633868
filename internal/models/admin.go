// internal/models/admin.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin accounts are only created from the admin CLI.
type Admin struct {
	BaseModel
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (a *Admin) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	a.Password = hashedPassword
	return nil
}

func (a *Admin) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
}

func (a Admin) Public() Admin {
	a.Password = ""
	return a
}

// AuditLog records one mutating request made by an authenticated principal.
type AuditLog struct {
	BaseModel
	PrincipalID   string `json:"principalId,omitempty"`
	PrincipalType string `json:"principalType,omitempty"`
	Action        string `json:"action"`
	ResourceType  string `json:"resourceType"`
	ResourceID    string `json:"resourceId,omitempty"`
	Status        int    `json:"status"`
	IPAddress     string `json:"ipAddress"`
	UserAgent     string `json:"userAgent"`
	RequestID     string `json:"requestId,omitempty"`
	DurationMs    int64  `json:"durationMs"`
}
