// internal/models/user.go
package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type NotificationPreferences struct {
	Email      bool `json:"email"`
	Orders     bool `json:"orders"`
	Promotions bool `json:"promotions"`
}

type UserPreferences struct {
	FavoriteGenres []string                `json:"favoriteGenres"`
	Notifications  NotificationPreferences `json:"notifications"`
}

// User is a customer account. Password holds the bcrypt hash; strip it with
// Public before writing the user to a response.
type User struct {
	BaseModel
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Password    string          `json:"password,omitempty"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Role        string          `json:"role"`
	IsActive    bool            `json:"isActive"`
	Preferences UserPreferences `json:"preferences"`
	Address     Address         `json:"address"`
	Phone       string          `json:"phone,omitempty"`
	DateOfBirth *time.Time      `json:"dateOfBirth,omitempty"`
	LastLogin   *time.Time      `json:"lastLogin,omitempty"`
}

func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		FavoriteGenres: []string{},
		Notifications: NotificationPreferences{
			Email:      true,
			Orders:     true,
			Promotions: false,
		},
	}
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u User) Public() User {
	u.Password = ""
	return u
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}
