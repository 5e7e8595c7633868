// internal/repository/user_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

type UserRepository struct {
	coll collection[models.User]
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{coll: collection[models.User]{store: s, name: CollectionUsers}}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new active customer. Uniqueness of e-mail and username is
// checked before insert; there is no store-level constraint.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	user.Username = strings.TrimSpace(user.Username)

	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !IsNotFound(err) {
		return nil, err
	}
	if _, err := r.FindByUsername(ctx, user.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !IsNotFound(err) {
		return nil, err
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	if user.Preferences.FavoriteGenres == nil {
		user.Preferences = models.DefaultUserPreferences()
	}
	user.IsActive = true
	user.ID = ""

	return r.coll.insert(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.coll.findByID(ctx, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.coll.findOne(ctx, store.Where(store.Eq("email", NormalizeEmail(email))))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.coll.findOne(ctx, store.Where(store.Eq("username", username)))
}

// FindByLogin accepts either an e-mail address or a username.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		return r.FindByEmail(ctx, login)
	}
	return r.FindByUsername(ctx, login)
}

// List returns matching users, newest first.
func (r *UserRepository) List(ctx context.Context, filter store.Filter) ([]models.User, error) {
	return r.coll.findSorted(ctx, filter, store.FieldCreatedAt, true)
}

func (r *UserRepository) Count(ctx context.Context, filter store.Filter) (int, error) {
	return r.coll.count(ctx, filter)
}

// Update shallow-merges patch. A plain-text "password" key is hashed and an
// "email" key is normalized before writing.
func (r *UserRepository) Update(ctx context.Context, id string, patch store.Document) (*models.User, error) {
	patch = patch.Clone()
	if password, ok := patch["password"].(string); ok {
		hashed, err := models.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch["password"] = hashed
	}
	if email, ok := patch["email"].(string); ok {
		patch["email"] = NormalizeEmail(email)
	}
	return r.coll.update(ctx, id, patch)
}

func (r *UserRepository) SetPassword(ctx context.Context, id, password string) error {
	_, err := r.Update(ctx, id, store.Document{"password": password})
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	return r.coll.update(ctx, id, store.Document{"isActive": active})
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.update(ctx, id, store.Document{"lastLogin": at.UTC()})
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	return r.coll.delete(ctx, id)
}

func (r *UserRepository) ComparePassword(user *models.User, password string) bool {
	return user.CheckPassword(password) == nil
}
