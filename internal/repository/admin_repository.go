// internal/repository/admin_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

type AdminRepository struct {
	coll collection[models.Admin]
}

func NewAdminRepository(s store.Store) *AdminRepository {
	return &AdminRepository{coll: collection[models.Admin]{store: s, name: CollectionAdmins}}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin, password string) (*models.Admin, error) {
	admin.Username = strings.TrimSpace(admin.Username)

	if _, err := r.FindByUsername(ctx, admin.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !IsNotFound(err) {
		return nil, err
	}

	if err := admin.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if admin.Role == "" {
		admin.Role = models.AdminRoleAdmin
	}
	admin.ID = ""

	return r.coll.insert(ctx, admin)
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.coll.findByID(ctx, id)
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.coll.findOne(ctx, store.Where(store.Eq("username", strings.TrimSpace(username))))
}

func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	return r.coll.findSorted(ctx, nil, store.FieldCreatedAt, false)
}

func (r *AdminRepository) SetPassword(ctx context.Context, id, password string) error {
	hashed, err := models.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = r.coll.update(ctx, id, store.Document{"password": hashed})
	return err
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.update(ctx, id, store.Document{"lastLogin": at.UTC()})
	return err
}

func (r *AdminRepository) Delete(ctx context.Context, id string) (*models.Admin, error) {
	return r.coll.delete(ctx, id)
}

func (r *AdminRepository) ComparePassword(admin *models.Admin, password string) bool {
	return admin.CheckPassword(password) == nil
}
