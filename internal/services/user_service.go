// internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

var userSortFields = []string{"createdAt", "updatedAt", "username", "email", "lastLogin"}

type UserService struct {
	users *repository.UserRepository
}

type UpdateProfileRequest struct {
	Username    *string                 `json:"username" validate:"omitempty,username"`
	Email       *string                 `json:"email" validate:"omitempty,email"`
	FirstName   *string                 `json:"firstName" validate:"omitempty,max=50"`
	LastName    *string                 `json:"lastName" validate:"omitempty,max=50"`
	Phone       *string                 `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth *time.Time              `json:"dateOfBirth"`
	Address     *models.Address         `json:"address"`
	Preferences *models.UserPreferences `json:"preferences"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UserQuery struct {
	Params utils.PaginationParams
	Active *bool
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	patch := store.Document{}

	// Check username uniqueness if updating
	if req.Username != nil && strings.TrimSpace(*req.Username) != user.Username {
		username := strings.TrimSpace(*req.Username)
		if _, err := s.users.FindByUsername(ctx, username); err == nil {
			return nil, fmt.Errorf("%w: %w", ErrConflict, repository.ErrUsernameTaken)
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
		patch["username"] = username
	}

	if req.Email != nil && repository.NormalizeEmail(*req.Email) != user.Email {
		if _, err := s.users.FindByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("%w: %w", ErrConflict, repository.ErrEmailTaken)
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
		patch["email"] = *req.Email
	}

	if req.FirstName != nil {
		patch["firstName"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		patch["lastName"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		patch["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.DateOfBirth != nil {
		patch["dateOfBirth"] = req.DateOfBirth.UTC()
	}
	if req.Address != nil {
		patch["address"] = *req.Address
	}
	if req.Preferences != nil {
		prefs := *req.Preferences
		if prefs.FavoriteGenres == nil {
			prefs.FavoriteGenres = []string{}
		}
		patch["preferences"] = prefs
	}

	if len(patch) == 0 {
		public := user.Public()
		return &public, nil
	}

	updated, err := s.users.Update(ctx, userID, patch)
	if err != nil {
		return nil, notFound(err, "user")
	}
	public := updated.Public()
	return &public, nil
}

// ListUsers returns one page of users without password hashes and the
// total number of matches.
func (s *UserService) ListUsers(ctx context.Context, q UserQuery) ([]models.User, int, error) {
	filter := store.Filter{}
	if q.Active != nil {
		filter = filter.And(store.Eq("isActive", *q.Active))
	}
	if term := strings.TrimSpace(q.Params.Search); term != "" {
		filter = filter.And(store.Contains(term, userSearchFields...))
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.User, 0, len(users))
	for _, u := range users {
		matched = append(matched, u.Public())
	}

	sortUsers(matched, q.Params.SortField(userSortFields), q.Params.Desc())
	return utils.Paginate(matched, q.Params), len(matched), nil
}

var userSearchFields = []string{"username", "email", "firstName", "lastName", "phone"}

func sortUsers(users []models.User, field string, desc bool) {
	docs := make([]store.Document, len(users))
	for i := range users {
		doc, err := store.ToDocument(&users[i])
		if err != nil {
			return
		}
		docs[i] = doc
	}
	store.SortDocuments(docs, field, desc)
	sorted, err := store.DecodeAll[models.User](docs)
	if err != nil {
		return
	}
	copy(users, sorted)
}

func (s *UserService) SetUserStatus(ctx context.Context, id string, active bool) (*models.User, error) {
	user, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		return nil, notFound(err, "user")
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, "user")
	}
	return nil
}

func (s *UserService) CountUsers(ctx context.Context) (total, active int, err error) {
	if total, err = s.users.Count(ctx, nil); err != nil {
		return 0, 0, err
	}
	if active, err = s.users.Count(ctx, store.Where(store.Eq("isActive", true))); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
