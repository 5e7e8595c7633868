// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/utils"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrWrongPrincipal = errors.New("token is for another kind of principal")
)

type AuthService struct {
	users  *repository.UserRepository
	admins *repository.AdminRepository
	tokens *utils.TokenManager
	mail   *MailService
	now    func() time.Time
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest accepts either email or username.
type LoginRequest struct {
	Email    string `json:"email" validate:"required_without=Username"`
	Username string `json:"username" validate:"required_without=Email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	Admin        *models.Admin `json:"admin,omitempty"`
	User         *models.User  `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	ExpiresIn    int           `json:"expiresIn"` // in seconds
}

func NewAuthService(users *repository.UserRepository, admins *repository.AdminRepository, tokens *utils.TokenManager, mail *MailService) *AuthService {
	return &AuthService{
		users:  users,
		admins: admins,
		tokens: tokens,
		mail:   mail,
		now:    time.Now,
	}
}

// Authenticate verifies an access token and loads the principal it names.
// kind restricts the accepted principal; empty accepts either.
func (s *AuthService) Authenticate(ctx context.Context, token, kind string) (Principal, error) {
	claims, err := s.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}
	tokenKind, ok := TokenKind(claims)
	if !ok {
		return nil, utils.ErrTokenInvalid
	}
	if kind != "" && tokenKind != kind {
		return nil, ErrWrongPrincipal
	}
	return s.LoadPrincipal(ctx, claims)
}

// VerifyAccessToken checks signature and expiry only.
func (s *AuthService) VerifyAccessToken(token string) (*utils.JWTClaims, error) {
	return s.tokens.ValidateAccessToken(token)
}

// LoadPrincipal resolves verified claims to the identity they name.
func (s *AuthService) LoadPrincipal(ctx context.Context, claims *utils.JWTClaims) (Principal, error) {
	kind, ok := TokenKind(claims)
	if !ok {
		return nil, utils.ErrTokenInvalid
	}

	if kind == PrincipalUser {
		user, err := s.users.FindByID(ctx, claims.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
		return &UserPrincipal{User: user}, nil
	}

	admin, err := s.admins.FindByID(ctx, claims.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &AdminPrincipal{Admin: admin}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, req *AdminLoginRequest) (*AuthResponse, error) {
	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Verify password
	if !s.admins.ComparePassword(admin, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.admins.TouchLastLogin(ctx, admin.ID, s.now()); err != nil {
		logrus.WithError(err).WithField("admin_id", admin.ID).Warn("Failed to record admin login")
	}

	return s.adminTokens(admin)
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user, err := s.users.Create(ctx, &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || errors.Is(err, repository.ErrUsernameTaken) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Send welcome email (async)
	if s.mail != nil {
		go func(u models.User) {
			if err := s.mail.SendWelcome(context.Background(), &u); err != nil {
				logrus.WithError(err).WithField("user_id", u.ID).Warn("Failed to send welcome email")
			}
		}(*user)
	}

	return s.userTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByLogin(ctx, req.login())
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Verify password
	if !s.users.ComparePassword(user, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record user login")
	} else {
		user.LastLogin = &now
	}

	return s.userTokens(user)
}

// Refresh re-verifies a refresh token of the given kind, reloads the
// identity and issues a new token pair. Refresh tokens are not tracked, so
// they stay valid until they expire.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, kind string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	tokenKind, ok := TokenKind(claims)
	if !ok || tokenKind != kind {
		return nil, utils.ErrTokenInvalid
	}

	principal, err := s.LoadPrincipal(ctx, claims)
	if err != nil {
		return nil, err
	}

	switch p := principal.(type) {
	case *AdminPrincipal:
		return s.adminTokens(p.Admin)
	case *UserPrincipal:
		return s.userTokens(p.User)
	}
	return nil, utils.ErrTokenInvalid
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}

	if !s.users.ComparePassword(user, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	if err := s.users.SetPassword(ctx, userID, req.NewPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) adminTokens(admin *models.Admin) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(admin.ID, admin.Username, admin.Role, utils.TokenTypeAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(admin.ID, admin.Username, admin.Role, utils.TokenTypeAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	public := admin.Public()
	return &AuthResponse{
		Admin:        &public,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) userTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role, utils.TokenTypeUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Username, user.Role, utils.TokenTypeUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	public := user.Public()
	return &AuthResponse{
		User:         &public,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}
