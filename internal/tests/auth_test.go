// internal/tests/auth_test.go
package tests

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/otakughor/backend/internal/utils"
)

func (s *APITestSuite) TestUserRegistration() {
	code, resp := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "testuser",
		"email":     "Test@Example.com",
		"password":  "secret123",
		"firstName": "Test",
	}, "")

	assert.Equal(s.T(), http.StatusCreated, code)
	assert.True(s.T(), resp.Success)
	assert.NotEmpty(s.T(), resp.Data["accessToken"])
	assert.NotEmpty(s.T(), resp.Data["refreshToken"])

	user := resp.Data["user"].(map[string]interface{})
	assert.Equal(s.T(), "test@example.com", user["email"])
	assert.NotContains(s.T(), user, "password")
}

func (s *APITestSuite) TestDuplicateRegistrationConflicts() {
	s.registerUser("testuser", "test@example.com")

	code, resp := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "another",
		"email":    "TEST@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(s.T(), http.StatusConflict, code)
	assert.False(s.T(), resp.Success)

	code, _ = s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "testuser",
		"email":    "other@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(s.T(), http.StatusConflict, code)
}

func (s *APITestSuite) TestRegistrationValidation() {
	code, resp := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "x!",
		"email":    "not-an-email",
		"password": "123",
	}, "")
	assert.Equal(s.T(), http.StatusBadRequest, code)
	assert.False(s.T(), resp.Success)
	assert.NotNil(s.T(), resp.Error)
}

func (s *APITestSuite) TestUserLogin() {
	s.registerUser("testuser", "test@example.com")

	code, resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(s.T(), http.StatusOK, code)
	assert.True(s.T(), resp.Success)

	code, resp = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "testuser",
		"password": "wrong-password",
	}, "")
	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.Nil(s.T(), resp.Data)
}

func (s *APITestSuite) TestAdminLoginWrongPassword() {
	code, resp := s.do(http.MethodPost, "/api/admin/login", map[string]string{
		"username": testAdminUsername,
		"password": "not-the-password",
	}, "")

	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.False(s.T(), resp.Success)
	assert.Nil(s.T(), resp.Data)
	assert.Equal(s.T(), "Invalid credentials", resp.Error.Message)
}

func (s *APITestSuite) TestAdminVerifyAndProfile() {
	token := s.adminToken()

	code, resp := s.do(http.MethodGet, "/api/admin/verify", nil, token)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Equal(s.T(), "admin", resp.Data["type"])

	code, resp = s.do(http.MethodGet, "/api/admin/profile", nil, token)
	assert.Equal(s.T(), http.StatusOK, code)
	admin := resp.Data["admin"].(map[string]interface{})
	assert.Equal(s.T(), testAdminUsername, admin["username"])
	assert.NotContains(s.T(), admin, "password")
}

func (s *APITestSuite) TestTokenKindsAreNotInterchangeable() {
	adminToken := s.adminToken()
	userToken, _ := s.registerUser("testuser", "test@example.com")

	code, _ := s.do(http.MethodGet, "/api/admin/dashboard", nil, userToken)
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/auth/profile", nil, adminToken)
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/notifications", nil, userToken)
	assert.Equal(s.T(), http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/notifications", nil, adminToken)
	assert.Equal(s.T(), http.StatusOK, code)
}

func (s *APITestSuite) TestMissingTokenIsRejected() {
	code, resp := s.do(http.MethodGet, "/api/admin/dashboard", nil, "")
	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.Equal(s.T(), "No token provided", resp.Error.Message)

	code, resp = s.do(http.MethodGet, "/api/auth/profile", nil, "not.a.jwt")
	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.Equal(s.T(), "Invalid token", resp.Error.Message)
}

func (s *APITestSuite) TestExpiredTokensAreRejectedOnEveryVariant() {
	_, user := s.registerUser("testuser", "test@example.com")

	expiredCfg := s.cfg.JWT
	expiredCfg.AccessTokenTTL = -time.Minute
	tokens := utils.NewTokenManager(expiredCfg)

	userToken, err := tokens.GenerateAccessToken(user["_id"].(string), "testuser", "user", utils.TokenTypeUser)
	s.Require().NoError(err)
	adminToken, err := tokens.GenerateAccessToken("any-admin", testAdminUsername, "superadmin", utils.TokenTypeAdmin)
	s.Require().NoError(err)

	cases := []struct {
		name  string
		path  string
		token string
	}{
		{"admin", "/api/admin/profile", adminToken},
		{"user", "/api/auth/profile", userToken},
		{"any", "/api/notifications", userToken},
	}
	for _, tc := range cases {
		code, resp := s.do(http.MethodGet, tc.path, nil, tc.token)
		assert.Equal(s.T(), http.StatusUnauthorized, code, tc.name)
		assert.Equal(s.T(), "Token expired", resp.Error.Message, tc.name)
	}
}

func (s *APITestSuite) TestRefreshIssuesNewTokens() {
	code, resp := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "secret123",
	}, "")
	s.Require().Equal(http.StatusCreated, code)
	refresh := resp.Data["refreshToken"].(string)

	code, resp = s.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, "")
	assert.Equal(s.T(), http.StatusOK, code)
	assert.NotEmpty(s.T(), resp.Data["accessToken"])

	// A user refresh token cannot mint admin tokens.
	code, _ = s.do(http.MethodPost, "/api/admin/refresh", map[string]string{"refreshToken": refresh}, "")
	assert.Equal(s.T(), http.StatusUnauthorized, code)
}

func (s *APITestSuite) TestDeactivatedUserIsRejected() {
	adminToken := s.adminToken()
	userToken, user := s.registerUser("testuser", "test@example.com")

	code, _ := s.do(http.MethodPut, "/api/admin/users/"+user["_id"].(string)+"/status",
		map[string]bool{"isActive": false}, adminToken)
	s.Require().Equal(http.StatusOK, code)

	code, resp := s.do(http.MethodGet, "/api/auth/profile", nil, userToken)
	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.Equal(s.T(), "Account is deactivated", resp.Error.Message)
}

func (s *APITestSuite) TestChangePassword() {
	token, _ := s.registerUser("testuser", "test@example.com")

	code, _ := s.do(http.MethodPut, "/api/auth/change-password", map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "newsecret",
	}, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPut, "/api/auth/change-password", map[string]string{
		"currentPassword": "secret123",
		"newPassword":     "newsecret",
	}, token)
	assert.Equal(s.T(), http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "newsecret",
	}, "")
	assert.Equal(s.T(), http.StatusOK, code)
}
