// internal/tests/admin_test.go
package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
)

func (s *APITestSuite) TestDashboard() {
	token := s.adminToken()
	s.createProduct(token, manga("Alpha", 2))
	s.registerUser("buyer", "buyer@example.com")
	code, _ := s.do(http.MethodPost, "/api/orders", guestOrder(), "")
	s.Require().Equal(http.StatusCreated, code)

	code, resp := s.do(http.MethodGet, "/api/admin/dashboard", nil, token)
	s.Require().Equal(http.StatusOK, code)

	dashboard := resp.Data["dashboard"].(map[string]interface{})
	assert.Equal(s.T(), float64(1), dashboard["totalUsers"])
	assert.Equal(s.T(), float64(1), dashboard["activeUsers"])
	assert.Len(s.T(), dashboard["recentOrders"], 1)
	assert.NotContains(s.T(), dashboard, "ledger")
}

func (s *APITestSuite) TestAdminUserManagement() {
	token := s.adminToken()
	_, alice := s.registerUser("alice", "alice@example.com")
	s.registerUser("bob", "bob@example.com")

	code, resp := s.do(http.MethodGet, "/api/admin/users?search=ali", nil, token)
	s.Require().Equal(http.StatusOK, code)
	s.Require().Len(resp.List, 1)
	assert.NotContains(s.T(), resp.List[0], "password")

	code, _ = s.do(http.MethodPut, "/api/admin/users/"+alice["_id"].(string)+"/status", map[string]bool{"isActive": false}, token)
	s.Require().Equal(http.StatusOK, code)

	code, resp = s.do(http.MethodGet, "/api/admin/users?isActive=true", nil, token)
	s.Require().Equal(http.StatusOK, code)
	assert.Len(s.T(), resp.List, 1)

	code, _ = s.do(http.MethodDelete, "/api/admin/users/"+alice["_id"].(string), nil, token)
	assert.Equal(s.T(), http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/admin/users/"+alice["_id"].(string), nil, token)
	assert.Equal(s.T(), http.StatusNotFound, code)
}

func (s *APITestSuite) TestEditorCannotDeleteUsers() {
	_, err := repository.NewAdminRepository(s.store).Create(context.Background(),
		&models.Admin{Username: "editor", Role: models.AdminRoleEditor}, "editor-pass")
	s.Require().NoError(err)

	code, resp := s.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "editor", "password": "editor-pass"}, "")
	s.Require().Equal(http.StatusOK, code)
	editorToken := resp.Data["accessToken"].(string)

	_, user := s.registerUser("buyer", "buyer@example.com")
	code, _ = s.do(http.MethodDelete, "/api/admin/users/"+user["_id"].(string), nil, editorToken)
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/admin/audit-logs", nil, editorToken)
	assert.Equal(s.T(), http.StatusForbidden, code)
}

func (s *APITestSuite) TestLedgerEndpointsWhenDisabled() {
	token := s.adminToken()

	code, resp := s.do(http.MethodGet, "/api/admin/ledger", nil, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)
	assert.Equal(s.T(), "Order ledger sync is not configured", resp.Error.Message)

	code, _ = s.do(http.MethodPost, "/api/admin/ledger/some-id/retry", nil, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)
}

func (s *APITestSuite) TestAuditLogsRecordMutations() {
	token := s.adminToken()
	s.createProduct(token, manga("Alpha", 2))

	assert.Eventually(s.T(), func() bool {
		code, resp := s.do(http.MethodGet, "/api/admin/audit-logs?resourceType=products", nil, token)
		if code != http.StatusOK || len(resp.List) == 0 {
			return false
		}
		entry := resp.List[0].(map[string]interface{})
		return entry["action"] == "POST /api/products" && entry["principalType"] == "admin" &&
			entry["status"] == float64(http.StatusCreated)
	}, 2*time.Second, 20*time.Millisecond)
}

func (s *APITestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(s.T(), "healthy", body["status"])
	assert.Equal(s.T(), "file", body["store"])
	assert.Equal(s.T(), false, body["ledgerEnabled"])
}
