// internal/tests/notification_test.go
package tests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

func (s *APITestSuite) TestNotificationLifecycle() {
	adminToken := s.adminToken()
	userToken, user := s.registerUser("buyer", "buyer@example.com")
	userID := user["_id"].(string)

	code, resp := s.do(http.MethodPost, "/api/notifications", map[string]interface{}{
		"title":    "Eid sale",
		"message":  "Everything 10% off",
		"type":     "system",
		"priority": "medium",
	}, adminToken)
	s.Require().Equal(http.StatusCreated, code)
	broadcastID := resp.Data["notification"].(map[string]interface{})["_id"].(string)

	code, resp = s.do(http.MethodPost, "/api/notifications", map[string]interface{}{
		"title":   "Your parcel",
		"message": "Out for delivery",
		"userId":  userID,
	}, adminToken)
	s.Require().Equal(http.StatusCreated, code)
	targetedID := resp.Data["notification"].(map[string]interface{})["_id"].(string)

	// Users cannot create notifications.
	code, _ = s.do(http.MethodPost, "/api/notifications", map[string]interface{}{"title": "x", "message": "y"}, userToken)
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, userToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(2), resp.Data["unreadCount"])

	code, _ = s.do(http.MethodPut, "/api/notifications/"+targetedID+"/read", nil, userToken)
	s.Require().Equal(http.StatusOK, code)

	code, resp = s.do(http.MethodGet, "/api/notifications?unreadOnly=true", nil, userToken)
	s.Require().Equal(http.StatusOK, code)
	unread := resp.Data["notifications"].([]interface{})
	s.Require().Len(unread, 1)
	assert.Equal(s.T(), broadcastID, unread[0].(map[string]interface{})["_id"])

	code, resp = s.do(http.MethodPut, "/api/notifications/read-all", nil, userToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Data["updated"])

	code, _ = s.do(http.MethodDelete, "/api/notifications/"+broadcastID, nil, userToken)
	assert.Equal(s.T(), http.StatusForbidden, code)
	code, _ = s.do(http.MethodDelete, "/api/notifications/"+broadcastID, nil, adminToken)
	assert.Equal(s.T(), http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/notifications/"+broadcastID, nil, adminToken)
	assert.Equal(s.T(), http.StatusNotFound, code)
}

func (s *APITestSuite) TestUsersCannotReadOthersNotifications() {
	adminToken := s.adminToken()
	_, alice := s.registerUser("alice", "alice@example.com")
	bobToken, _ := s.registerUser("bob", "bob@example.com")

	code, resp := s.do(http.MethodPost, "/api/notifications", map[string]interface{}{
		"title":   "Private",
		"message": "Only for Alice",
		"userId":  alice["_id"],
	}, adminToken)
	s.Require().Equal(http.StatusCreated, code)
	id := resp.Data["notification"].(map[string]interface{})["_id"].(string)

	code, _ = s.do(http.MethodPut, "/api/notifications/"+id+"/read", nil, bobToken)
	assert.Equal(s.T(), http.StatusNotFound, code)

	code, resp = s.do(http.MethodGet, "/api/notifications", nil, bobToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Empty(s.T(), resp.Data["notifications"])
}

func (s *APITestSuite) TestCustomersDoNotSeeStaffAlerts() {
	adminToken := s.adminToken()
	product := s.createProduct(adminToken, manga("Chainsaw Man Vol. 1", 3))
	code, _ := s.do(http.MethodPatch, "/api/products/"+product["_id"].(string)+"/stock",
		map[string]interface{}{"stock": 0}, adminToken)
	s.Require().Equal(http.StatusOK, code)

	code, resp := s.do(http.MethodPost, "/api/orders", guestOrder(), "")
	s.Require().Equal(http.StatusCreated, code)
	trackingNumber := resp.Data["trackingNumber"].(string)

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, adminToken)
	s.Require().Equal(http.StatusOK, code)
	adminUnread := resp.Data["unreadCount"]
	assert.Equal(s.T(), float64(3), adminUnread)

	code, resp = s.do(http.MethodGet, "/api/notifications?type=order", nil, adminToken)
	s.Require().Equal(http.StatusOK, code)
	orderAlerts := resp.Data["notifications"].([]interface{})
	s.Require().Len(orderAlerts, 1)
	alert := orderAlerts[0].(map[string]interface{})
	assert.Equal(s.T(), "admins", alert["audience"])
	alertID := alert["_id"].(string)

	strangerToken, _ := s.registerUser("stranger", "stranger@example.com")

	code, resp = s.do(http.MethodGet, "/api/notifications", nil, strangerToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Empty(s.T(), resp.Data["notifications"])
	assert.Equal(s.T(), float64(0), resp.Data["unreadCount"])
	assert.NotContains(s.T(), string(resp.RawData), trackingNumber)

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, strangerToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(0), resp.Data["unreadCount"])

	code, _ = s.do(http.MethodPut, "/api/notifications/"+alertID+"/read", nil, strangerToken)
	assert.Equal(s.T(), http.StatusNotFound, code)

	code, resp = s.do(http.MethodPut, "/api/notifications/read-all", nil, strangerToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(0), resp.Data["updated"])

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, adminToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), adminUnread, resp.Data["unreadCount"])
}

func (s *APITestSuite) TestBroadcastReadStateIsPerUser() {
	adminToken := s.adminToken()
	aliceToken, _ := s.registerUser("alice", "alice@example.com")
	bobToken, _ := s.registerUser("bob", "bob@example.com")

	code, resp := s.do(http.MethodPost, "/api/notifications", map[string]interface{}{
		"title":   "New arrivals",
		"message": "Jujutsu Kaisen box set is in",
	}, adminToken)
	s.Require().Equal(http.StatusCreated, code)
	id := resp.Data["notification"].(map[string]interface{})["_id"].(string)

	code, resp = s.do(http.MethodPut, "/api/notifications/"+id+"/read", nil, aliceToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), true, resp.Data["notification"].(map[string]interface{})["isRead"])

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, aliceToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(0), resp.Data["unreadCount"])

	code, resp = s.do(http.MethodGet, "/api/notifications?unreadOnly=true", nil, bobToken)
	s.Require().Equal(http.StatusOK, code)
	unread := resp.Data["notifications"].([]interface{})
	s.Require().Len(unread, 1)
	assert.NotContains(s.T(), unread[0].(map[string]interface{}), "readBy")

	// Staff-only notices stay out of customer feeds.
	code, _ = s.do(http.MethodPost, "/api/notifications", map[string]interface{}{
		"title":    "Courier strike",
		"message":  "Hold dispatch until Monday",
		"audience": "admins",
	}, adminToken)
	s.Require().Equal(http.StatusCreated, code)

	code, resp = s.do(http.MethodGet, "/api/notifications/unread-count", nil, bobToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Data["unreadCount"])
}
