// internal/tests/order_test.go
package tests

import (
	"net/http"
	"regexp"

	"github.com/stretchr/testify/assert"
)

var trackingNumberPattern = regexp.MustCompile(`^OG\d+[A-Z0-9]{4}$`)

func guestOrder() map[string]interface{} {
	return map[string]interface{}{
		"customerName":  "Rahim Uddin",
		"phone":         "01700000000",
		"address":       "House 12, Road 5",
		"city":          "Dhaka",
		"paymentMethod": "cod",
		"cartItems": []map[string]interface{}{
			{"productId": "p1", "name": "One Piece Vol. 1", "price": 500, "quantity": 2},
			{"productId": "p2", "name": "Gojo Keychain", "price": 1000, "quantity": 1},
		},
	}
}

func (s *APITestSuite) TestGuestCheckoutAndTracking() {
	code, resp := s.do(http.MethodPost, "/api/orders", guestOrder(), "")
	s.Require().Equal(http.StatusCreated, code)

	trackingNumber := resp.Data["trackingNumber"].(string)
	assert.Regexp(s.T(), trackingNumberPattern, trackingNumber)

	order := resp.Data["order"].(map[string]interface{})
	assert.Equal(s.T(), float64(2000), order["total"])
	assert.Equal(s.T(), float64(2000), order["finalTotal"])
	assert.Equal(s.T(), "pending", order["orderStatus"])
	assert.Equal(s.T(), "pending", order["paymentStatus"])
	assert.NotContains(s.T(), order, "userId")

	code, resp = s.do(http.MethodGet, "/api/orders/track/"+trackingNumber, nil, "")
	assert.Equal(s.T(), http.StatusOK, code)
	tracked := resp.Data["order"].(map[string]interface{})
	assert.Equal(s.T(), order["_id"], tracked["_id"])

	code, _ = s.do(http.MethodGet, "/api/orders/track/OG0000NONE", nil, "")
	assert.Equal(s.T(), http.StatusNotFound, code)
}

func (s *APITestSuite) TestOrderTotalsAreComputedServerSide() {
	body := guestOrder()
	body["total"] = 1
	body["shippingCost"] = 60
	body["discount"] = 100

	code, resp := s.do(http.MethodPost, "/api/orders", body, "")
	s.Require().Equal(http.StatusCreated, code)

	order := resp.Data["order"].(map[string]interface{})
	assert.Equal(s.T(), float64(2000), order["total"])
	assert.Equal(s.T(), float64(1960), order["finalTotal"])
}

func (s *APITestSuite) TestOrderValidation() {
	body := guestOrder()
	body["paymentMethod"] = "paypal"
	code, _ := s.do(http.MethodPost, "/api/orders", body, "")
	assert.Equal(s.T(), http.StatusBadRequest, code)

	body = guestOrder()
	body["cartItems"] = []map[string]interface{}{}
	code, _ = s.do(http.MethodPost, "/api/orders", body, "")
	assert.Equal(s.T(), http.StatusBadRequest, code)

	body = guestOrder()
	body["discount"] = 5000
	code, _ = s.do(http.MethodPost, "/api/orders", body, "")
	assert.Equal(s.T(), http.StatusBadRequest, code)
}

func (s *APITestSuite) TestLoggedInCheckoutIsLinkedToUser() {
	token, user := s.registerUser("buyer", "buyer@example.com")

	code, resp := s.do(http.MethodPost, "/api/orders", guestOrder(), token)
	s.Require().Equal(http.StatusCreated, code)
	order := resp.Data["order"].(map[string]interface{})
	assert.Equal(s.T(), user["_id"], order["userId"])
	assert.Equal(s.T(), "buyer@example.com", order["email"])

	code, resp = s.do(http.MethodGet, "/api/orders/my", nil, token)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Data["count"])
}

func (s *APITestSuite) TestAdminUpdatesOrderStatus() {
	adminToken := s.adminToken()
	userToken, user := s.registerUser("buyer", "buyer@example.com")

	code, resp := s.do(http.MethodPost, "/api/orders", guestOrder(), userToken)
	s.Require().Equal(http.StatusCreated, code)
	orderID := resp.Data["order"].(map[string]interface{})["_id"].(string)

	code, _ = s.do(http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{"orderStatus": "lost"}, adminToken)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	code, resp = s.do(http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{
		"orderStatus":   "shipped",
		"paymentStatus": "paid",
	}, adminToken)
	s.Require().Equal(http.StatusOK, code)
	order := resp.Data["order"].(map[string]interface{})
	assert.Equal(s.T(), "shipped", order["orderStatus"])
	assert.Equal(s.T(), "paid", order["paymentStatus"])

	// The buyer hears about it through a targeted notification.
	code, resp = s.do(http.MethodGet, "/api/notifications?type=order", nil, userToken)
	s.Require().Equal(http.StatusOK, code)
	targeted := 0
	for _, n := range resp.Data["notifications"].([]interface{}) {
		if n.(map[string]interface{})["userId"] == user["_id"] {
			targeted++
		}
	}
	assert.Equal(s.T(), 1, targeted)

	code, resp = s.do(http.MethodGet, "/api/orders/admin?orderStatus=shipped", nil, adminToken)
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, _ = s.do(http.MethodDelete, "/api/orders/"+orderID, nil, adminToken)
	assert.Equal(s.T(), http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/orders/"+orderID, nil, adminToken)
	assert.Equal(s.T(), http.StatusNotFound, code)
}

func (s *APITestSuite) TestOrderStats() {
	adminToken := s.adminToken()
	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/api/orders", guestOrder(), "")
		s.Require().Equal(http.StatusCreated, code)
	}

	code, resp := s.do(http.MethodGet, "/api/orders/admin/stats", nil, adminToken)
	s.Require().Equal(http.StatusOK, code)
	stats := resp.Data["stats"].(map[string]interface{})
	assert.Equal(s.T(), float64(2), stats["totalOrders"])
}
