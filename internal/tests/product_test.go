// internal/tests/product_test.go
package tests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

func manga(name string, stock int) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"category":  "Manga",
		"price":     450,
		"stock":     stock,
		"author":    "Eiichiro Oda",
		"printType": "Original",
	}
}

func (s *APITestSuite) TestCreateProductRules() {
	token := s.adminToken()

	product := s.createProduct(token, manga("One Piece Vol. 1", 10))
	assert.Equal(s.T(), true, product["inStock"])
	assert.Equal(s.T(), true, product["available"])

	body := manga("No Author", 1)
	delete(body, "author")
	code, _ := s.do(http.MethodPost, "/api/products", body, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	body = manga("Bad Category", 1)
	body["category"] = "Furniture"
	code, _ = s.do(http.MethodPost, "/api/products", body, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	body = manga("Negative Price", 1)
	body["price"] = -1
	code, _ = s.do(http.MethodPost, "/api/products", body, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	// Figures need neither author nor print type.
	s.createProduct(token, map[string]interface{}{"name": "Nendoroid", "category": "Figures", "price": 3200, "stock": 2})
}

func (s *APITestSuite) TestProductWritesRequireAdmin() {
	userToken, _ := s.registerUser("buyer", "buyer@example.com")

	code, _ := s.do(http.MethodPost, "/api/products", manga("Sneaky", 1), userToken)
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/products", manga("Anonymous", 1), "")
	assert.Equal(s.T(), http.StatusUnauthorized, code)
}

func (s *APITestSuite) TestStockToZeroCreatesOneUrgentNotification() {
	token := s.adminToken()
	product := s.createProduct(token, manga("One Piece Vol. 1", 10))
	path := "/api/products/" + product["_id"].(string) + "/stock"

	code, resp := s.do(http.MethodPatch, path, map[string]interface{}{"stock": 0}, token)
	s.Require().Equal(http.StatusOK, code)
	updated := resp.Data["product"].(map[string]interface{})
	assert.Equal(s.T(), float64(0), updated["stock"])
	assert.Equal(s.T(), false, updated["inStock"])

	// Setting zero again must not notify twice.
	code, _ = s.do(http.MethodPatch, path, map[string]interface{}{"stock": 0}, token)
	s.Require().Equal(http.StatusOK, code)

	code, resp = s.do(http.MethodGet, "/api/notifications?type=inventory", nil, token)
	s.Require().Equal(http.StatusOK, code)
	notifications := resp.Data["notifications"].([]interface{})
	s.Require().Len(notifications, 1)
	assert.Equal(s.T(), "urgent", notifications[0].(map[string]interface{})["priority"])
}

func (s *APITestSuite) TestLowStockNotification() {
	token := s.adminToken()
	product := s.createProduct(token, manga("Vol. 2", 20))
	path := "/api/products/" + product["_id"].(string) + "/stock"

	code, _ := s.do(http.MethodPatch, path, map[string]interface{}{"stock": 17, "operation": "subtract"}, token)
	s.Require().Equal(http.StatusOK, code)

	code, resp := s.do(http.MethodGet, "/api/notifications?type=inventory&priority=high", nil, token)
	s.Require().Equal(http.StatusOK, code)
	assert.Len(s.T(), resp.Data["notifications"].([]interface{}), 1)

	code, _ = s.do(http.MethodPatch, path, map[string]interface{}{"stock": 10, "operation": "subtract"}, token)
	assert.Equal(s.T(), http.StatusBadRequest, code)
}

func (s *APITestSuite) TestListProductsFilters() {
	token := s.adminToken()
	s.createProduct(token, manga("Alpha", 5))
	s.createProduct(token, manga("Beta", 0))
	s.createProduct(token, map[string]interface{}{"name": "Gamma Hoodie", "category": "Clothing", "price": 1200, "stock": 3, "featured": true})

	code, resp := s.do(http.MethodGet, "/api/products?category=Manga", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(2), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, resp = s.do(http.MethodGet, "/api/products?inStock=true", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(2), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, resp = s.do(http.MethodGet, "/api/products?minPrice=1000&featured=true", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, resp = s.do(http.MethodGet, "/api/products?search=alp", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(1), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, resp = s.do(http.MethodGet, "/api/products?search=ODA", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(2), resp.Meta["pagination"].(map[string]interface{})["total"])

	// Search terms are literal text, not patterns.
	code, resp = s.do(http.MethodGet, "/api/products?search=a.p", nil, "")
	s.Require().Equal(http.StatusOK, code)
	assert.Equal(s.T(), float64(0), resp.Meta["pagination"].(map[string]interface{})["total"])

	code, resp = s.do(http.MethodGet, "/api/products?limit=1&page=2&sort=name&order=asc", nil, "")
	s.Require().Equal(http.StatusOK, code)
	pagination := resp.Meta["pagination"].(map[string]interface{})
	assert.Equal(s.T(), float64(3), pagination["totalPages"])
	assert.Equal(s.T(), true, pagination["hasPrev"])
}

func (s *APITestSuite) TestProductNotFound() {
	code, resp := s.do(http.MethodGet, "/api/products/does-not-exist", nil, "")
	assert.Equal(s.T(), http.StatusNotFound, code)
	assert.Equal(s.T(), "Product not found", resp.Error.Message)
}
