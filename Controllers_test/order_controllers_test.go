package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/controllers"
	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

// openTestDB opens a named in-memory database so each test starts clean.
func openTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(entities...); err != nil {
		panic(err)
	}
	return db
}

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	db := openTestDB(t,
		&models.Table{}, &models.MenuCategory{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{},
	)

	db.Create(&models.Table{Number: 5, IsActive: true})
	db.Create(&models.MenuCategory{Name: "Food", IsActive: true})
	prep15, prep5 := 15, 5
	db.Create(&models.MenuItem{
		CategoryID: 1, Name: "Nasi Goreng", Price: 45.00,
		IsAvailable: true, IsActive: true, PreparationTime: &prep15,
	})
	db.Create(&models.MenuItem{
		CategoryID: 1, Name: "Es Teh", Price: 30.50,
		IsAvailable: true, IsActive: true, PreparationTime: &prep5,
	})
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:order_number", orderCtrl.GetOrderByNumber)
	router.GET("/staff/orders", orderCtrl.GetStaffOrders)
	router.PATCH("/staff/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validOrderPayload() map[string]interface{} {
	return map[string]interface{}{
		"table_number": 5,
		"total_amount": 120.50,
		"items": []map[string]interface{}{
			{"menu_item_id": 1, "quantity": 2, "unit_price": 45.00, "subtotal": 90.00},
			{"menu_item_id": 2, "quantity": 1, "unit_price": 30.50, "subtotal": 30.50, "special_instructions": "less sugar"},
		},
	}
}

func TestCreateOrderAndFetchByNumber(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	w := postJSON(t, router, "/orders", validOrderPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	data := createResp["data"].(map[string]interface{})

	orderNumber := data["order_number"].(string)
	assert.True(t, strings.HasPrefix(orderNumber, "ORD-"))
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, 120.50, data["total_amount"])
	assert.Equal(t, float64(15), data["estimated_time"])

	req, _ := http.NewRequest("GET", "/orders/"+orderNumber, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetchResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetchResp))
	fetched := fetchResp["data"].(map[string]interface{})
	assert.Equal(t, orderNumber, fetched["order_number"])
	assert.Len(t, fetched["order_items"], 2)
}

func TestCreateOrderTotalMismatchRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := validOrderPayload()
	payload["total_amount"] = 999.99
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderSubtotalMismatchRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"table_number": 5,
		"total_amount": 100.00,
		"items": []map[string]interface{}{
			{"menu_item_id": 1, "quantity": 2, "unit_price": 45.00, "subtotal": 100.00},
		},
	}
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderInvalidQuantityRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"table_number": 5,
		"total_amount": 0.00,
		"items": []map[string]interface{}{
			{"menu_item_id": 1, "quantity": -1, "unit_price": 45.00, "subtotal": 0.00},
		},
	}
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderUnknownTableRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := validOrderPayload()
	payload["table_number"] = 999
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderUnknownMenuItemRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"table_number": 5,
		"total_amount": 10.00,
		"items": []map[string]interface{}{
			{"menu_item_id": 999, "quantity": 1, "unit_price": 10.00, "subtotal": 10.00},
		},
	}
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderWithoutTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	payload := validOrderPayload()
	delete(payload, "table_number")
	w := postJSON(t, router, "/orders", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Nil(t, data["table_id"])
}

func TestOrderNumbersAreUnique(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	numbers := make(map[string]bool)
	for i := 0; i < 5; i++ {
		w := postJSON(t, router, "/orders", validOrderPayload())
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		number := resp["data"].(map[string]interface{})["order_number"].(string)
		assert.False(t, numbers[number], "duplicate order number %s", number)
		numbers[number] = true
	}
}

func TestGetStaffOrdersStatusFilter(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	db.Create(&models.Order{OrderNumber: "ORD-A", Status: "pending", TotalAmount: 10})
	db.Create(&models.Order{OrderNumber: "ORD-B", Status: "preparing", TotalAmount: 20})
	db.Create(&models.Order{OrderNumber: "ORD-C", Status: "pending", TotalAmount: 30})

	req, _ := http.NewRequest("GET", "/staff/orders?status=pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 2)

	// Unrecognized status labels are rejected, not treated as empty filters.
	req, _ = http.NewRequest("GET", "/staff/orders?status=bogus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	order := models.Order{OrderNumber: "ORD-X", Status: "pending", TotalAmount: 10}
	db.Create(&order)

	body, _ := json.Marshal(map[string]string{"status": "preparing"})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/staff/orders/%d/status", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, "preparing", stored.Status)
}

func TestUpdateOrderStatusInvalidLabel(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	order := models.Order{OrderNumber: "ORD-Y", Status: "pending", TotalAmount: 10}
	db.Create(&order)

	body, _ := json.Marshal(map[string]string{"status": "done"})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/staff/orders/%d/status", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The rejection leaves the stored status untouched.
	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, "pending", stored.Status)
}

func TestUpdateOrderStatusServedIsNotTerminalForAPI(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	order := models.Order{OrderNumber: "ORD-Z", Status: "served", TotalAmount: 10}
	db.Create(&order)

	// Membership is the only check; the forward-only progression lives in the
	// staff UI, so a direct call can still move a served order.
	body, _ := json.Marshal(map[string]string{"status": "pending"})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/staff/orders/%d/status", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, order.ID)
	assert.Equal(t, "pending", stored.Status)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	body, _ := json.Marshal(map[string]string{"status": "preparing"})
	req, _ := http.NewRequest("PATCH", "/staff/orders/999/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderByNumberNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	req, _ := http.NewRequest("GET", "/orders/ORD-MISSING", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
