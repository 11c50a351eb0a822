package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/controllers"
	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

func setupTestDBForAnalytics(t *testing.T) *gorm.DB {
	db := openTestDB(t,
		&models.MenuCategory{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{},
	)

	db.Create(&models.MenuCategory{Name: "Food", IsActive: true})
	db.Create(&models.MenuItem{CategoryID: 1, Name: "Nasi Goreng", Price: 45.00, IsAvailable: true, IsActive: true})
	db.Create(&models.MenuItem{CategoryID: 1, Name: "Es Teh", Price: 5.00, IsAvailable: true, IsActive: true})

	now := time.Now()
	yesterday := now.Add(-30 * time.Hour)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	earlyToday := localMidnight.Add(30 * time.Minute)
	lateYesterday := localMidnight.Add(-1 * time.Hour)

	orders := []models.Order{
		{OrderNumber: "ORD-T1", Status: "served", TotalAmount: 90.00, CreatedAt: now, UpdatedAt: now},
		{OrderNumber: "ORD-T2", Status: "pending", TotalAmount: 45.00, CreatedAt: now, UpdatedAt: now},
		{OrderNumber: "ORD-T3", Status: "cancelled", TotalAmount: 200.00, CreatedAt: now, UpdatedAt: now},
		{OrderNumber: "ORD-Y1", Status: "served", TotalAmount: 45.00, CreatedAt: yesterday, UpdatedAt: yesterday},
		// The day boundary is local midnight, whatever the zone offset.
		{OrderNumber: "ORD-T4", Status: "served", TotalAmount: 20.00, CreatedAt: earlyToday, UpdatedAt: earlyToday},
		{OrderNumber: "ORD-Y2", Status: "served", TotalAmount: 60.00, CreatedAt: lateYesterday, UpdatedAt: lateYesterday},
	}
	for i := range orders {
		db.Create(&orders[i])
	}

	db.Create(&models.OrderItem{OrderID: orders[0].ID, MenuItemID: 1, Quantity: 2, UnitPrice: 45.00, Subtotal: 90.00})
	db.Create(&models.OrderItem{OrderID: orders[1].ID, MenuItemID: 1, Quantity: 1, UnitPrice: 45.00, Subtotal: 45.00})
	db.Create(&models.OrderItem{OrderID: orders[3].ID, MenuItemID: 2, Quantity: 9, UnitPrice: 5.00, Subtotal: 45.00})
	return db
}

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	adminCtrl := controllers.NewAdminController(db)
	router.GET("/admin/analytics", adminCtrl.GetAnalytics)
	return router
}

func TestGetAnalytics(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForAnalytics(t)
	router := setupAdminRouter(db)

	req, _ := http.NewRequest("GET", "/admin/analytics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	// Cancelled orders and anything before local midnight stay out of today's
	// figures; an order just after local midnight is counted.
	assert.Equal(t, 155.00, data["todays_revenue"])
	assert.Equal(t, float64(3), data["todays_order_count"])

	popular := data["popular_items"].([]interface{})
	assert.NotEmpty(t, popular)
	top := popular[0].(map[string]interface{})
	// Es Teh sold 9 units this week against Nasi Goreng's 3.
	assert.Equal(t, "Es Teh", top["name"])
	assert.Equal(t, float64(9), top["count"])
}
