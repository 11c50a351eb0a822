package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetAnalytics -> today's revenue and order count plus the most popular items
// over a trailing 7-day window. Cancelled orders are excluded throughout.
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	var analytics struct {
		TodaysRevenue    float64 `json:"todays_revenue"`
		TodaysOrderCount int64   `json:"todays_order_count"`
		PopularItems     []struct {
			MenuItemID uint    `json:"menu_item_id"`
			Name       string  `json:"name"`
			Count      int     `json:"count"`
			Revenue    float64 `json:"revenue"`
		} `json:"popular_items"`
	}

	// Local midnight, not epoch-aligned UTC midnight.
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ac.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status != ?", startOfDay, models.StatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&analytics.TodaysRevenue)

	ac.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status != ?", startOfDay, models.StatusCancelled).
		Count(&analytics.TodaysOrderCount)

	weekAgo := now.AddDate(0, 0, -7)
	ac.DB.Raw(`
		SELECT mi.id AS menu_item_id, mi.name AS name,
		       SUM(oi.quantity) AS count, SUM(oi.subtotal) AS revenue
		FROM order_items oi
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		JOIN orders o ON oi.order_id = o.id
		WHERE o.created_at >= ? AND o.status != ?
		GROUP BY mi.id, mi.name
		ORDER BY count DESC
		LIMIT 5
	`, weekAgo, models.StatusCancelled).Scan(&analytics.PopularItems)

	utils.RespondJSON(c, http.StatusOK, "Analytics summary", analytics)
}
