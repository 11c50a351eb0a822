package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
	"github.com/raynaldi/tabletap/ws"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemReq struct {
	MenuItemID          uint    `json:"menu_item_id" binding:"required"`
	Quantity            int     `json:"quantity" binding:"required"`
	UnitPrice           float64 `json:"unit_price"`
	Subtotal            float64 `json:"subtotal"`
	SpecialInstructions string  `json:"special_instructions"`
}

type createOrderReq struct {
	TableNumber *int           `json:"table_number"`
	TableID     *uint          `json:"table_id"`
	Notes       string         `json:"notes"`
	TotalAmount float64        `json:"total_amount"`
	Items       []orderItemReq `json:"items" binding:"required"`
}

// CreateOrder -> checkout: validates line items, recomputes the total
// server-side, persists order + items in one transaction and broadcasts
// NEW_ORDER on success.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body createOrderReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order must contain at least one item"))
		return
	}

	// Resolve the table binding, when one is declared.
	var tableID *uint
	if body.TableID != nil {
		var table models.Table
		if err := oc.DB.Where("id = ? AND is_active = ?", *body.TableID, true).First(&table).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, ErrTableNotFound)
			return
		}
		tableID = &table.ID
	} else if body.TableNumber != nil {
		var table models.Table
		if err := oc.DB.Where("number = ? AND is_active = ?", *body.TableNumber, true).First(&table).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, ErrTableNotFound)
			return
		}
		tableID = &table.ID
	}

	// Validate line items against the catalog. Unit prices are client-declared
	// snapshots; subtotals and the grand total must be arithmetically
	// consistent with them.
	var totalCents int64
	var estimated *int
	orderItems := make([]models.OrderItem, 0, len(body.Items))

	for _, item := range body.Items {
		if item.Quantity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid quantity for menu item %d", item.MenuItemID))
			return
		}
		if !models.IsMoney(item.UnitPrice) || !models.IsMoney(item.Subtotal) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid price for menu item %d", item.MenuItemID))
			return
		}
		if models.Cents(item.Subtotal) != int64(item.Quantity)*models.Cents(item.UnitPrice) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("subtotal mismatch for menu item %d", item.MenuItemID))
			return
		}

		var menuItem models.MenuItem
		if err := oc.DB.Where("id = ? AND is_active = ?", item.MenuItemID, true).First(&menuItem).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown menu item %d", item.MenuItemID))
			return
		}
		if menuItem.PreparationTime != nil && (estimated == nil || *menuItem.PreparationTime > *estimated) {
			estimated = menuItem.PreparationTime
		}

		totalCents += models.Cents(item.Subtotal)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			Subtotal:            item.Subtotal,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	if models.Cents(body.TotalAmount) != totalCents {
		utils.RespondError(c, http.StatusBadRequest, errors.New("total amount does not match sum of line subtotals"))
		return
	}

	order := models.Order{
		OrderNumber:   models.NewOrderNumber(),
		TableID:       tableID,
		CustomerID:    customerIDFromAuth(c),
		Status:        models.StatusPending,
		TotalAmount:   body.TotalAmount,
		Notes:         body.Notes,
		EstimatedTime: estimated,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// Order and items land together or not at all.
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		return tx.Create(&orderItems).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Reload with menu item display data for the response and the broadcast.
	var created models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Preload("Table").First(&created, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ws.BroadcastNewOrder(created)
	utils.InfoLogger.Printf("Order %s created (table=%v, total=%.2f)", created.OrderNumber, body.TableNumber, created.TotalAmount)

	utils.RespondJSON(c, http.StatusCreated, "Order created", created)
}

// GetOrderByNumber -> fetch one order with its items for tracking
func (oc *OrderController) GetOrderByNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Preload("Table").
		Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrOrderNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetStaffOrders -> list orders, optionally filtered by a single status
func (oc *OrderController) GetStaffOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.IsValidStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", status))
		return
	}

	query := oc.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Preload("Table").
		Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus -> advance an order's status. The target is validated for
// membership only; the staff UI drives the forward progression.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.IsValidStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", body.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrOrderNotFound)
		return
	}

	order.Status = body.Status
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ws.BroadcastOrderStatus(order.ID, order.Status)
	utils.InfoLogger.Printf("Order %s status changed to %s", order.OrderNumber, order.Status)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// customerIDFromAuth picks up the customer reference when the (public)
// checkout request happens to carry a valid token. Absence is fine.
func customerIDFromAuth(c *gin.Context) *uint {
	token := c.GetHeader("Authorization")
	if token == "" {
		return nil
	}
	claims, err := utils.ParseToken(strings.TrimPrefix(token, "Bearer "))
	if err != nil {
		return nil
	}
	return &claims.UserID
}
