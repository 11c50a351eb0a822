package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/config"
	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetTableByNumber -> validate/resolve a table by its number (QR scan path).
// Inactive and unknown numbers both report not found.
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("number = ? AND is_active = ?", number, true).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrTableNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetAllTables -> admin view, inactive tables included
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> add a table; at most one active table per number
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number int `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Number <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number must be positive"))
		return
	}

	var count int64
	tc.DB.Model(&models.Table{}).Where("number = ? AND is_active = ?", req.Number, true).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %d already exists", req.Number))
		return
	}

	table := models.Table{
		Number:   req.Number,
		QRCode:   tableQRCode(req.Number),
		IsActive: true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %d", table.Number)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// BulkCreateTables -> create a numeric range of tables, skipping numbers that
// already have an active table.
func (tc *TableController) BulkCreateTables(c *gin.Context) {
	var req struct {
		Start int `json:"start" binding:"required"`
		End   int `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Start <= 0 || req.End < req.Start {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table number range"))
		return
	}

	var created []models.Table
	for number := req.Start; number <= req.End; number++ {
		var count int64
		tc.DB.Model(&models.Table{}).Where("number = ? AND is_active = ?", number, true).Count(&count)
		if count > 0 {
			continue
		}

		table := models.Table{
			Number:   number,
			QRCode:   tableQRCode(number),
			IsActive: true,
		}
		if err := tc.DB.Create(&table).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		created = append(created, table)
	}

	utils.InfoLogger.Printf("Bulk created %d tables (%d-%d)", len(created), req.Start, req.End)
	utils.RespondJSON(c, http.StatusCreated, "Tables created", created)
}

// DeleteTable -> soft delete; the number becomes reusable
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrTableNotFound)
		return
	}

	table.IsActive = false
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deactivated", table.Number)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// tableQRCode builds the shareable URL encoded in a table's QR code.
func tableQRCode(number int) string {
	return fmt.Sprintf("%s/?table=%d", config.Load().BaseURL, number)
}
