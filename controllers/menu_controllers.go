package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenu -> public catalog: active and available items with their category
func (mc *MenuController) GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Preload("Category").
		Where("is_active = ? AND is_available = ?", true, true).
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

type menuItemReq struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	CategoryID      uint    `json:"category_id" binding:"required"`
	ImageURL        *string `json:"image_url"`
	IsAvailable     *bool   `json:"is_available"`
	PreparationTime *int    `json:"preparation_time"`
}

// CreateMenuItem -> admin adds a catalog item
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsMoney(req.Price) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be non-negative with at most two decimal places"))
		return
	}

	var category models.MenuCategory
	if err := mc.DB.Where("id = ? AND is_active = ?", req.CategoryID, true).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown category"))
		return
	}

	item := models.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		IsAvailable:     true,
		IsActive:        true,
		PreparationTime: req.PreparationTime,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (%.2f)", item.Name, item.Price)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> partial update of a catalog item
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var req struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Price           *float64 `json:"price"`
		CategoryID      *uint    `json:"category_id"`
		ImageURL        *string  `json:"image_url"`
		IsAvailable     *bool    `json:"is_available"`
		PreparationTime *int     `json:"preparation_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Price != nil {
		if !models.IsMoney(*req.Price) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be non-negative with at most two decimal places"))
			return
		}
		item.Price = *req.Price
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		item.PreparationTime = req.PreparationTime
	}
	item.UpdatedAt = time.Now()

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> soft delete via the active flag
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	item.IsActive = false
	item.UpdatedAt = time.Now()
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": item.ID})
}
