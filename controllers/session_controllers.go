package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/utils"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

// BindTable -> best-effort, non-authoritative binding of a table number to the
// current browsing session. The client holds the authoritative copy; a failure
// here never breaks the client-side binding.
func (sc *SessionController) BindTable(c *gin.Context) {
	var req struct {
		TableNumber int    `json:"table_number" binding:"required"`
		SessionKey  string `json:"session_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := sc.DB.Where("number = ? AND is_active = ?", req.TableNumber, true).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrTableNotFound)
		return
	}

	if req.SessionKey == "" {
		req.SessionKey = uuid.NewString()
	}

	var session models.DiningSession
	err := sc.DB.Where("session_key = ?", req.SessionKey).First(&session).Error
	switch {
	case err == nil:
		session.TableID = &table.ID
		session.UpdatedAt = time.Now()
		err = sc.DB.Save(&session).Error
	default:
		session = models.DiningSession{
			SessionKey: req.SessionKey,
			TableID:    &table.ID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		err = sc.DB.Create(&session).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table bound to session", gin.H{
		"session_key":  session.SessionKey,
		"table_number": table.Number,
	})
}
