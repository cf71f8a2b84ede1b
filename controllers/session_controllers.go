package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/services"
	"github.com/mesarest/comanda-app/utils"
)

const defaultSessionTTL = 3 * time.Hour

type SessionController struct {
	DB      *gorm.DB
	Gateway *services.SessionGateway
}

func NewSessionController(db *gorm.DB, gateway *services.SessionGateway) *SessionController {
	return &SessionController{DB: db, Gateway: gateway}
}

// OpenSession -> start a shared tab on a table, returns the diner token.
func (sc *SessionController) OpenSession(c *gin.Context) {
	type reqBody struct {
		TableID uint `json:"table_id" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var openedBy uint
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			openedBy = id
		}
	}

	session, err := sc.Gateway.Open(body.TableID, openedBy, defaultSessionTTL)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session opened", session)
}

// CloseSession -> end the tab; further token orders are rejected.
func (sc *SessionController) CloseSession(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("session_id"))

	session, err := sc.Gateway.Close(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}
