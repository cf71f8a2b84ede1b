package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/services"
	"github.com/mesarest/comanda-app/utils"
)

type SessionOrderController struct {
	DB      *gorm.DB
	Gateway *services.SessionGateway
	Builder *services.OrderBuilder
}

func NewSessionOrderController(db *gorm.DB, gateway *services.SessionGateway, builder *services.OrderBuilder) *SessionOrderController {
	return &SessionOrderController{DB: db, Gateway: gateway, Builder: builder}
}

// priceShapedKey reports whether a payload key carries price semantics.
// The token flow rejects these outright rather than ignoring them, even
// when the submitted value would match the catalog.
func priceShapedKey(key string) bool {
	switch key {
	case "subtotal", "total", "amount":
		return true
	}
	return strings.Contains(strings.ToLower(key), "price")
}

func findPriceShapedField(raw []byte) string {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	for key := range probe {
		if priceShapedKey(key) {
			return key
		}
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(probe["items"], &items); err != nil {
		return ""
	}
	for _, item := range items {
		for key := range item {
			if priceShapedKey(key) {
				return key
			}
		}
	}
	return ""
}

// CreateOrder -> diner creation through the shared-table token. The
// payload must not contain any price-shaped field; prices come from the
// catalog alone.
func (soc *SessionOrderController) CreateOrder(c *gin.Context) {
	token := c.Param("token")

	raw, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if key := findPriceShapedField(raw); key != "" {
		utils.RespondAppError(c, utils.NewValidationError("price field '%s' is not allowed in a session order", key))
		return
	}

	type itemReq struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
		OptionIDs []uint `json:"option_ids"`
		Notes     string `json:"notes"`
	}
	type reqBody struct {
		ClientNotes string    `json:"client_notes"`
		Items       []itemReq `json:"items" binding:"required"`
	}

	var body reqBody
	if err := json.Unmarshal(raw, &body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(body.Items) == 0 {
		utils.RespondAppError(c, utils.NewValidationError("order must contain at least one item"))
		return
	}

	sessionCtx, err := soc.Gateway.Resolve(token)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	input := services.BuildInput{
		TableID:     sessionCtx.TableID,
		UserID:      sessionCtx.UserID,
		SessionID:   &sessionCtx.SessionID,
		ClientNotes: body.ClientNotes,
	}
	for _, it := range body.Items {
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			OptionIDs: it.OptionIDs,
			Notes:     it.Notes,
		})
	}

	order, err := soc.Builder.Build(input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetHistory -> every order ever attached to the session. A closed or
// expired tab answers with the marker and an empty list, not an error.
func (soc *SessionOrderController) GetHistory(c *gin.Context) {
	token := c.Param("token")

	history, err := soc.Gateway.History(token)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session order history", history)
}
