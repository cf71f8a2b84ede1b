package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/notifier"
	"github.com/mesarest/comanda-app/services"
	"github.com/mesarest/comanda-app/utils"
)

type OrderController struct {
	DB         *gorm.DB
	Builder    *services.OrderBuilder
	States     services.OrderStateMachine
	Dispatcher *notifier.Dispatcher
}

func NewOrderController(db *gorm.DB, builder *services.OrderBuilder, dispatcher *notifier.Dispatcher) *OrderController {
	return &OrderController{DB: db, Builder: builder, Dispatcher: dispatcher}
}

// CreateOrder -> direct (staff/POS) creation against a table. Client may
// echo prices back; they are advisory only. The server recomputes and
// overwrites them, logging when they diverge from catalog truth.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	type itemReq struct {
		ProductID    uint     `json:"product_id" binding:"required"`
		Quantity     int      `json:"quantity" binding:"required,min=1"`
		UnitPrice    *float64 `json:"unit_price"`    // advisory
		OptionsPrice *float64 `json:"options_price"` // advisory
		OptionIDs    []uint   `json:"option_ids"`
		Notes        string   `json:"notes"`
	}
	type reqBody struct {
		UserID       uint      `json:"user_id"`
		ClientNotes  string    `json:"client_notes"`
		KitchenNotes string    `json:"kitchen_notes"`
		Items        []itemReq `json:"items" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := body.UserID
	if userID == 0 {
		if v, ok := c.Get("userID"); ok {
			if id, ok := v.(uint); ok {
				userID = id
			}
		}
	}
	if userID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	input := services.BuildInput{
		TableID:      uint(tableID),
		UserID:       userID,
		ClientNotes:  body.ClientNotes,
		KitchenNotes: body.KitchenNotes,
	}
	for _, it := range body.Items {
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			OptionIDs: it.OptionIDs,
			Notes:     it.Notes,
		})
	}

	order, err := oc.Builder.Build(input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	// Advisory prices are never trusted; warn when a client sent stale ones.
	for i, it := range body.Items {
		if i >= len(order.Items) || it.UnitPrice == nil {
			continue
		}
		if !decimal.NewFromFloat(*it.UnitPrice).Equal(order.Items[i].UnitPrice) {
			utils.InfoLogger.Printf("Order %s: advisory unit price %.2f for product %d overwritten with %s",
				order.Number, *it.UnitPrice, it.ProductID, order.Items[i].UnitPrice)
		}
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> list orders with their items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items.Options").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.
		Preload("Items.Options.ProductOption").
		Preload("Items.Product.Category").
		Preload("Table.Zone").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NewNotFoundError("order", id))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// ChangeStatus -> apply one lifecycle transition, stamping its timestamp.
func (oc *OrderController) ChangeStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.
		Preload("Items.Product.Category").
		Preload("Table.Zone").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NewNotFoundError("order", id))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.States.Transition(oc.DB, &order, body.Status); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if oc.Dispatcher != nil {
		oc.Dispatcher.OrderStatusChanged(&order)
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// DeleteOrder removes the whole tree. Items and options are deleted
// explicitly so the result does not depend on database-level cascade
// enforcement.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&models.OrderItem{}).Select("id").Where("order_id = ?", id)
		if err := tx.Where("order_item_id IN (?)", itemIDs).Delete(&models.OrderItemOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetKitchenDisplay -> orders the kitchen still works on, oldest first.
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.
		Preload("Items.Product").
		Preload("Table").
		Where("status IN ?", []string{models.StatusConfirmed, models.StatusInPreparation, models.StatusReady}).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}
