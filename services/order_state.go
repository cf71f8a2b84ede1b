package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

// allowedTransitions lists every legal (from -> to) edge. Delivered and
// cancelled are terminal.
var allowedTransitions = map[string][]string{
	models.StatusPending:       {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:     {models.StatusInPreparation, models.StatusCancelled},
	models.StatusInPreparation: {models.StatusReady, models.StatusCancelled},
	models.StatusReady:         {models.StatusDelivered},
	models.StatusDelivered:     {},
	models.StatusCancelled:     {},
}

type OrderStateMachine struct{}

func (OrderStateMachine) CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition applies one status change and stamps the corresponding
// timestamp. On an illegal pair it returns a StateTransitionError and
// leaves the order untouched, both in memory and in the store. Timestamps
// stamped by earlier transitions are never cleared or overwritten.
func (m OrderStateMachine) Transition(tx *gorm.DB, order *models.Order, target string) error {
	if _, known := allowedTransitions[order.Status]; !known {
		return utils.NewValidationError("unknown order status '%s'", order.Status)
	}
	if _, known := allowedTransitions[target]; !known {
		return utils.NewValidationError("unknown target status '%s'", target)
	}
	if !m.CanTransition(order.Status, target) {
		return &utils.StateTransitionError{From: order.Status, To: target}
	}

	now := time.Now()
	order.Status = target
	switch target {
	case models.StatusConfirmed:
		order.ConfirmedAt = &now
	case models.StatusInPreparation:
		order.InPreparationAt = &now
	case models.StatusReady:
		order.ReadyAt = &now
	case models.StatusDelivered:
		order.DeliveredAt = &now
	case models.StatusCancelled:
		order.CancelledAt = &now
	}
	order.UpdatedAt = now

	return tx.Omit(clause.Associations).Save(order).Error
}
