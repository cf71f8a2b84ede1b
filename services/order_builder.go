package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/notifier"
	"github.com/mesarest/comanda-app/utils"
)

// BuildInput is the resolved creation context: either (TableID, UserID)
// directly, or the three of them derived from a session token.
type BuildInput struct {
	TableID      uint
	UserID       uint
	SessionID    *uint
	ClientNotes  string
	KitchenNotes string
	Items        []OrderItemInput
}

// OrderBuilder persists an order plus its items and options as one atomic
// unit: price resolution, number allocation and every insert share a
// single transaction. Any failure rolls back the whole tree.
type OrderBuilder struct {
	DB         *gorm.DB
	Pricer     PriceResolver
	Numbers    OrderNumberAllocator
	Dispatcher *notifier.Dispatcher
}

func NewOrderBuilder(db *gorm.DB, dispatcher *notifier.Dispatcher) *OrderBuilder {
	return &OrderBuilder{DB: db, Dispatcher: dispatcher}
}

func (b *OrderBuilder) Build(input BuildInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, utils.NewValidationError("order must contain at least one item")
	}

	var created models.Order

	err := b.DB.Transaction(func(tx *gorm.DB) error {
		// All validation reads precede the first write.
		var table models.Table
		if err := tx.First(&table, input.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewValidationError("table %d not found", input.TableID)
			}
			return err
		}

		quote, err := b.Pricer.Resolve(tx, input.Items)
		if err != nil {
			return err
		}

		number, err := b.Numbers.Allocate(tx, input.TableID, time.Now())
		if err != nil {
			return err
		}

		order := models.Order{
			TableID:      input.TableID,
			UserID:       input.UserID,
			SessionID:    input.SessionID,
			Number:       number,
			Status:       models.StatusPending,
			Subtotal:     quote.Subtotal,
			Tax:          quote.Tax,
			Discount:     quote.Discount,
			Total:        quote.Total,
			ClientNotes:  input.ClientNotes,
			KitchenNotes: input.KitchenNotes,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return translatePersistenceError(err)
		}

		for _, priced := range quote.Items {
			item := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    priced.ProductID,
				Quantity:     priced.Quantity,
				UnitPrice:    priced.UnitPrice,
				OptionsPrice: priced.OptionsPrice,
				Subtotal:     priced.Subtotal,
				Notes:        priced.Notes,
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return translatePersistenceError(err)
			}

			for _, opt := range priced.Options {
				itemOpt := models.OrderItemOption{
					OrderItemID:     item.ID,
					ProductOptionID: opt.OptionID,
					AdditionalPrice: opt.AdditionalPrice,
				}
				if err := tx.Omit(clause.Associations).Create(&itemOpt).Error; err != nil {
					return translatePersistenceError(err)
				}
			}
		}

		return tx.
			Preload("Items.Options.ProductOption").
			Preload("Items.Product.Category").
			Preload("Table.Zone").
			First(&created, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created (table %d, %d items)", created.Number, created.TableID, len(created.Items))

	// Strictly post-commit; a failed notification never touches the order.
	if b.Dispatcher != nil {
		b.Dispatcher.OrderCreated(&created)
	}

	return &created, nil
}

// translatePersistenceError turns driver-level uniqueness/FK violations
// into the retriable conflict error; anything else passes through.
func translatePersistenceError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.NewConflictError(err, "order number already taken")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return utils.NewConflictError(err, "order references a missing row")
	}
	return err
}
