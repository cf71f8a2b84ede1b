package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

// OrderItemInput is one requested line before pricing. Client-submitted
// price fields never reach this struct; the catalog is the only price
// source.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
	OptionIDs []uint
	Notes     string
}

type PricedOption struct {
	OptionID        uint
	AdditionalPrice decimal.Decimal
}

type PricedItem struct {
	ProductID    uint
	Quantity     int
	UnitPrice    decimal.Decimal
	OptionsPrice decimal.Decimal
	Subtotal     decimal.Decimal
	Notes        string
	Options      []PricedOption
}

// Quote is the authoritative price breakdown for one order.
// Tax and discount are fixed at zero for now.
type Quote struct {
	Items    []PricedItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

type PriceResolver struct{}

// Resolve loads every product and option inside the caller's transaction
// and computes the true prices. Missing or unavailable catalog rows fail
// with a ValidationError; nothing is written.
func (r *PriceResolver) Resolve(tx *gorm.DB, items []OrderItemInput) (*Quote, error) {
	quote := &Quote{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Discount: decimal.Zero,
	}

	for _, in := range items {
		if in.Quantity < 1 {
			return nil, utils.NewValidationError("quantity must be at least 1 for product %d", in.ProductID)
		}

		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewValidationError("product %d not found", in.ProductID)
			}
			return nil, err
		}
		if !product.Available {
			return nil, utils.NewValidationError("product '%s' is not available", product.Name)
		}

		priced := PricedItem{
			ProductID:    product.ID,
			Quantity:     in.Quantity,
			UnitPrice:    product.BasePrice,
			OptionsPrice: decimal.Zero,
			Notes:        in.Notes,
		}

		for _, optID := range in.OptionIDs {
			var opt models.ProductOption
			if err := tx.First(&opt, optID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, utils.NewValidationError("option %d not found", optID)
				}
				return nil, err
			}
			if opt.ProductID != product.ID {
				return nil, utils.NewValidationError("option %d does not belong to product %d", optID, product.ID)
			}
			priced.OptionsPrice = priced.OptionsPrice.Add(opt.AdditionalPrice)
			priced.Options = append(priced.Options, PricedOption{
				OptionID:        opt.ID,
				AdditionalPrice: opt.AdditionalPrice,
			})
		}

		qty := decimal.NewFromInt(int64(in.Quantity))
		priced.Subtotal = qty.Mul(priced.UnitPrice.Add(priced.OptionsPrice))
		quote.Subtotal = quote.Subtotal.Add(priced.Subtotal)
		quote.Items = append(quote.Items, priced)
	}

	quote.Total = quote.Subtotal.Add(quote.Tax).Sub(quote.Discount)
	return quote, nil
}
