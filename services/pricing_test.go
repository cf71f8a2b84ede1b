package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

func TestResolveComputesSubtotals(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var resolver PriceResolver
	quote, err := resolver.Resolve(db, []OrderItemInput{
		{
			ProductID: f.ProductA.ID,
			Quantity:  2,
			OptionIDs: []uint{f.OptCheese.ID, f.OptBacon.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)

	item := quote.Items[0]
	assert.Equal(t, "25.5", item.UnitPrice.String())
	assert.Equal(t, "3", item.OptionsPrice.String())
	// 2 * (25.50 + 3.00) = 57.00
	assert.Equal(t, "57", item.Subtotal.String())
	assert.Equal(t, "57", quote.Subtotal.String())
	assert.True(t, quote.Tax.IsZero())
	assert.True(t, quote.Discount.IsZero())
	assert.Equal(t, "57", quote.Total.String())
	require.Len(t, item.Options, 2)
	assert.Equal(t, "1.5", item.Options[0].AdditionalPrice.String())
}

func TestResolveSumsAcrossItems(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var resolver PriceResolver
	quote, err := resolver.Resolve(db, []OrderItemInput{
		{ProductID: f.ProductA.ID, Quantity: 1},
		{ProductID: f.ProductA.ID, Quantity: 3, OptionIDs: []uint{f.OptCheese.ID}},
	})
	require.NoError(t, err)

	// 25.50 + 3*(25.50+1.50) = 106.50
	assert.Equal(t, "106.5", quote.Subtotal.String())
}

func TestResolveRejectsMissingProduct(t *testing.T) {
	db := setupTestDB()
	seedCatalog(db)

	var resolver PriceResolver
	_, err := resolver.Resolve(db, []OrderItemInput{{ProductID: 999, Quantity: 1}})

	var validationErr *utils.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestResolveRejectsUnavailableProduct(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var resolver PriceResolver
	_, err := resolver.Resolve(db, []OrderItemInput{{ProductID: f.ProductSoup.ID, Quantity: 1}})

	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "not available")
}

func TestUnavailableFlagSurvivesCreate(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var stored models.Product
	require.NoError(t, db.First(&stored, f.ProductSoup.ID).Error)
	assert.False(t, stored.Available)
}

func TestResolveRejectsMissingOption(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var resolver PriceResolver
	_, err := resolver.Resolve(db, []OrderItemInput{
		{ProductID: f.ProductA.ID, Quantity: 1, OptionIDs: []uint{4242}},
	})

	var validationErr *utils.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestResolveRejectsForeignOption(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	// option belongs to ProductA, not to the soup
	db.Model(&f.ProductSoup).Update("available", true)

	var resolver PriceResolver
	_, err := resolver.Resolve(db, []OrderItemInput{
		{ProductID: f.ProductSoup.ID, Quantity: 1, OptionIDs: []uint{f.OptCheese.ID}},
	})
	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestResolveRejectsZeroQuantity(t *testing.T) {
	db := setupTestDB()
	f := seedCatalog(db)

	var resolver PriceResolver
	_, err := resolver.Resolve(db, []OrderItemInput{{ProductID: f.ProductA.ID, Quantity: 0}})

	var validationErr *utils.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
