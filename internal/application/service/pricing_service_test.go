package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestProduct(name, price string) *entity.Product {
	return &entity.Product{
		ID:     uuid.New(),
		Name:   name,
		Slug:   name,
		Unit:   "unidad",
		Price:  dec(price),
		Active: true,
	}
}

func TestPriceItems_ComputesTotals(t *testing.T) {
	apple := newTestProduct("Apple", "2.50")
	milk := newTestProduct("Milk", "3.80")
	svc := NewPricingService(newFakeProductRepo(apple, milk))

	result, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: apple.ID, Quantity: dec("2")},
		{ProductID: milk.ID, Quantity: dec("1")},
	})

	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.True(t, result.Subtotal.Equal(dec("8.80")), "subtotal = %s", result.Subtotal)
	assert.True(t, result.Tax.Equal(dec("1.58")), "tax = %s", result.Tax)
	assert.True(t, result.Total.Equal(dec("10.38")), "total = %s", result.Total)
}

func TestPriceItems_FractionalQuantity(t *testing.T) {
	rice := newTestProduct("Arroz", "4.20")
	rice.Unit = "kg"
	svc := NewPricingService(newFakeProductRepo(rice))

	result, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: rice.ID, Quantity: dec("1.5")},
	})

	require.NoError(t, err)
	assert.True(t, result.Items[0].Total.Equal(dec("6.30")))
	assert.True(t, result.Subtotal.Equal(dec("6.30")))
}

func TestPriceItems_RoundsLineTotals(t *testing.T) {
	p := newTestProduct("Queso", "3.33")
	svc := NewPricingService(newFakeProductRepo(p))

	result, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: p.ID, Quantity: dec("0.333")},
	})

	require.NoError(t, err)
	// 3.33 * 0.333 = 1.10889, rounded half-up to 1.11
	assert.True(t, result.Items[0].Total.Equal(dec("1.11")), "line total = %s", result.Items[0].Total)
}

func TestPriceItems_UsesPresentationPrice(t *testing.T) {
	rice := newTestProduct("Arroz", "4.20")
	bag := entity.Presentation{
		ID:        uuid.New(),
		ProductID: rice.ID,
		Name:      "Bolsa 5kg",
		Unit:      "bolsa",
		Price:     dec("19.90"),
		Active:    true,
	}
	rice.Presentations = []entity.Presentation{bag}
	svc := NewPricingService(newFakeProductRepo(rice))

	result, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: rice.ID, PresentationID: &bag.ID, Quantity: dec("2")},
	})

	require.NoError(t, err)
	assert.True(t, result.Items[0].UnitPrice.Equal(dec("19.90")))
	assert.True(t, result.Subtotal.Equal(dec("39.80")))
	require.NotNil(t, result.Items[0].PresentationName)
	assert.Equal(t, "Bolsa 5kg", *result.Items[0].PresentationName)
}

func TestPriceItems_UnknownProduct(t *testing.T) {
	svc := NewPricingService(newFakeProductRepo())

	_, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: uuid.New(), Quantity: dec("1")},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestPriceItems_InactiveProduct(t *testing.T) {
	p := newTestProduct("Palta", "7.00")
	p.Active = false
	svc := NewPricingService(newFakeProductRepo(p))

	_, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: p.ID, Quantity: dec("1")},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestPriceItems_InactivePresentation(t *testing.T) {
	rice := newTestProduct("Arroz", "4.20")
	bag := entity.Presentation{ID: uuid.New(), ProductID: rice.ID, Name: "Bolsa 5kg", Price: dec("19.90"), Active: false}
	rice.Presentations = []entity.Presentation{bag}
	svc := NewPricingService(newFakeProductRepo(rice))

	_, err := svc.PriceItems(context.Background(), []PriceItemInput{
		{ProductID: rice.ID, PresentationID: &bag.ID, Quantity: dec("1")},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestPriceItems_RejectsNonPositiveQuantity(t *testing.T) {
	p := newTestProduct("Apple", "2.50")
	svc := NewPricingService(newFakeProductRepo(p))

	for _, qty := range []string{"0", "-1"} {
		_, err := svc.PriceItems(context.Background(), []PriceItemInput{
			{ProductID: p.ID, Quantity: dec(qty)},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput), "quantity %s", qty)
	}
}

func TestPriceItems_EmptyInput(t *testing.T) {
	svc := NewPricingService(newFakeProductRepo())

	_, err := svc.PriceItems(context.Background(), nil)

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}
