package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax applied to every order subtotal
var TaxRate = decimal.RequireFromString("0.18")

// PricingService resolves unit prices and computes order totals.
// It never writes; pricing is a pure function over the current catalog.
type PricingService struct {
	productRepo repository.ProductRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(productRepo repository.ProductRepository) *PricingService {
	return &PricingService{productRepo: productRepo}
}

// PriceItemInput is one requested line: a product, an optional presentation
// and a quantity (fractional quantities such as 1.5 kg are allowed)
type PriceItemInput struct {
	ProductID      uuid.UUID
	PresentationID *uuid.UUID
	Quantity       decimal.Decimal
}

// PricingResult holds the priced lines and the order totals
type PricingResult struct {
	Items    []entity.OrderItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PriceItems resolves every requested line against the catalog and computes
// subtotal, tax and total, all rounded to 2 decimal places
func (s *PricingService) PriceItems(ctx context.Context, inputs []PriceItemInput) (*PricingResult, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewBadRequestError("Order must contain at least one item")
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(inputs))
	for i, input := range inputs {
		productIDs[i] = input.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	subtotal := decimal.Zero
	items := make([]entity.OrderItem, 0, len(inputs))

	for _, input := range inputs {
		product, exists := productMap[input.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", input.ProductID))
		}
		if !product.Active {
			return nil, apperror.NewInvalidStateError(fmt.Sprintf("Product %s is not available", product.Name))
		}
		if !input.Quantity.IsPositive() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid quantity for product %s", product.Name))
		}

		item := entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    input.Quantity,
		}

		if input.PresentationID != nil {
			presentation := findPresentation(product, *input.PresentationID)
			if presentation == nil {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Presentation %s for product %s", input.PresentationID, product.Name))
			}
			item.PresentationID = &presentation.ID
			item.PresentationName = &presentation.Name
			item.PresentationUnit = &presentation.Unit
			item.UnitPrice = presentation.Price
		}

		item.Total = item.UnitPrice.Mul(item.Quantity).Round(2)
		subtotal = subtotal.Add(item.Total)
		items = append(items, item)
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	return &PricingResult{
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

func findPresentation(product *entity.Product, id uuid.UUID) *entity.Presentation {
	for i := range product.Presentations {
		if product.Presentations[i].ID == id && product.Presentations[i].Active {
			return &product.Presentations[i]
		}
	}
	return nil
}
