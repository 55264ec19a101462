package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/application/service"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/request"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/response"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog product HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search: c.Query("search"),
		// Customers only see active products; admins may ask for everything
		ActiveOnly: !IsAdmin(c) || c.Query("include_inactive") != "true",
	}
	params.Pagination.Validate()

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			params.CategoryID = &categoryID
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Get handles retrieving a single product by slug
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.BadRequest(c, "Invalid price")
		return
	}

	input := &service.CreateProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateProductInput{
		Slug:        c.Param("slug"),
		Name:        req.Name,
		Unit:        req.Unit,
		Active:      req.Active,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			response.BadRequest(c, "Invalid price")
			return
		}
		input.Price = &price
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// CreatePresentation handles adding a presentation to a product
func (h *ProductHandler) CreatePresentation(c *gin.Context) {
	var req request.CreatePresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.BadRequest(c, "Invalid price")
		return
	}

	presentation, err := h.productService.CreatePresentation(c.Request.Context(), &service.CreatePresentationInput{
		ProductSlug: c.Param("slug"),
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       price,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Presentation created successfully", presentation)
}

// UpdatePresentation handles updating a presentation
func (h *ProductHandler) UpdatePresentation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid presentation ID")
		return
	}

	var req request.UpdatePresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdatePresentationInput{
		ID:        id,
		Name:      req.Name,
		Unit:      req.Unit,
		SortOrder: req.SortOrder,
		Active:    req.Active,
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			response.BadRequest(c, "Invalid price")
			return
		}
		input.Price = &price
	}

	presentation, err := h.productService.UpdatePresentation(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Presentation updated successfully", presentation)
}

// DeletePresentation handles removing a presentation
func (h *ProductHandler) DeletePresentation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid presentation ID")
		return
	}

	if err := h.productService.DeletePresentation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Presentation deleted successfully", nil)
}
