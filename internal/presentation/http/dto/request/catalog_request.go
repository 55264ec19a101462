package request

// CreateProductRequest represents the create product request body
type CreateProductRequest struct {
	CategoryID  *string `json:"category_id"`
	Name        string  `json:"name" binding:"required"`
	Unit        string  `json:"unit" binding:"required"`
	Price       string  `json:"price" binding:"required"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// UpdateProductRequest represents the update product request body
type UpdateProductRequest struct {
	CategoryID  *string `json:"category_id"`
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	Price       *string `json:"price"`
	Active      *bool   `json:"active"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// CreatePresentationRequest represents the create presentation request body
type CreatePresentationRequest struct {
	Name      string `json:"name" binding:"required"`
	Unit      string `json:"unit"`
	Price     string `json:"price" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// UpdatePresentationRequest represents the update presentation request body
type UpdatePresentationRequest struct {
	Name      *string `json:"name"`
	Unit      *string `json:"unit"`
	Price     *string `json:"price"`
	SortOrder *int    `json:"sort_order"`
	Active    *bool   `json:"active"`
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryRequest represents the update category request body
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}
