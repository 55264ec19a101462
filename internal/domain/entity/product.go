package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable catalog item priced per base unit
type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`

	Name   string          `gorm:"size:255;not null" json:"name"`
	Slug   string          `gorm:"size:255;unique;not null" json:"slug"`
	Unit   string          `gorm:"size:50;not null" json:"unit"` // kg, L, unidad
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Active bool            `gorm:"default:true;index" json:"active"`

	ImageURL    *string `gorm:"size:255" json:"image_url,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Presentations []Presentation `gorm:"foreignKey:ProductID" json:"presentations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Presentation is an alternate sellable packaging of a product (e.g. a 5kg
// bag) with its own price, distinct from the product's base unit price.
type Presentation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	Name      string          `gorm:"size:255;not null" json:"name"`
	Unit      string          `gorm:"size:50;not null" json:"unit"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	SortOrder int             `gorm:"default:0" json:"sort_order"`
	Active    bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new presentation
func (p *Presentation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Presentation model
func (Presentation) TableName() string {
	return "presentations"
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
