package model

import "time"

type SizingType string

const (
	SizingNone     SizingType = "none"
	SizingClothing SizingType = "clothing"
	SizingShoes    SizingType = "shoes"
)

type Product struct {
	ProductID   string     `bson:"_id,omitempty" json:"id"`
	GroupID     string     `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Name        string     `bson:"name" json:"name" validate:"required"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64    `bson:"price" json:"price"`
	Image       string     `bson:"image,omitempty" json:"image,omitempty"`
	Category    string     `bson:"category" json:"category"`
	Sizes       []string   `bson:"sizes,omitempty" json:"sizes,omitempty"`
	SizingType  SizingType `bson:"sizing_type,omitempty" json:"sizing_type,omitempty"`
	Stock       int        `bson:"stock" json:"stock"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// RequiresSize reports whether an add-to-cart for this product must carry a
// selected size.
func (p *Product) RequiresSize() bool {
	return len(p.Sizes) > 0
}

type Category struct {
	CategoryID string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name" validate:"required"`
	Slug       string    `bson:"slug" json:"slug"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
