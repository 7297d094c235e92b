package model

import "time"

// LineItem is a cart or wishlist entry. Product name, price and image are a
// denormalized snapshot from the time of add, so later product edits do not
// retroactively change the line.
type LineItem struct {
	LineItemID   string     `bson:"_id,omitempty" json:"id"`
	UserID       string     `bson:"user_id" json:"user_id"`
	ProductID    string     `bson:"product_id" json:"product_id"`
	GroupID      string     `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Name         string     `bson:"name" json:"name"`
	Price        float64    `bson:"price" json:"price"`
	Image        string     `bson:"image,omitempty" json:"image,omitempty"`
	SelectedSize string     `bson:"selected_size,omitempty" json:"selected_size,omitempty"`
	SizingType   SizingType `bson:"sizing_type,omitempty" json:"sizing_type,omitempty"`
	Quantity     int        `bson:"quantity" json:"quantity"`
	AddedAt      time.Time  `bson:"added_at" json:"added_at"`
}

// SameIdentity reports whether two lines refer to the same (product, size)
// pair. At most one line per identity may exist in a user's collection; the
// merge rule in usecase enforces this, not a database constraint.
func (li *LineItem) SameIdentity(productID, selectedSize string) bool {
	return li.ProductID == productID && li.SelectedSize == selectedSize
}
