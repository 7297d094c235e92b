package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"
)

// LineItemStore is one per-user item collection (cart or wishlist).
type LineItemStore interface {
	ListByUser(ctx context.Context, userID string) ([]*model.LineItem, error)
	Insert(ctx context.Context, item *model.LineItem) error
	UpdateQuantity(ctx context.Context, userID, lineItemID string, quantity int, addedAt time.Time) error
	Delete(ctx context.Context, userID, lineItemID string) error
}

type Outcome string

const (
	OutcomeAdded         Outcome = "added"
	OutcomeIncremented   Outcome = "incremented"
	OutcomeAlreadyExists Outcome = "already_exists"
)

type AddResult struct {
	Outcome Outcome
	Item    *model.LineItem
}

// CartService enforces the merge-by-identity rule: within one user's cart or
// wishlist, at most one line per (product, size) pair. The store has no
// uniqueness constraint; this is the only writer.
type CartService struct {
	cart     LineItemStore
	wishlist LineItemStore
	now      func() time.Time
	newID    func() string
}

func NewCartService(cart, wishlist LineItemStore) *CartService {
	return &CartService{
		cart:     cart,
		wishlist: wishlist,
		now:      time.Now,
		newID:    utils.GenerateLineItemID,
	}
}

// AddToCart adds or increments a line in the user's cart. Identical
// (product, size) pairs merge into a single line with summed quantity.
func (s *CartService) AddToCart(ctx context.Context, userID string, product *model.Product, selectedSize string, quantityDelta int) (*AddResult, error) {
	return s.addItem(ctx, s.cart, "cart", userID, product, selectedSize, quantityDelta)
}

// AddToWishlist adds a line to the user's wishlist. A duplicate identity is
// a no-op rather than an increment.
func (s *CartService) AddToWishlist(ctx context.Context, userID string, product *model.Product, selectedSize string) (*AddResult, error) {
	return s.addItem(ctx, s.wishlist, "wishlist", userID, product, selectedSize, 0)
}

func (s *CartService) addItem(ctx context.Context, store LineItemStore, collection, userID string, product *model.Product, selectedSize string, quantityDelta int) (*AddResult, error) {
	if product.RequiresSize() && selectedSize == "" {
		return nil, model.ErrSizeRequired()
	}
	if quantityDelta < 0 {
		return nil, &model.ValidationError{Field: "quantity", Reason: "quantity cannot be negative"}
	}

	items, err := store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	for _, existing := range items {
		if !existing.SameIdentity(product.ProductID, selectedSize) {
			continue
		}
		if collection == "wishlist" {
			utils.TrackCartOperation(collection, "duplicate")
			return &AddResult{Outcome: OutcomeAlreadyExists, Item: existing}, nil
		}

		existing.Quantity += quantityDelta
		existing.AddedAt = s.now()
		if err := store.UpdateQuantity(ctx, userID, existing.LineItemID, existing.Quantity, existing.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to merge cart line: %w", err)
		}
		utils.TrackCartOperation(collection, "merge")
		return &AddResult{Outcome: OutcomeIncremented, Item: existing}, nil
	}

	// New identity: capture a denormalized snapshot of the product at the
	// time of add so later edits do not change this line.
	item := &model.LineItem{
		LineItemID:   s.newID(),
		UserID:       userID,
		ProductID:    product.ProductID,
		GroupID:      product.GroupID,
		Name:         product.Name,
		Price:        product.Price,
		Image:        product.Image,
		SelectedSize: selectedSize,
		SizingType:   product.SizingType,
		Quantity:     quantityDelta,
		AddedAt:      s.now(),
	}
	if collection == "wishlist" {
		item.Quantity = 1
	}

	if err := store.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add %s line: %w", collection, err)
	}
	utils.TrackCartOperation(collection, "add")
	return &AddResult{Outcome: OutcomeAdded, Item: item}, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]*model.LineItem, error) {
	return s.cart.ListByUser(ctx, userID)
}

func (s *CartService) GetWishlist(ctx context.Context, userID string) ([]*model.LineItem, error) {
	return s.wishlist.ListByUser(ctx, userID)
}

// RemoveFromCart deletes by id; removing a non-existent id is not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, lineItemID string) error {
	utils.TrackCartOperation("cart", "remove")
	return s.cart.Delete(ctx, userID, lineItemID)
}

func (s *CartService) RemoveFromWishlist(ctx context.Context, userID, lineItemID string) error {
	utils.TrackCartOperation("wishlist", "remove")
	return s.wishlist.Delete(ctx, userID, lineItemID)
}

// MoveToCart adds the wishlist line to the cart, then removes it from the
// wishlist. If the add succeeds but the remove fails, the duplicate is left
// in place and surfaced; it is not silently retried.
func (s *CartService) MoveToCart(ctx context.Context, userID string, wishlistItem *model.LineItem) (*AddResult, error) {
	product := &model.Product{
		ProductID:  wishlistItem.ProductID,
		GroupID:    wishlistItem.GroupID,
		Name:       wishlistItem.Name,
		Price:      wishlistItem.Price,
		Image:      wishlistItem.Image,
		SizingType: wishlistItem.SizingType,
	}
	if wishlistItem.SelectedSize != "" {
		product.Sizes = []string{wishlistItem.SelectedSize}
	}

	result, err := s.addItem(ctx, s.cart, "cart", userID, product, wishlistItem.SelectedSize, 1)
	if err != nil {
		return nil, err
	}

	if err := s.wishlist.Delete(ctx, userID, wishlistItem.LineItemID); err != nil {
		log.Printf("Warning: move-to-cart left item %s in wishlist for user %s: %v",
			wishlistItem.LineItemID, userID, err)
		utils.TrackError("cart", "move_consistency_gap")
		return result, fmt.Errorf("%w: item added to cart but not removed from wishlist", model.ErrConsistencyGap)
	}

	utils.TrackCartOperation("wishlist", "move")
	return result, nil
}
