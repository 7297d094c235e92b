package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anagroupsupplies/shop/model"
)

// fakeLineItemStore keeps lines in memory and counts writes.
type fakeLineItemStore struct {
	items     map[string]*model.LineItem
	writes    int
	deleteErr error
	insertErr error
}

func newFakeLineItemStore() *fakeLineItemStore {
	return &fakeLineItemStore{items: map[string]*model.LineItem{}}
}

func (f *fakeLineItemStore) ListByUser(ctx context.Context, userID string) ([]*model.LineItem, error) {
	var out []*model.LineItem
	for _, item := range f.items {
		if item.UserID == userID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLineItemStore) Insert(ctx context.Context, item *model.LineItem) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.writes++
	copied := *item
	f.items[item.LineItemID] = &copied
	return nil
}

func (f *fakeLineItemStore) UpdateQuantity(ctx context.Context, userID, lineItemID string, quantity int, addedAt time.Time) error {
	item, ok := f.items[lineItemID]
	if !ok || item.UserID != userID {
		return errors.New("line item not found")
	}
	f.writes++
	item.Quantity = quantity
	item.AddedAt = addedAt
	return nil
}

func (f *fakeLineItemStore) Delete(ctx context.Context, userID, lineItemID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.writes++
	delete(f.items, lineItemID)
	return nil
}

func newTestCartService() (*CartService, *fakeLineItemStore, *fakeLineItemStore) {
	cart := newFakeLineItemStore()
	wishlist := newFakeLineItemStore()
	svc := NewCartService(cart, wishlist)

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("line-%d", seq)
	}
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, cart, wishlist
}

func sizedProduct() *model.Product {
	return &model.Product{
		ProductID:  "p1",
		Name:       "Team Hoodie",
		Price:      1200,
		Image:      "hoodie.jpg",
		Sizes:      []string{"S", "M", "L"},
		SizingType: model.SizingClothing,
	}
}

func plainProduct() *model.Product {
	return &model.Product{
		ProductID:  "p2",
		Name:       "Water Bottle",
		Price:      15.5,
		SizingType: model.SizingNone,
	}
}

func TestAddToCartMergesSameIdentity(t *testing.T) {
	svc, cart, _ := newTestCartService()
	ctx := context.Background()

	deltas := []int{1, 2, 3}
	for i, delta := range deltas {
		result, err := svc.AddToCart(ctx, "u1", sizedProduct(), "M", delta)
		if err != nil {
			t.Fatalf("AddToCart #%d returned error: %v", i+1, err)
		}
		if i == 0 && result.Outcome != OutcomeAdded {
			t.Errorf("first add outcome = %s, want added", result.Outcome)
		}
		if i > 0 && result.Outcome != OutcomeIncremented {
			t.Errorf("add #%d outcome = %s, want incremented", i+1, result.Outcome)
		}
	}

	items, _ := cart.ListByUser(ctx, "u1")
	if len(items) != 1 {
		t.Fatalf("cart has %d lines, want exactly 1 per identity", len(items))
	}
	if items[0].Quantity != 6 {
		t.Errorf("merged quantity = %d, want sum of deltas 6", items[0].Quantity)
	}
}

func TestAddToCartDifferentSizesStaySeparate(t *testing.T) {
	svc, cart, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", sizedProduct(), "M", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddToCart(ctx, "u1", sizedProduct(), "L", 1); err != nil {
		t.Fatal(err)
	}

	items, _ := cart.ListByUser(ctx, "u1")
	if len(items) != 2 {
		t.Errorf("cart has %d lines, want 2 distinct (product, size) identities", len(items))
	}
}

func TestAddToCartRequiresSize(t *testing.T) {
	svc, cart, _ := newTestCartService()

	_, err := svc.AddToCart(context.Background(), "u1", sizedProduct(), "", 1)
	if err == nil {
		t.Fatal("expected size requirement rejection")
	}
	if !model.IsValidation(err) {
		t.Errorf("error type = %T, want ValidationError", err)
	}
	if cart.writes != 0 {
		t.Errorf("rejected add performed %d writes, want 0", cart.writes)
	}
}

func TestAddToCartUnsizedProductNeedsNoSize(t *testing.T) {
	svc, _, _ := newTestCartService()

	result, err := svc.AddToCart(context.Background(), "u1", plainProduct(), "", 1)
	if err != nil {
		t.Fatalf("AddToCart returned error: %v", err)
	}
	if result.Outcome != OutcomeAdded {
		t.Errorf("outcome = %s, want added", result.Outcome)
	}
}

func TestAddSnapshotIsDenormalized(t *testing.T) {
	svc, cart, _ := newTestCartService()
	ctx := context.Background()

	product := plainProduct()
	if _, err := svc.AddToCart(ctx, "u1", product, "", 1); err != nil {
		t.Fatal(err)
	}

	// A later product edit must not change the captured line.
	product.Name = "Renamed Bottle"
	product.Price = 99

	items, _ := cart.ListByUser(ctx, "u1")
	if items[0].Name != "Water Bottle" || items[0].Price != 15.5 {
		t.Errorf("line item = %q/%v, want snapshot Water Bottle/15.5", items[0].Name, items[0].Price)
	}
}

func TestAddToWishlistDuplicateIsNoOp(t *testing.T) {
	svc, _, wishlist := newTestCartService()
	ctx := context.Background()

	first, err := svc.AddToWishlist(ctx, "u1", sizedProduct(), "M")
	if err != nil {
		t.Fatal(err)
	}
	if first.Outcome != OutcomeAdded {
		t.Errorf("first wishlist add outcome = %s, want added", first.Outcome)
	}

	writesBefore := wishlist.writes
	second, err := svc.AddToWishlist(ctx, "u1", sizedProduct(), "M")
	if err != nil {
		t.Fatal(err)
	}
	if second.Outcome != OutcomeAlreadyExists {
		t.Errorf("duplicate wishlist add outcome = %s, want already_exists", second.Outcome)
	}
	if wishlist.writes != writesBefore {
		t.Errorf("duplicate wishlist add wrote to the store")
	}
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	svc, _, _ := newTestCartService()

	if err := svc.RemoveFromCart(context.Background(), "u1", "never-existed"); err != nil {
		t.Errorf("removing a non-existent line errored: %v", err)
	}
}

func TestMoveToCart(t *testing.T) {
	svc, cart, wishlist := newTestCartService()
	ctx := context.Background()

	// Legacy wishlist line whose stored price was the string "1200"; the
	// store boundary coerces it before it reaches the engine.
	added, err := svc.AddToWishlist(ctx, "u1", sizedProduct(), "M")
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.MoveToCart(ctx, "u1", added.Item)
	if err != nil {
		t.Fatalf("MoveToCart returned error: %v", err)
	}
	if result.Outcome != OutcomeAdded {
		t.Errorf("outcome = %s, want added", result.Outcome)
	}

	cartItems, _ := cart.ListByUser(ctx, "u1")
	if len(cartItems) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(cartItems))
	}
	if cartItems[0].Quantity != 1 || cartItems[0].Price != 1200 {
		t.Errorf("moved line = qty %d price %v, want qty 1 price 1200",
			cartItems[0].Quantity, cartItems[0].Price)
	}

	wishlistItems, _ := wishlist.ListByUser(ctx, "u1")
	if len(wishlistItems) != 0 {
		t.Errorf("wishlist still has %d lines after move, want 0", len(wishlistItems))
	}
}

func TestMoveToCartSurfacesConsistencyGap(t *testing.T) {
	svc, cart, wishlist := newTestCartService()
	ctx := context.Background()

	added, err := svc.AddToWishlist(ctx, "u1", sizedProduct(), "M")
	if err != nil {
		t.Fatal(err)
	}

	wishlist.deleteErr = errors.New("write rejected")

	result, err := svc.MoveToCart(ctx, "u1", added.Item)
	if !errors.Is(err, model.ErrConsistencyGap) {
		t.Fatalf("error = %v, want consistency gap", err)
	}
	if result == nil || result.Outcome != OutcomeAdded {
		t.Error("cart add result should still be reported alongside the gap")
	}

	// The accepted inconsistency: the line exists in both collections.
	cartItems, _ := cart.ListByUser(ctx, "u1")
	wishlistItems, _ := wishlist.ListByUser(ctx, "u1")
	if len(cartItems) != 1 || len(wishlistItems) != 1 {
		t.Errorf("after gap: cart %d lines, wishlist %d lines, want 1 and 1",
			len(cartItems), len(wishlistItems))
	}
}
