package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/repository"
)

type ProductService struct {
	ProductRepo  *repository.ProductRepo
	CategoryRepo *repository.CategoryRepo
}

func NewProductService(products *repository.ProductRepo, categories *repository.CategoryRepo) *ProductService {
	return &ProductService{ProductRepo: products, CategoryRepo: categories}
}

// ListProducts returns products matching the filter, ordered for the browse
// page. Sorting happens client-side of the store, the same way the rest of
// the listing logic does.
func (svc *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter, sortBy string) ([]*model.Product, error) {
	products, err := svc.ProductRepo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	SortProducts(products, sortBy)
	return products, nil
}

// SortProducts orders a product slice in place. Unknown sort keys keep the
// repository's newest-first order.
func SortProducts(products []*model.Product, sortBy string) {
	switch strings.ToLower(sortBy) {
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case "name":
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}

func (svc *ProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return svc.ProductRepo.GetProduct(ctx, productID)
}

func (svc *ProductService) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.SizingType == "" {
		product.SizingType = model.SizingNone
	}
	return svc.ProductRepo.CreateProduct(ctx, product)
}

func (svc *ProductService) UpdateProduct(ctx context.Context, productID string, updates *model.Product) error {
	return svc.ProductRepo.UpdateProduct(ctx, productID, updates)
}

func (svc *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	return svc.ProductRepo.DeleteProduct(ctx, productID)
}

func (svc *ProductService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return svc.CategoryRepo.ListCategories(ctx)
}

func (svc *ProductService) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.Slug == "" {
		category.Slug = strings.ToLower(strings.ReplaceAll(category.Name, " ", "-"))
	}
	return svc.CategoryRepo.CreateCategory(ctx, category)
}
