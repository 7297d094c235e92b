package handler

import (
	"log"
	"strconv"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/repository"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *usecase.ProductService
}

func NewProductHandler(products *usecase.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts serves the browse page. Supports ?category=, ?search=,
// ?max_price= and ?sort=price_asc|price_desc|name.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("max_price"); raw != "" {
		if maxPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = maxPrice
		}
	}

	products, err := h.products.ListProducts(c.Request.Context(), filter, c.Query("sort"))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		utils.InternalError(c, "Failed to list products")
		return
	}

	utils.Success(c, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("Error fetching product %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to fetch product")
		return
	}
	if product == nil {
		utils.NotFound(c, "Product not found")
		return
	}
	utils.Success(c, gin.H{"product": product})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.products.ListCategories(c.Request.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		utils.InternalError(c, "Failed to list categories")
		return
	}
	utils.Success(c, gin.H{"categories": categories})
}

// Admin operations below.

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product model.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if product.Price < 0 {
		utils.BadRequest(c, "Price cannot be negative")
		return
	}

	if err := h.products.CreateProduct(c.Request.Context(), &product); err != nil {
		log.Printf("Error creating product: %v", err)
		utils.InternalError(c, "Failed to create product")
		return
	}

	utils.Created(c, gin.H{"product": product})
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var category model.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if category.Name == "" {
		utils.BadRequest(c, "Category name is required")
		return
	}

	if err := h.products.CreateCategory(c.Request.Context(), &category); err != nil {
		log.Printf("Error creating category: %v", err)
		utils.InternalError(c, "Failed to create category")
		return
	}

	utils.Created(c, gin.H{"category": category})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var updates model.Product
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), &updates); err != nil {
		if err.Error() == "product not found" {
			utils.NotFound(c, "Product not found")
			return
		}
		log.Printf("Error updating product %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to update product")
		return
	}

	utils.Success(c, gin.H{"updated": c.Param("id")})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if err.Error() == "product not found" {
			utils.NotFound(c, "Product not found")
			return
		}
		log.Printf("Error deleting product %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to delete product")
		return
	}

	utils.Success(c, gin.H{"deleted": c.Param("id")})
}
