package handler

import (
	"errors"
	"log"

	"github.com/anagroupsupplies/shop/dto"
	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts    *usecase.CartService
	products *usecase.ProductService
}

func NewCartHandler(carts *usecase.CartService, products *usecase.ProductService) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	items, err := h.carts.GetCart(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching cart for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch cart")
		return
	}

	utils.Success(c, gin.H{"items": dto.ToLineItemResponses(items)})
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		log.Printf("Error loading product %s: %v", req.ProductID, err)
		utils.InternalError(c, "Failed to load product")
		return
	}
	if product == nil {
		utils.NotFound(c, "Product not found")
		return
	}

	result, err := h.carts.AddToCart(c.Request.Context(), userID.(string), product, req.SelectedSize, req.Quantity)
	if err != nil {
		if model.IsValidation(err) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error adding to cart: %v", err)
		utils.InternalError(c, "Failed to add item to cart")
		return
	}

	utils.Success(c, dto.AddItemResponse{
		Outcome: result.Outcome,
		Item:    dto.ToLineItemResponse(result.Item),
	})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := h.carts.RemoveFromCart(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		log.Printf("Error removing cart line: %v", err)
		utils.InternalError(c, "Failed to remove item")
		return
	}

	utils.Success(c, gin.H{"removed": c.Param("id")})
}

func (h *CartHandler) GetWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	items, err := h.carts.GetWishlist(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching wishlist for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch wishlist")
		return
	}

	utils.Success(c, gin.H{"items": dto.ToLineItemResponses(items)})
}

func (h *CartHandler) AddToWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		log.Printf("Error loading product %s: %v", req.ProductID, err)
		utils.InternalError(c, "Failed to load product")
		return
	}
	if product == nil {
		utils.NotFound(c, "Product not found")
		return
	}

	result, err := h.carts.AddToWishlist(c.Request.Context(), userID.(string), product, req.SelectedSize)
	if err != nil {
		if model.IsValidation(err) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error adding to wishlist: %v", err)
		utils.InternalError(c, "Failed to add item to wishlist")
		return
	}

	utils.Success(c, dto.AddItemResponse{
		Outcome: result.Outcome,
		Item:    dto.ToLineItemResponse(result.Item),
	})
}

func (h *CartHandler) RemoveFromWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := h.carts.RemoveFromWishlist(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		log.Printf("Error removing wishlist line: %v", err)
		utils.InternalError(c, "Failed to remove item")
		return
	}

	utils.Success(c, gin.H{"removed": c.Param("id")})
}

// MoveToCart moves one wishlist line into the cart. A consistency gap (added
// to cart, stuck in wishlist) is reported to the user, not retried.
func (h *CartHandler) MoveToCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req dto.MoveToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items, err := h.carts.GetWishlist(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching wishlist for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch wishlist")
		return
	}

	var wishlistItem *model.LineItem
	for _, item := range items {
		if item.LineItemID == req.LineItemID {
			wishlistItem = item
			break
		}
	}
	if wishlistItem == nil {
		utils.NotFound(c, "Wishlist item not found")
		return
	}

	result, err := h.carts.MoveToCart(c.Request.Context(), userID.(string), wishlistItem)
	if err != nil {
		if errors.Is(err, model.ErrConsistencyGap) {
			utils.Conflict(c, "Item was added to your cart but could not be removed from the wishlist; please remove it manually")
			return
		}
		if model.IsValidation(err) {
			utils.BadRequest(c, err.Error())
			return
		}
		log.Printf("Error moving item to cart: %v", err)
		utils.InternalError(c, "Failed to move item to cart")
		return
	}

	utils.Success(c, dto.AddItemResponse{
		Outcome: result.Outcome,
		Item:    dto.ToLineItemResponse(result.Item),
	})
}
