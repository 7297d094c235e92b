package handler

import (
	"log"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/repository"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *repository.OrderRepo
	carts  *usecase.CartService
}

func NewOrderHandler(orders *repository.OrderRepo, carts *usecase.CartService) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

// PlaceOrder turns the user's cart into a pending order. The order captures
// the cart's denormalized line snapshots; the cart is cleared afterwards,
// best effort.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
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
	if len(items) == 0 {
		utils.BadRequest(c, "Cart is empty")
		return
	}

	var total float64
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    item.ProductID,
			Name:         item.Name,
			Price:        item.Price,
			SelectedSize: item.SelectedSize,
			Quantity:     item.Quantity,
		})
		total += item.Price * float64(item.Quantity)
	}

	order := &model.Order{
		OrderID: utils.GenerateOrderID(),
		UserID:  userID.(string),
		Items:   orderItems,
		Status:  model.OrderPending,
		Total:   total,
	}

	if err := h.orders.CreateOrder(c.Request.Context(), order); err != nil {
		log.Printf("Error creating order for %s: %v", userID, err)
		utils.InternalError(c, "Failed to place order")
		return
	}

	for _, item := range items {
		if err := h.carts.RemoveFromCart(c.Request.Context(), userID.(string), item.LineItemID); err != nil {
			log.Printf("Warning: cart line %s not cleared after order %s: %v",
				item.LineItemID, order.OrderID, err)
		}
	}

	utils.Created(c, gin.H{"order": order})
}

// GetMyOrders serves the order tracking page for the authenticated user.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching orders for %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch orders")
		return
	}

	utils.Success(c, gin.H{"orders": orders})
}

// UpdateOrderStatus is the admin order management operation.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status model.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	switch req.Status {
	case model.OrderPending, model.OrderProcessing, model.OrderShipped,
		model.OrderDelivered, model.OrderCancelled:
	default:
		utils.BadRequest(c, "Unknown order status")
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if err.Error() == "order not found" {
			utils.NotFound(c, "Order not found")
			return
		}
		log.Printf("Error updating order %s: %v", c.Param("id"), err)
		utils.InternalError(c, "Failed to update order")
		return
	}

	utils.Success(c, gin.H{"updated": c.Param("id"), "status": req.Status})
}
