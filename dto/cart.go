package dto

import (
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/usecase"
)

type AddItemRequest struct {
	ProductID    string `json:"product_id" binding:"required"`
	SelectedSize string `json:"selected_size"`
	Quantity     int    `json:"quantity"`
}

type MoveToCartRequest struct {
	LineItemID string `json:"line_item_id" binding:"required"`
}

type LineItemResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
	SelectedSize string  `json:"selected_size,omitempty"`
	Quantity     int     `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

type AddItemResponse struct {
	Outcome usecase.Outcome  `json:"outcome"`
	Item    LineItemResponse `json:"item"`
}

func ToLineItemResponse(item *model.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:           item.LineItemID,
		ProductID:    item.ProductID,
		Name:         item.Name,
		Price:        item.Price,
		Image:        item.Image,
		SelectedSize: item.SelectedSize,
		Quantity:     item.Quantity,
		AddedAt:      item.AddedAt,
	}
}

func ToLineItemResponses(items []*model.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToLineItemResponse(item)
	}
	return responses
}
