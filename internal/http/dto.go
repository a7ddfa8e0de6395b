package http

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/slerbakk/storefront/internal/domain"
)

type ProductDTO struct {
	domain.Product
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	Discounted     bool            `json:"discounted"`
}

type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Count    int          `json:"count"`
}

type LineItemDTO struct {
	ProductID      string          `json:"product_id"`
	Title          string          `json:"title"`
	Image          domain.Image    `json:"image"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Quantity       int             `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items      []LineItemDTO   `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type ToastDTO struct {
	ID         int64           `json:"id"`
	Message    string          `json:"message"`
	Category   domain.Category `json:"category"`
	DurationMS int64           `json:"duration_ms"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ToastsResponse struct {
	Toasts []ToastDTO `json:"toasts"`
}

type OrderResponse struct {
	Order  *domain.Order `json:"order"`
	Toasts []ToastDTO    `json:"toasts"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		Product:        p,
		EffectivePrice: p.EffectivePrice(),
		Discounted:     p.IsDiscounted(),
	}
}

func toProductsResponse(products []domain.Product) ProductsResponse {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return ProductsResponse{Products: dtos, Count: len(dtos)}
}

func toCartResponse(items []domain.LineItem, count int, total decimal.Decimal) CartResponse {
	dtos := make([]LineItemDTO, len(items))
	for i, li := range items {
		dtos[i] = LineItemDTO{
			ProductID:      li.ID,
			Title:          li.Title,
			Image:          li.Image,
			Price:          li.Price,
			EffectivePrice: li.EffectivePrice(),
			Quantity:       li.Quantity,
			Subtotal:       li.Subtotal(),
		}
	}
	return CartResponse{Items: dtos, TotalItems: count, TotalPrice: total}
}

func toToastDTOs(toasts []domain.Toast) []ToastDTO {
	dtos := make([]ToastDTO, len(toasts))
	for i, t := range toasts {
		dtos[i] = ToastDTO{
			ID:         t.ID,
			Message:    t.Message,
			Category:   t.Category,
			DurationMS: t.Duration.Milliseconds(),
			CreatedAt:  t.CreatedAt,
		}
	}
	return dtos
}
