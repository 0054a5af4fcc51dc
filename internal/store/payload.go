package store

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// Gateway — срез конвейера, нужный хранилищам.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type cartItemPayload struct {
	ID          string    `json:"id"`
	VariantID   string    `json:"variant_id"`
	ProductName string    `json:"product_name"`
	VariantName string    `json:"variant_name"`
	Image       string    `json:"image"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	TotalPrice  string    `json:"total_price"`
	AddedAt     time.Time `json:"added_at"`
}

type cartPayload struct {
	Items         []cartItemPayload `json:"items"`
	TotalItems    int               `json:"total_items"`
	TotalPrice    string            `json:"total_price"`
	PromoCode     string            `json:"promo_code"`
	DiscountType  string            `json:"discount_type"`
	DiscountValue string            `json:"discount_value"`
}

func (p cartPayload) toDomain() domain.Cart {
	cart := domain.Cart{
		Items:         make([]domain.CartItem, 0, len(p.Items)),
		TotalItems:    p.TotalItems,
		TotalPrice:    p.TotalPrice,
		PromoCode:     p.PromoCode,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
	}
	for _, item := range p.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:          item.ID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Image:       item.Image,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			AddedAt:     item.AddedAt,
		})
	}
	return cart
}

type orderItemPayload struct {
	VariantID  string `json:"variant_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type contactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addressPayload struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zip     string `json:"zip"`
	Comment string `json:"comment,omitempty"`
}

type orderPayload struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	Status         string             `json:"status"`
	Contact        contactPayload     `json:"contact"`
	Address        addressPayload     `json:"address"`
	DeliveryMethod string             `json:"delivery_method"`
	Items          []orderItemPayload `json:"items"`
	Total          string             `json:"total"`
	CreatedAt      time.Time          `json:"created_at"`
}

func (p orderPayload) toDomain() domain.Order {
	order := domain.Order{
		ID:     p.ID,
		Number: p.Number,
		Status: domain.OrderStatus(p.Status),
		Contact: domain.Contact{
			Name:  p.Contact.Name,
			Email: p.Contact.Email,
			Phone: p.Contact.Phone,
		},
		Address: domain.Address{
			City:    p.Address.City,
			Street:  p.Address.Street,
			Zip:     p.Address.Zip,
			Comment: p.Address.Comment,
		},
		DeliveryMethod: p.DeliveryMethod,
		Items:          make([]domain.OrderItem, 0, len(p.Items)),
		Total:          p.Total,
		CreatedAt:      p.CreatedAt,
	}
	for _, item := range p.Items {
		order.Items = append(order.Items, domain.OrderItem{
			VariantID:  item.VariantID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return order
}

type orderListPayload struct {
	Orders  []orderPayload `json:"orders"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Total   int            `json:"total"`
}

func (p orderListPayload) toDomain() *domain.OrderPage {
	page := &domain.OrderPage{
		Orders:  make([]domain.Order, 0, len(p.Orders)),
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   p.Total,
	}
	for _, order := range p.Orders {
		page.Orders = append(page.Orders, order.toDomain())
	}
	return page
}
