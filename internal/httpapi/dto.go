package httpapi

import (
	"time"

	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

type PurchaseResponse struct {
	ID                uint                   `json:"id"`
	Status            string                 `json:"status"`
	CustomerFirstName string                 `json:"customerFirstName"`
	CustomerLastName  string                 `json:"customerLastName"`
	TotalAmount       float64                `json:"totalAmount"`
	CreatedAt         time.Time              `json:"createdAt"`
	Products          []user.PurchaseProduct `json:"products"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

type PopularProductResponse struct {
	ProductResponse
	TotalOrders int `json:"total_orders"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"order_id"`
	ProductID   uint    `json:"product_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

type OrderResponse struct {
	ID                uint                `json:"id"`
	UserID            uint                `json:"user_id"`
	Status            string              `json:"status"`
	CustomerFirstName string              `json:"customer_first_name"`
	CustomerLastName  string              `json:"customer_last_name"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerAddress   string              `json:"customer_address"`
	PaymentMethod     string              `json:"payment_method"`
	TotalAmount       float64             `json:"total_amount"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Items             []OrderItemResponse `json:"items"`
}

func toOrderResponse(d *order.Detail) OrderResponse {
	items := make([]OrderItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Name:        it.Name,
			Description: it.Description,
		}
	}
	return OrderResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		Status:            string(d.Status),
		CustomerFirstName: d.CustomerFirstName,
		CustomerLastName:  d.CustomerLastName,
		CustomerEmail:     d.CustomerEmail,
		CustomerAddress:   d.CustomerAddress,
		PaymentMethod:     d.PaymentMethod,
		TotalAmount:       d.TotalAmount,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Items:             items,
	}
}

func toOrderResponses(details []order.Detail) []OrderResponse {
	out := make([]OrderResponse, len(details))
	for i := range details {
		out[i] = toOrderResponse(&details[i])
	}
	return out
}
