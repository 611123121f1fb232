package product

import "time"

type Product struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PopularProduct carries the ranking count alongside the product row.
// TotalOrders counts order-item rows referencing the product, not units sold.
type PopularProduct struct {
	Product
	TotalOrders int
}
