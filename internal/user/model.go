package user

import "time"

type User struct {
	ID           uint
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseProduct is one line of a historical purchase: name is joined from
// the current product row, unit price is the snapshot taken at order time.
type PurchaseProduct struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type Purchase struct {
	ID                uint
	Status            string
	CustomerFirstName string
	CustomerLastName  string
	TotalAmount       float64
	CreatedAt         time.Time
	Products          []PurchaseProduct
}

type UserWithPurchases struct {
	User      User
	Purchases []Purchase
}
