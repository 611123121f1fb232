package order

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusComplete
}

// Order is a checkout transaction. The customer fields and TotalAmount are
// snapshots taken at checkout time; they are never recomputed afterward.
type Order struct {
	ID                uint
	UserID            uint
	Status            Status
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerAddress   string
	PaymentMethod     string
	TotalAmount       float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Item pairs an order with a product. UnitPrice is the price snapshot taken
// at order time; Name and Description are joined from the current product
// row on read, so a later product edit changes how old orders display.
type Item struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	Quantity    int
	UnitPrice   float64
	Name        string
	Description string
}

type Detail struct {
	Order
	Items []Item
}

// CartItem is a (product, quantity) pair submitted at checkout, before
// price resolution. Any caller-supplied price is ignored.
type CartItem struct {
	ProductID uint
	Quantity  int
}

// Customer holds the delivery/contact details for one purchase, captured
// independently of the account profile.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Address   string
}
