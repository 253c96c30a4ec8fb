package store

// Product as stored in the products collection. Items are kept in
// ascending item_id order.
type Product struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ItemsLeft        int64  `json:"items_left"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	ManufacturedDate string `json:"manufactured_date,omitempty"`
	Items            []Item `json:"items"`
}

type Item struct {
	ItemID     int64  `json:"item_id"`
	ExpiryDate string `json:"expiry_date"`
}

type Image struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type Review struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	CustomerID int64   `json:"customer_id"`
	Images     []int64 `json:"images"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
	CreatedAt  string  `json:"created_at"`
}

type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	CreditCard  string `json:"credit_card"`
	Country     string `json:"country"`
}

// NewItem is the caller-supplied payload for AddItem.
type NewItem struct {
	ID         int64  `json:"id"`
	ExpiryDate string `json:"expiry_date"`
}

// ProductView is the review-enriched product returned to callers. The
// product-level expiry_date and manufactured_date are dropped from the
// view, they are irrelevant to review display.
type ProductView struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ItemsLeft   int64        `json:"items_left"`
	Items       []Item       `json:"items"`
	Reviews     []ReviewView `json:"reviews"`
}

// ReviewView is a review prepared for display: the product_id foreign key
// is dropped, image ids are resolved to Image records (an unresolved id
// stays a null slot at its original position) and the customer is
// replaced by its redacted view. Customer is omitted entirely when the
// customer_id has no match.
type ReviewView struct {
	ID        int64         `json:"id"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	CreatedAt string        `json:"created_at"`
	Customer  *CustomerView `json:"customer,omitempty"`
	Images    []*Image      `json:"images"`
}

// CustomerView carries the redacted customer fields: phone_number is
// base64-encoded, credit_card and country are absent by construction.
type CustomerView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}
