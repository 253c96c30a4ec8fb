package store

import (
	"context"
	"encoding/base64"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Store implements the product view assembly and the two item
// mutations on top of a RecordSource. It never writes through to the
// source's records, every result is built copy-on-read.
type Store struct {
	source RecordSource
}

func New(source RecordSource) *Store {
	return &Store{source: source}
}

// ProductView assembles the denormalized, review-enriched view of one
// product. Reviews are filtered to the product, redacted per review,
// and sorted by created_at descending with a stable tie-break on
// collection order. Missing customer or image references degrade
// gracefully and are never errors.
func (s *Store) ProductView(ctx context.Context, productID int64) (*ProductView, error) {
	if productID <= 0 {
		return nil, ErrInvalidProductID
	}

	// The four fetches are independent, run them as a fan-out with a
	// barrier: one failure fails the whole assembly.
	var (
		products  []Product
		images    []Image
		reviews   []Review
		customers []Customer
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.source.Products(ctx)
		return err
	})
	g.Go(func() (err error) {
		images, err = s.source.Images(ctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = s.source.Reviews(ctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.source.Customers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	product := findProduct(products, productID)
	if product == nil {
		return nil, ErrProductNotFound
	}

	imageByID := indexByID(images, func(im Image) int64 { return im.ID })
	customerByID := indexByID(customers, func(c Customer) int64 { return c.ID })

	view := &ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		ItemsLeft:   product.ItemsLeft,
		Items:       append([]Item(nil), product.Items...),
		Reviews:     []ReviewView{},
	}

	for _, review := range reviews {
		if review.ProductID != productID {
			continue
		}
		view.Reviews = append(view.Reviews, buildReviewView(review, imageByID, customerByID))
	}

	sort.SliceStable(view.Reviews, func(i, j int) bool {
		return createdAtMillis(view.Reviews[i].CreatedAt) > createdAtMillis(view.Reviews[j].CreatedAt)
	})

	return view, nil
}

// UpdateItemExpiry locates an item by id across all products and sets
// its expiry date. The returned product is a copy of the owner whose
// Items holds only the updated item; the stored collection is left
// untouched.
func (s *Store) UpdateItemExpiry(ctx context.Context, itemID int64, expiryDate string) (*Product, error) {
	if itemID <= 0 {
		return nil, ErrInvalidItemID
	}
	if _, err := parseTimestamp(expiryDate); err != nil {
		return nil, ErrInvalidExpiryDate
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	// First product whose items contain the id wins, the inner scan
	// stops at the match.
	for _, product := range products {
		for _, item := range product.Items {
			if item.ItemID != itemID {
				continue
			}
			updated := product
			updated.Items = []Item{{ItemID: itemID, ExpiryDate: expiryDate}}
			return &updated, nil
		}
	}
	return nil, ErrItemNotFound
}

// AddItem validates and inserts a new item into a product's item
// collection, keeping the ascending item_id order and bumping
// items_left. The returned product is a copy, the stored collection is
// left untouched.
func (s *Store) AddItem(ctx context.Context, productID int64, item NewItem) (*Product, error) {
	if productID <= 0 {
		return nil, ErrInvalidProductID
	}
	if item.ID <= 0 {
		return nil, ErrInvalidItem
	}
	expiry, err := parseTimestamp(item.ExpiryDate)
	if err != nil {
		return nil, ErrInvalidItem
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	product := findProduct(products, productID)
	if product == nil {
		return nil, ErrProductNotFound
	}
	for _, existing := range product.Items {
		if existing.ItemID == item.ID {
			return nil, ErrItemExists
		}
	}
	if !expiry.After(time.Now()) {
		return nil, ErrItemExpired
	}

	updated := *product
	updated.Items = append(append([]Item(nil), product.Items...), Item{
		ItemID:     item.ID,
		ExpiryDate: item.ExpiryDate,
	})
	sort.Slice(updated.Items, func(i, j int) bool {
		return updated.Items[i].ItemID < updated.Items[j].ItemID
	})
	updated.ItemsLeft++
	return &updated, nil
}

// indexByID builds a lookup index from a record slice for O(1) joins.
// When a key repeats, the last occurrence wins.
func indexByID[T any](records []T, id func(T) int64) map[int64]T {
	index := make(map[int64]T, len(records))
	for _, record := range records {
		index[id(record)] = record
	}
	return index
}

func findProduct(products []Product, id int64) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

func buildReviewView(review Review, imageByID map[int64]Image, customerByID map[int64]Customer) ReviewView {
	view := ReviewView{
		ID:        review.ID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		Images:    make([]*Image, len(review.Images)),
	}
	// Resolved images keep the original id order, an unmatched id stays
	// a null slot at its position.
	for i, imageID := range review.Images {
		if image, ok := imageByID[imageID]; ok {
			view.Images[i] = &image
		}
	}
	if customer, ok := customerByID[review.CustomerID]; ok {
		view.Customer = redactCustomer(customer)
	}
	return view
}

// redactCustomer builds the display copy of a customer: credit_card and
// country are dropped, phone_number is base64-encoded. The stored
// record is never touched.
func redactCustomer(customer Customer) *CustomerView {
	return &CustomerView{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		PhoneNumber: base64.StdEncoding.EncodeToString([]byte(customer.PhoneNumber)),
	}
}

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseTimestamp(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// createdAtMillis is the review sort key. Timestamps that fail to parse
// sort last.
func createdAtMillis(value string) int64 {
	t, err := parseTimestamp(value)
	if err != nil {
		return math.MinInt64
	}
	return t.UnixMilli()
}
