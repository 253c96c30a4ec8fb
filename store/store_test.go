package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"product-review-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products  []store.Product
	images    []store.Image
	reviews   []store.Review
	customers []store.Customer

	reviewsErr error
}

func (f *fakeSource) Products(ctx context.Context) ([]store.Product, error) {
	return f.products, nil
}

func (f *fakeSource) Images(ctx context.Context) ([]store.Image, error) {
	return f.images, nil
}

func (f *fakeSource) Reviews(ctx context.Context) ([]store.Review, error) {
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews, nil
}

func (f *fakeSource) Customers(ctx context.Context) ([]store.Customer, error) {
	return f.customers, nil
}

func fixtureStore() *store.Store {
	return store.New(store.NewFileSource("testdata"))
}

func TestProductViewValidation(t *testing.T) {
	s := fixtureStore()

	for _, id := range []int64{0, -1, -42} {
		_, err := s.ProductView(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrInvalidProductID)
	}
}

func TestProductViewNotFound(t *testing.T) {
	s := fixtureStore()

	_, err := s.ProductView(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestProductView(t *testing.T) {
	s := fixtureStore()

	view, err := s.ProductView(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, view)

	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, "Almond Milk", view.Name)
	assert.Len(t, view.Items, 2)

	t.Run("only this product's reviews, most recent first", func(t *testing.T) {
		require.Len(t, view.Reviews, 3)
		assert.Equal(t, []int64{2, 1, 4}, []int64{view.Reviews[0].ID, view.Reviews[1].ID, view.Reviews[2].ID})
	})

	t.Run("customer is redacted", func(t *testing.T) {
		customer := view.Reviews[0].Customer
		require.NotNil(t, customer)
		assert.Equal(t, int64(2), customer.ID)
		assert.Equal(t, "Hemanth", customer.Name)
		assert.Equal(t, "hemanth.p@gmail.com", customer.Email)
		assert.Equal(t, "NDA1Njc3NDAyMw==", customer.PhoneNumber)

		data, err := json.Marshal(customer)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.NotContains(t, fields, "credit_card")
		assert.NotContains(t, fields, "country")
	})

	t.Run("images resolve in id order", func(t *testing.T) {
		images := view.Reviews[0].Images
		require.Len(t, images, 2)
		require.NotNil(t, images[0])
		assert.Equal(t, int64(2), images[0].ID)
		assert.Equal(t, "https://farm4.staticflickr.com/3752/9684880330_9b4698f7cb_z_d.jpg", images[0].URL)
		require.NotNil(t, images[1])
		assert.Equal(t, int64(1), images[1].ID)
	})

	t.Run("missing references degrade gracefully", func(t *testing.T) {
		review := view.Reviews[2]
		assert.Nil(t, review.Customer)
		require.Len(t, review.Images, 1)
		assert.Nil(t, review.Images[0])
	})

	t.Run("product dates are stripped from the view", func(t *testing.T) {
		data, err := json.Marshal(view)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.NotContains(t, fields, "expiry_date")
		assert.NotContains(t, fields, "manufactured_date")
	})
}

func TestProductViewStableTieBreak(t *testing.T) {
	source := &fakeSource{
		products: []store.Product{{ID: 1, Name: "Almond Milk"}},
		reviews: []store.Review{
			{ID: 10, ProductID: 1, CreatedAt: "2021-03-28T20:12:00.852Z"},
			{ID: 11, ProductID: 1, CreatedAt: "2021-03-28T20:12:00.852Z"},
			{ID: 12, ProductID: 1, CreatedAt: "2021-05-01T00:00:00.000Z"},
		},
	}
	s := store.New(source)

	view, err := s.ProductView(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Reviews, 3)

	// Equal timestamps keep their collection order behind the newer review.
	assert.Equal(t, int64(12), view.Reviews[0].ID)
	assert.Equal(t, int64(10), view.Reviews[1].ID)
	assert.Equal(t, int64(11), view.Reviews[2].ID)
}

func TestProductViewSourceFailure(t *testing.T) {
	source := &fakeSource{
		products:   []store.Product{{ID: 1}},
		reviewsErr: &store.SourceError{Collection: store.CollectionReviews, Err: assert.AnError},
	}
	s := store.New(source)

	_, err := s.ProductView(context.Background(), 1)
	require.Error(t, err)

	var sourceErr *store.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, store.CollectionReviews, sourceErr.Collection)
}

func TestUpdateItemExpiry(t *testing.T) {
	t.Run("invalid item id", func(t *testing.T) {
		_, err := fixtureStore().UpdateItemExpiry(context.Background(), 0, "2027-01-01")
		assert.ErrorIs(t, err, store.ErrInvalidItemID)
	})

	t.Run("invalid expiry date", func(t *testing.T) {
		_, err := fixtureStore().UpdateItemExpiry(context.Background(), 142, "not-a-date")
		assert.ErrorIs(t, err, store.ErrInvalidExpiryDate)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := fixtureStore().UpdateItemExpiry(context.Background(), 9999, "2027-01-01")
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})

	t.Run("empty collection", func(t *testing.T) {
		s := store.New(&fakeSource{})
		_, err := s.UpdateItemExpiry(context.Background(), 142, "2027-01-01")
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})

	t.Run("returns the owner restricted to the updated item", func(t *testing.T) {
		source := &fakeSource{
			products: []store.Product{
				{ID: 1, Name: "Almond Milk", Items: []store.Item{
					{ItemID: 142, ExpiryDate: "2026-09-30T12:57:07.846Z"},
					{ItemID: 160, ExpiryDate: "2026-10-15T08:21:44.000Z"},
				}},
			},
		}
		s := store.New(source)

		product, err := s.UpdateItemExpiry(context.Background(), 160, "2027-01-01")
		require.NoError(t, err)
		assert.Equal(t, int64(1), product.ID)
		require.Len(t, product.Items, 1)
		assert.Equal(t, int64(160), product.Items[0].ItemID)
		assert.Equal(t, "2027-01-01", product.Items[0].ExpiryDate)

		// The stored collection is untouched.
		require.Len(t, source.products[0].Items, 2)
		assert.Equal(t, "2026-10-15T08:21:44.000Z", source.products[0].Items[1].ExpiryDate)
	})
}

func TestAddItem(t *testing.T) {
	newSource := func() *fakeSource {
		return &fakeSource{
			products: []store.Product{
				{ID: 4, Name: "Green Tea", ItemsLeft: 2, Items: []store.Item{
					{ItemID: 401, ExpiryDate: "2028-03-30T12:57:07.846Z"},
					{ItemID: 402, ExpiryDate: "2028-04-11T09:30:00.000Z"},
				}},
			},
		}
	}

	t.Run("invalid product id", func(t *testing.T) {
		s := store.New(newSource())
		_, err := s.AddItem(context.Background(), -1, store.NewItem{ID: 410, ExpiryDate: "2050-03-30T12:57:07.846Z"})
		assert.ErrorIs(t, err, store.ErrInvalidProductID)
	})

	t.Run("invalid item", func(t *testing.T) {
		s := store.New(newSource())
		for _, item := range []store.NewItem{
			{ID: 0, ExpiryDate: "2050-03-30T12:57:07.846Z"},
			{ID: 410, ExpiryDate: ""},
			{ID: 410, ExpiryDate: "soon"},
		} {
			_, err := s.AddItem(context.Background(), 4, item)
			assert.ErrorIs(t, err, store.ErrInvalidItem)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		s := store.New(newSource())
		_, err := s.AddItem(context.Background(), 7, store.NewItem{ID: 410, ExpiryDate: "2050-03-30T12:57:07.846Z"})
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})

	t.Run("duplicate item id", func(t *testing.T) {
		source := newSource()
		s := store.New(source)
		_, err := s.AddItem(context.Background(), 4, store.NewItem{ID: 401, ExpiryDate: "2050-03-30T12:57:07.846Z"})
		assert.ErrorIs(t, err, store.ErrItemExists)
		assert.Len(t, source.products[0].Items, 2)
	})

	t.Run("expired item", func(t *testing.T) {
		source := newSource()
		s := store.New(source)
		_, err := s.AddItem(context.Background(), 4, store.NewItem{ID: 410, ExpiryDate: "2020-01-01T00:00:00.000Z"})
		assert.ErrorIs(t, err, store.ErrItemExpired)
		assert.Equal(t, int64(2), source.products[0].ItemsLeft)
	})

	t.Run("appends, bumps items_left and keeps the sort order", func(t *testing.T) {
		source := newSource()
		s := store.New(source)

		product, err := s.AddItem(context.Background(), 4, store.NewItem{ID: 100, ExpiryDate: "2050-03-30T12:57:07.846Z"})
		require.NoError(t, err)

		assert.Equal(t, int64(3), product.ItemsLeft)
		require.Len(t, product.Items, 3)
		assert.Equal(t, int64(100), product.Items[0].ItemID)
		assert.Equal(t, int64(401), product.Items[1].ItemID)
		assert.Equal(t, int64(402), product.Items[2].ItemID)
		assert.Equal(t, "2050-03-30T12:57:07.846Z", product.Items[0].ExpiryDate)

		// The stored collection is untouched.
		assert.Len(t, source.products[0].Items, 2)
		assert.Equal(t, int64(2), source.products[0].ItemsLeft)
	})
}
