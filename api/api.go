package api

import (
	"errors"
	"net/http"
	"strconv"

	"product-review-backend/store"

	"github.com/gin-gonic/gin"
)

type API struct {
	engine *gin.Engine
}

func setupRouter(s *store.Store) *gin.Engine {
	r := gin.Default()

	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Get the review-enriched product view
	r.GET("/product/:product_id", func(c *gin.Context) {
		productID, err := parseID(c.Params.ByName("product_id"), store.ErrInvalidProductID)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}

		view, err := s.ProductView(c.Request.Context(), productID)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, view)
	})

	// Update an item's expiry date
	r.PUT("/item/:item_id/expiry", func(c *gin.Context) {
		itemID, err := parseID(c.Params.ByName("item_id"), store.ErrInvalidItemID)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}

		var input ExpiryUpdateInput
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrInvalidExpiryDate.Error()})
			return
		}

		product, err := s.UpdateItemExpiry(c.Request.Context(), itemID, input.ExpiryDate)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	})

	// Add an item to a product
	r.POST("/product/:product_id/item", func(c *gin.Context) {
		productID, err := parseID(c.Params.ByName("product_id"), store.ErrInvalidProductID)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}

		var input ItemInput
		if err := c.BindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrInvalidItem.Error()})
			return
		}

		product, err := s.AddItem(c.Request.Context(), productID, store.NewItem{
			ID:         input.ID,
			ExpiryDate: input.ExpiryDate,
		})
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	})

	return r
}

func New(s *store.Store) (*API, error) {
	return &API{
		engine: setupRouter(s),
	}, nil
}

func (a *API) Run(port string) {
	a.engine.Run(":" + port)
}

// Handler exposes the router, mainly for httptest.
func (a *API) Handler() http.Handler {
	return a.engine
}

// parseID converts a path parameter into a positive id, mapping any
// parse failure to the operation's validation error.
func parseID(raw string, invalid store.ValidationError) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func errorStatus(err error) int {
	var (
		validation store.ValidationError
		notFound   store.NotFoundError
		conflict   store.ConflictError
		expired    store.ExpiredError
		source     *store.SourceError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &expired):
		return http.StatusUnprocessableEntity
	case errors.As(err, &source):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
