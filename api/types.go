package api

type ItemInput struct {
	ID         int64  `json:"id" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"`
}

type ExpiryUpdateInput struct {
	ExpiryDate string `json:"expiry_date" binding:"required"`
}
