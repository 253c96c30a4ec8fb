package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DBSource is a RecordSource backed by Postgres. Tables mirror the four
// JSON collections one to one; rows are mapped to the store models on
// read so the rest of the store never sees gorm types.
type DBSource struct {
	db *gorm.DB
}

type productRow struct {
	ID               int64 `gorm:"primaryKey"`
	Name             string
	Description      string
	ItemsLeft        int64
	ExpiryDate       string
	ManufacturedDate string
	Items            []itemRow `gorm:"foreignKey:ProductID"`
}

type itemRow struct {
	ItemID     int64 `gorm:"primaryKey"`
	ProductID  int64 `gorm:"index"`
	ExpiryDate string
}

type imageRow struct {
	ID  int64 `gorm:"primaryKey"`
	URL string
}

type reviewRow struct {
	ID         int64 `gorm:"primaryKey"`
	ProductID  int64 `gorm:"index"`
	CustomerID int64
	Images     []int64 `gorm:"serializer:json"`
	Rating     int
	Comment    string
	CreatedAt  string
}

type customerRow struct {
	ID          int64 `gorm:"primaryKey"`
	Name        string
	Email       string
	PhoneNumber string
	CreditCard  string
	Country     string
}

func OpenDB(ctx context.Context, dsn string) (*DBSource, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := db.WithContext(ctx).AutoMigrate(&productRow{}, &itemRow{}, &imageRow{}, &reviewRow{}, &customerRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}
	return &DBSource{db: db}, nil
}

func (s *DBSource) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get database connection")
	}
	return db.Close()
}

func (s *DBSource) Products(ctx context.Context) ([]Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Preload("Items").Order("id").Find(&rows).Error; err != nil {
		return nil, &SourceError{Collection: CollectionProducts, Err: err}
	}
	products := make([]Product, len(rows))
	for i, row := range rows {
		items := make([]Item, len(row.Items))
		for j, item := range row.Items {
			items[j] = Item{ItemID: item.ItemID, ExpiryDate: item.ExpiryDate}
		}
		products[i] = Product{
			ID:               row.ID,
			Name:             row.Name,
			Description:      row.Description,
			ItemsLeft:        row.ItemsLeft,
			ExpiryDate:       row.ExpiryDate,
			ManufacturedDate: row.ManufacturedDate,
			Items:            items,
		}
	}
	return products, nil
}

func (s *DBSource) Images(ctx context.Context) ([]Image, error) {
	var rows []imageRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, &SourceError{Collection: CollectionImages, Err: err}
	}
	images := make([]Image, len(rows))
	for i, row := range rows {
		images[i] = Image{ID: row.ID, URL: row.URL}
	}
	return images, nil
}

func (s *DBSource) Reviews(ctx context.Context) ([]Review, error) {
	var rows []reviewRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, &SourceError{Collection: CollectionReviews, Err: err}
	}
	reviews := make([]Review, len(rows))
	for i, row := range rows {
		reviews[i] = Review{
			ID:         row.ID,
			ProductID:  row.ProductID,
			CustomerID: row.CustomerID,
			Images:     row.Images,
			Rating:     row.Rating,
			Comment:    row.Comment,
			CreatedAt:  row.CreatedAt,
		}
	}
	return reviews, nil
}

func (s *DBSource) Customers(ctx context.Context) ([]Customer, error) {
	var rows []customerRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, &SourceError{Collection: CollectionCustomers, Err: err}
	}
	customers := make([]Customer, len(rows))
	for i, row := range rows {
		customers[i] = Customer{
			ID:          row.ID,
			Name:        row.Name,
			Email:       row.Email,
			PhoneNumber: row.PhoneNumber,
			CreditCard:  row.CreditCard,
			Country:     row.Country,
		}
	}
	return customers, nil
}
