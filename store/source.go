package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Collection names as they appear on disk and in SourceError.
const (
	CollectionProducts  = "products"
	CollectionImages    = "images"
	CollectionReviews   = "reviews"
	CollectionCustomers = "customers"
)

// RecordSource provides the four record collections. Implementations
// return a *SourceError when the backing data is absent, malformed or
// unreadable. Callers own the returned slices for the duration of a
// single operation.
type RecordSource interface {
	Products(ctx context.Context) ([]Product, error)
	Images(ctx context.Context) ([]Image, error)
	Reviews(ctx context.Context) ([]Review, error)
	Customers(ctx context.Context) ([]Customer, error)
}

// FileSource reads each collection from <dir>/<name>.json. Every file
// wraps its records under a key named after the collection, e.g.
// {"products": [...]}.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Products(ctx context.Context) ([]Product, error) {
	var payload struct {
		Products []Product `json:"products"`
	}
	if err := s.readCollection(ctx, CollectionProducts, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

func (s *FileSource) Images(ctx context.Context) ([]Image, error) {
	var payload struct {
		Images []Image `json:"images"`
	}
	if err := s.readCollection(ctx, CollectionImages, &payload); err != nil {
		return nil, err
	}
	return payload.Images, nil
}

func (s *FileSource) Reviews(ctx context.Context) ([]Review, error) {
	var payload struct {
		Reviews []Review `json:"reviews"`
	}
	if err := s.readCollection(ctx, CollectionReviews, &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

func (s *FileSource) Customers(ctx context.Context) ([]Customer, error) {
	var payload struct {
		Customers []Customer `json:"customers"`
	}
	if err := s.readCollection(ctx, CollectionCustomers, &payload); err != nil {
		return nil, err
	}
	return payload.Customers, nil
}

func (s *FileSource) readCollection(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return &SourceError{Collection: name, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return &SourceError{Collection: name, Err: errors.Wrap(err, "read collection file")}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &SourceError{Collection: name, Err: errors.Wrap(err, "decode collection file")}
	}
	return nil
}
