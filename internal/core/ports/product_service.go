package ports

import (
	"context"

	"github.com/shopstack/catalog-api/internal/core/domain"
)

// CreateProductInput carries all data needed to create a product. Price and
// Rating arrive as the raw form values; the service coerces them to numbers.
type CreateProductInput struct {
	OwnerID     string
	Name        string
	Description string
	Category    string
	Price       string
	Rating      string
	ImageURL    string // set by the blob store when an image was uploaded
	// IdempotencyKey, when non-empty, makes the create replay-safe: a second
	// call with the same key returns the product created by the first.
	IdempotencyKey string
}

// UpdateProductInput carries a partial update. Nil fields were not supplied
// by the caller and must be left unchanged on the stored record.
type UpdateProductInput struct {
	ID         string
	CallerID   string
	CallerRole string

	Name        *string
	Description *string
	Category    *string
	Price       *string
	Rating      *string
	ImageURL    *string
}

// ListProductsParams are the raw, unvalidated query parameters recognized by
// the list endpoint. Numeric fields that fail to parse are treated as absent.
type ListProductsParams struct {
	Category  string
	MinPrice  string
	MaxPrice  string
	MinRating string
	Search    string
	OwnerID   string
	SortBy    string // default "created_at"
	SortOrder string // "asc"|"desc", default "desc"
	Page      string // 1-based, default 1
	Limit     string // default 10
}

// ListProductsResult is a windowed result set plus its pagination metadata.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService defines the catalog use-cases.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context, params ListProductsParams) (*ListProductsResult, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id, callerID, callerRole string) error
}
