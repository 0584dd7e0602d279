package ports

import (
	"context"

	"github.com/shopstack/catalog-api/internal/core/domain"
)

// ProductQuery is the normalized query produced by the service-layer query
// builder. Numeric bounds are nil when absent; Skip/Limit are already clamped
// and computed from the requested page.
type ProductQuery struct {
	Category  string   // exact match, empty = no filter
	MinPrice  *float64 // inclusive lower bound
	MaxPrice  *float64 // inclusive upper bound
	MinRating *float64 // inclusive lower bound
	Search    string   // case-insensitive substring over name OR description
	OwnerID   string   // exact match, empty = no filter
	SortBy    string   // passed through verbatim to the store
	SortDesc  bool
	Skip      int64
	Limit     int64
}

// ProductPatch is a partial update: nil fields are left untouched. This makes
// "field not supplied" explicit instead of relying on zero-value sentinels.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Rating      *float64
	ImageURL    *string
}

// IsZero reports whether the patch carries no fields at all.
func (p ProductPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Price == nil && p.Rating == nil && p.ImageURL == nil
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Insert(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching the query and the total count.
	List(ctx context.Context, q ProductQuery) ([]*domain.Product, int64, error)
	// UpdateByID applies the patch and returns the updated document.
	UpdateByID(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	DeleteByID(ctx context.Context, id string) error
}
