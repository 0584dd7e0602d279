package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstack/catalog-api/internal/core/domain"
	"github.com/shopstack/catalog-api/internal/core/ports"
)

// IdempotencyStore maps an idempotency key to a previously created product id.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, productID string) error
}

type ProductService struct {
	repo   ports.ProductRepository
	idem   IdempotencyStore
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, idem IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, idem: idem, logger: logger}
}

// Create validates and persists a new product owned by input.OwnerID. If an
// idempotency key is provided and already seen, the previously created
// product is returned without side effects.
func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if input.IdempotencyKey != "" && s.idem != nil {
		id, ok, err := s.idem.Lookup(ctx, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		} else if ok {
			existing, err := s.repo.FindByID(ctx, id)
			if err == nil {
				s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("product_id", id).Msg("idempotent replay")
				return existing, nil
			}
		}
	}

	price, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       price,
		Rating:      coerceRating(input.Rating),
		ImageURL:    input.ImageURL,
		OwnerID:     input.OwnerID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("product_id", created.ID).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("product_id", created.ID).Str("owner_id", created.OwnerID).Str("category", created.Category).Msg("product created")
	return created, nil
}

// List executes a filtered, sorted, paginated catalog query. Reads are open:
// no authorization is required.
func (s *ProductService) List(ctx context.Context, params ports.ListProductsParams) (*ports.ListProductsResult, error) {
	query, page, limit := buildProductQuery(params)

	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, err
	}

	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update after the ownership check. An empty patch
// is a no-op that returns the stored record unchanged.
func (s *ProductService) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if domain.Authorize(input.CallerID, input.CallerRole, existing.OwnerID) != domain.Allow {
		s.logger.Warn().Str("product_id", input.ID).Str("caller_id", input.CallerID).Msg("update denied")
		return nil, domain.ErrForbidden
	}

	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return existing, nil
	}

	updated, err := s.repo.UpdateByID(ctx, input.ID, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", input.ID).Msg("failed to update product")
		return nil, err
	}

	s.logger.Info().Str("product_id", updated.ID).Str("caller_id", input.CallerID).Msg("product updated")
	return updated, nil
}

// Delete removes a product after the same ownership check as Update.
func (s *ProductService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if domain.Authorize(callerID, callerRole, existing.OwnerID) != domain.Allow {
		s.logger.Warn().Str("product_id", id).Str("caller_id", callerID).Msg("delete denied")
		return domain.ErrForbidden
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return err
	}

	s.logger.Info().Str("product_id", id).Str("caller_id", callerID).Msg("product deleted")
	return nil
}

// validateCreate enforces the required fields and returns the coerced price.
func validateCreate(in ports.CreateProductInput) (float64, error) {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(in.Price) == "" {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}

	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price must be a number", domain.ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return price, nil
}

// coerceRating applies the lenient numeric policy for the optional rating:
// absent or unparsable input falls back to 0, valid input is clamped to [0,5].
func coerceRating(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 5 {
		return 5
	}
	return f
}

// buildPatch converts the raw update input into a typed patch. Numeric fields
// that fail to parse are dropped from the patch (same leniency as the query
// builder); a parseable negative price is still rejected.
func buildPatch(in ports.UpdateProductInput) (ports.ProductPatch, error) {
	patch := ports.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}

	if in.Price != nil {
		if price, err := strconv.ParseFloat(*in.Price, 64); err == nil {
			if price < 0 {
				return ports.ProductPatch{}, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
			}
			patch.Price = &price
		}
	}
	if in.Rating != nil {
		if _, err := strconv.ParseFloat(*in.Rating, 64); err == nil {
			rating := coerceRating(*in.Rating)
			patch.Rating = &rating
		}
	}

	return patch, nil
}
