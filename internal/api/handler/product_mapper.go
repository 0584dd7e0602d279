package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopstack/catalog-api/internal/core/domain"
	"github.com/shopstack/catalog-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createProductRequest, ownerID, imageURL, idempotencyKey string) ports.CreateProductInput {
	return ports.CreateProductInput{
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		Rating:         req.Rating,
		ImageURL:       imageURL,
		IdempotencyKey: idempotencyKey,
	}
}

// toListParams picks up exactly the recognized query options; everything else
// on the query string is ignored.
func toListParams(c echo.Context) ports.ListProductsParams {
	return ports.ListProductsParams{
		Category:  c.QueryParam("category"),
		MinPrice:  c.QueryParam("minPrice"),
		MaxPrice:  c.QueryParam("maxPrice"),
		MinRating: c.QueryParam("minRating"),
		Search:    c.QueryParam("search"),
		OwnerID:   c.QueryParam("userId"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      c.QueryParam("page"),
		Limit:     c.QueryParam("limit"),
	}
}

// --- Service result → HTTP response ---

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		ImageURL:    p.ImageURL,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListProductsResult) listProductsResponse {
	items := make([]productResponse, len(r.Items))
	for i, p := range r.Items {
		items[i] = toProductResponse(p)
	}
	return listProductsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
