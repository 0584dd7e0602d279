package service

import (
	"strconv"
	"strings"

	"github.com/shopstack/catalog-api/internal/core/ports"
)

const (
	defaultPage   = 1
	defaultLimit  = 10
	defaultSortBy = "created_at"
)

// buildProductQuery normalizes the raw list parameters into a store query and
// returns the effective page and limit used for pagination metadata.
//
// Numeric parsing is deliberately lenient: a value that fails to parse is
// treated as if it had not been sent, never as a request error. Page and
// limit are clamped to at least 1 so a hostile query cannot produce a
// negative skip downstream.
func buildProductQuery(p ports.ListProductsParams) (ports.ProductQuery, int, int) {
	q := ports.ProductQuery{
		Category:  p.Category,
		MinPrice:  parseFloatParam(p.MinPrice),
		MaxPrice:  parseFloatParam(p.MaxPrice),
		MinRating: parseFloatParam(p.MinRating),
		Search:    p.Search,
		OwnerID:   p.OwnerID,
	}

	q.SortBy = p.SortBy
	if q.SortBy == "" {
		q.SortBy = defaultSortBy
	}
	// Anything other than an explicit "asc" sorts descending.
	q.SortDesc = !strings.EqualFold(p.SortOrder, "asc")

	page := parseIntParam(p.Page, defaultPage)
	limit := parseIntParam(p.Limit, defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	q.Skip = int64(page-1) * int64(limit)
	q.Limit = int64(limit)

	return q, page, limit
}

func parseFloatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
