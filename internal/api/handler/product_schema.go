package handler

import "time"

// createProductRequest is bound from a multipart or urlencoded form; the
// optional image file travels alongside it as the "image" part. Price and
// rating stay strings here: the service owns numeric coercion.
type createProductRequest struct {
	Name        string `form:"name"        validate:"required"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category"    validate:"required"`
	Price       string `form:"price"       validate:"required"`
	Rating      string `form:"rating"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"image_url,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProductsResponse struct {
	Data       []productResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
