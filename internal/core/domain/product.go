package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidID = errors.New("invalid product id")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrStoreUnavailable = errors.New("store unavailable")

// Product is the core catalog record. OwnerID is set at creation and never
// reassigned; every mutation is gated on it by the access policy.
type Product struct {
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
