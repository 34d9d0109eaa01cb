package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Product is an item a vendor lists in the directory's product catalogue.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       float64         `json:"price,omitempty"`
	Currency    string          `json:"currency"`
	SKU         string          `json:"sku,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListFilter narrows a product listing. Zero values do not filter.
type ListFilter struct {
	Category   string
	VendorID   uuid.UUID
	ActiveOnly bool
}
