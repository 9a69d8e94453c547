package model

import "time"

// ImageAsset is a client-owned uploaded image stored on local disk and
// served under /uploads.  The stored file is re-encoded on upload; the
// record keeps the original name for display.
type ImageAsset struct {
	ID        string    `json:"id"`         // image_assets.id (random hex)
	ClientID  uint64    `json:"client_id"`  // image_assets.client_id
	Name      string    `json:"name"`       // image_assets.name (original filename)
	URL       string    `json:"url"`        // image_assets.url (/uploads/<file>)
	AltText   string    `json:"alt_text"`   // image_assets.alt_text
	Category  string    `json:"category"`   // image_assets.category (poster, banner, ...)
	SizeBytes int64     `json:"size_bytes"` // image_assets.size_bytes (after optimization)
	CreatedAt time.Time `json:"created_at"` // image_assets.created_at
}
