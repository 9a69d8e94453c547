package model

import "time"

// Screening category types.
const (
	CategoryTypeFormat       = "format"        // technical formats (IMAX, Dolby, ...)
	CategoryTypeExperience   = "experience"    // premium experiences (VIP seating, ...)
	CategoryTypeSpecialEvent = "special_event" // special screenings (Q&A, early access, ...)
)

// ScreeningCategory is a named label for a presentation format or special
// event, referenced by id from theater format entries but duplicated by
// value when attached there.
type ScreeningCategory struct {
	ID          uint64    // screening_categories.id
	Name        string    // screening_categories.name (unique)
	Type        string    // screening_categories.type
	Description string    // screening_categories.description
	IsActive    bool      // screening_categories.is_active
	CreatedAt   time.Time // screening_categories.created_at
}
