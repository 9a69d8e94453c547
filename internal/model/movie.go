package model

import "time"

// MovieConfiguration is a client's bookable movie microsite: the movie
// details plus the theaters and showtimes end users browse.  The theater
// tree is stored as a JSON document column (`movie_configurations.theaters`)
// because its nesting (theater -> screening format -> time slot) is read
// and written as a unit and never joined against.
type MovieConfiguration struct {
	ID               uint64    `json:"id"`
	ClientID         uint64    `json:"client_id"`
	MovieTitle       string    `json:"movie_title"`
	MovieSubtitle    string    `json:"movie_subtitle,omitempty"`
	Description      string    `json:"description"`
	ReleaseDate      time.Time `json:"release_date"`
	Rating           string    `json:"rating"`
	Runtime          string    `json:"runtime"`
	Genre            []string  `json:"genre"`
	Director         string    `json:"director"`
	Cast             []string  `json:"cast"`
	AvailableFormats []string  `json:"available_formats"`
	Theaters         []Theater `json:"theaters"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Theater is one venue showing the movie.  Formats carry the screening
// categories offered there (IMAX, 2D, ...) with their time slots.
type Theater struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Chain    string            `json:"chain"`
	Address  string            `json:"address"`
	City     string            `json:"city"`
	State    string            `json:"state"`
	ZipCode  string            `json:"zip_code"`
	Distance *float64          `json:"distance,omitempty"`
	Formats  []ScreeningFormat `json:"formats"`
}

// ScreeningFormat links a theater to a screening category by value.  The
// category name is duplicated here rather than joined; the catalog entry
// may evolve independently.
type ScreeningFormat struct {
	CategoryID   string     `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Times        []TimeSlot `json:"times"`
}

// TimeSlot is a single showtime occurrence.  Time is free-form client
// input ("7:00 PM", "19:00"); Category is a derived time-of-day bucket
// that is recomputed at read time, never trusted from storage.
type TimeSlot struct {
	Time          string   `json:"time"`
	Category      string   `json:"category,omitempty"`
	SeatsLeft     *int     `json:"seats_available,omitempty"`
	PriceModifier *float64 `json:"price_modifier,omitempty"`
}
