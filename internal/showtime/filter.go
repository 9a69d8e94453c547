package showtime

import "github.com/cinesaas/movie-booking-api/internal/model"

// Slot is a showtime as it appears in categorized output: the original
// time string plus its derived bucket and any optional attributes.
type Slot struct {
	Time          string   `json:"time"`
	Category      Category `json:"category"`
	SeatsLeft     *int     `json:"seats_available,omitempty"`
	PriceModifier *float64 `json:"price_modifier,omitempty"`
}

// Buckets groups slots into the four time-of-day buckets.  All four keys
// are always present in JSON, empty or not, so clients can index them
// without existence checks.
type Buckets struct {
	Morning   []Slot `json:"morning"`
	Afternoon []Slot `json:"afternoon"`
	Evening   []Slot `json:"evening"`
	LateNight []Slot `json:"late_night"`
}

func (b *Buckets) add(s Slot) {
	switch s.Category {
	case Morning:
		b.Morning = append(b.Morning, s)
	case Afternoon:
		b.Afternoon = append(b.Afternoon, s)
	case Evening:
		b.Evening = append(b.Evening, s)
	case LateNight:
		b.LateNight = append(b.LateNight, s)
	}
}

// ensure replaces nil bucket slices with empty ones so they marshal as
// [] rather than null.
func (b *Buckets) ensure() {
	if b.Morning == nil {
		b.Morning = []Slot{}
	}
	if b.Afternoon == nil {
		b.Afternoon = []Slot{}
	}
	if b.Evening == nil {
		b.Evening = []Slot{}
	}
	if b.LateNight == nil {
		b.LateNight = []Slot{}
	}
}

func (b *Buckets) empty() bool {
	return len(b.Morning) == 0 && len(b.Afternoon) == 0 &&
		len(b.Evening) == 0 && len(b.LateNight) == 0
}

// Format is a screening format surviving the filters, with its slots
// bucketed by time of day.
type Format struct {
	CategoryID      string  `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	TimesByCategory Buckets `json:"times_by_category"`
}

// Theater is a venue with at least one surviving format.
type Theater struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Chain            string   `json:"chain"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zip_code"`
	Distance         *float64 `json:"distance,omitempty"`
	ScreeningFormats []Format `json:"screening_formats"`
}

// Filters echoes which filters were applied, for caller-side verification.
type Filters struct {
	TimeCategory      string `json:"time_category"`
	ScreeningCategory string `json:"screening_category"`
}

// Result is the categorized, filtered theater tree.
type Result struct {
	Theaters       []Theater `json:"theaters"`
	FiltersApplied Filters   `json:"filters_applied"`
}

// Filter recomputes each slot's bucket and drops entries the filters
// exclude.  screeningCategory matches format names exactly and
// case-sensitively.  A format survives only when at least one bucket is
// non-empty after filtering; a theater survives only when at least one
// format did.  Input order is preserved within each bucket.
func Filter(theaters []model.Theater, timeCategory, screeningCategory string) Result {
	res := Result{
		Theaters:       []Theater{},
		FiltersApplied: Filters{TimeCategory: timeCategory, ScreeningCategory: screeningCategory},
	}

	for _, t := range theaters {
		out := Theater{
			ID:               t.ID,
			Name:             t.Name,
			Chain:            t.Chain,
			Address:          t.Address,
			City:             t.City,
			State:            t.State,
			ZipCode:          t.ZipCode,
			Distance:         t.Distance,
			ScreeningFormats: []Format{},
		}
		for _, f := range t.Formats {
			if screeningCategory != "" && f.CategoryName != screeningCategory {
				continue
			}
			ff := Format{CategoryID: f.CategoryID, CategoryName: f.CategoryName}
			for _, ts := range f.Times {
				// stored categories are never trusted; always recompute
				cat := CategorizeTime(ts.Time)
				if timeCategory != "" && string(cat) != timeCategory {
					continue
				}
				ff.TimesByCategory.add(Slot{
					Time:          ts.Time,
					Category:      cat,
					SeatsLeft:     ts.SeatsLeft,
					PriceModifier: ts.PriceModifier,
				})
			}
			if !ff.TimesByCategory.empty() {
				ff.TimesByCategory.ensure()
				out.ScreeningFormats = append(out.ScreeningFormats, ff)
			}
		}
		if len(out.ScreeningFormats) > 0 {
			res.Theaters = append(res.Theaters, out)
		}
	}
	return res
}
