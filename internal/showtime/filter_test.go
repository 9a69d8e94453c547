package showtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

func sampleTheaters() []model.Theater {
	return []model.Theater{
		{
			ID:   "thr_1",
			Name: "Downtown 12",
			City: "Springfield",
			Formats: []model.ScreeningFormat{
				{
					CategoryID:   "cat_imax",
					CategoryName: "IMAX",
					Times: []model.TimeSlot{
						{Time: "10:00 AM"},
						{Time: "2:00 PM"},
						{Time: "7:00 PM"},
						{Time: "11:00 PM"},
					},
				},
				{
					CategoryID:   "cat_2d",
					CategoryName: "2D",
					Times: []model.TimeSlot{
						{Time: "1:00 PM"},
						{Time: "8:30 PM"},
					},
				},
			},
		},
		{
			ID:   "thr_2",
			Name: "Mall Cinema",
			City: "Shelbyville",
			Formats: []model.ScreeningFormat{
				{
					CategoryID:   "cat_2d",
					CategoryName: "2D",
					Times: []model.TimeSlot{
						{Time: "9:00 AM"},
					},
				},
			},
		},
	}
}

func TestFilterNoFilters(t *testing.T) {
	res := Filter(sampleTheaters(), "", "")

	require.Len(t, res.Theaters, 2)
	assert.Equal(t, "thr_1", res.Theaters[0].ID)

	imax := res.Theaters[0].ScreeningFormats[0]
	assert.Equal(t, "IMAX", imax.CategoryName)
	assert.Len(t, imax.TimesByCategory.Morning, 1)
	assert.Len(t, imax.TimesByCategory.Afternoon, 1)
	assert.Len(t, imax.TimesByCategory.Evening, 1)
	assert.Len(t, imax.TimesByCategory.LateNight, 1)
}

func TestFilterByTimeCategory(t *testing.T) {
	res := Filter(sampleTheaters(), "evening", "")

	// Mall Cinema has no evening showings and must be pruned
	require.Len(t, res.Theaters, 1)
	assert.Equal(t, "thr_1", res.Theaters[0].ID)

	for _, f := range res.Theaters[0].ScreeningFormats {
		assert.Empty(t, f.TimesByCategory.Morning)
		assert.Empty(t, f.TimesByCategory.Afternoon)
		assert.Empty(t, f.TimesByCategory.LateNight)
		assert.NotEmpty(t, f.TimesByCategory.Evening)
	}
	assert.Equal(t, "evening", res.FiltersApplied.TimeCategory)
}

func TestFilterByScreeningCategory(t *testing.T) {
	res := Filter(sampleTheaters(), "", "2D")

	require.Len(t, res.Theaters, 2)
	for _, th := range res.Theaters {
		require.Len(t, th.ScreeningFormats, 1)
		assert.Equal(t, "2D", th.ScreeningFormats[0].CategoryName)
	}
}

func TestFilterScreeningCategoryCaseSensitive(t *testing.T) {
	res := Filter(sampleTheaters(), "", "imax")
	assert.Empty(t, res.Theaters, "format names match exactly")
}

func TestFilterCombined(t *testing.T) {
	res := Filter(sampleTheaters(), "morning", "2D")

	// only Mall Cinema shows 2D in the morning
	require.Len(t, res.Theaters, 1)
	assert.Equal(t, "thr_2", res.Theaters[0].ID)
	slot := res.Theaters[0].ScreeningFormats[0].TimesByCategory.Morning[0]
	assert.Equal(t, "9:00 AM", slot.Time)
	assert.Equal(t, Morning, slot.Category)
}

func TestFilterNoMatches(t *testing.T) {
	res := Filter(sampleTheaters(), "late_night", "2D")
	assert.NotNil(t, res.Theaters)
	assert.Empty(t, res.Theaters)
}

func TestFilterIgnoresStoredCategory(t *testing.T) {
	theaters := []model.Theater{{
		ID: "thr_1",
		Formats: []model.ScreeningFormat{{
			CategoryID:   "cat_2d",
			CategoryName: "2D",
			// stored bucket lies; the filter must recompute from the time
			Times: []model.TimeSlot{{Time: "7:00 PM", Category: "morning"}},
		}},
	}}

	res := Filter(theaters, "morning", "")
	assert.Empty(t, res.Theaters)

	res = Filter(theaters, "evening", "")
	require.Len(t, res.Theaters, 1)
	assert.Equal(t, Evening, res.Theaters[0].ScreeningFormats[0].TimesByCategory.Evening[0].Category)
}

func TestFilterPreservesSlotAttributes(t *testing.T) {
	seats := 42
	mod := 1.5
	theaters := []model.Theater{{
		ID: "thr_1",
		Formats: []model.ScreeningFormat{{
			CategoryID:   "cat_imax",
			CategoryName: "IMAX",
			Times:        []model.TimeSlot{{Time: "7:00 PM", SeatsLeft: &seats, PriceModifier: &mod}},
		}},
	}}

	res := Filter(theaters, "", "")
	slot := res.Theaters[0].ScreeningFormats[0].TimesByCategory.Evening[0]
	require.NotNil(t, slot.SeatsLeft)
	assert.Equal(t, 42, *slot.SeatsLeft)
	require.NotNil(t, slot.PriceModifier)
	assert.Equal(t, 1.5, *slot.PriceModifier)
}

func TestFilterBucketsMarshalAsArrays(t *testing.T) {
	res := Filter(sampleTheaters(), "morning", "")
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Theaters []struct {
			ScreeningFormats []struct {
				TimesByCategory map[string]json.RawMessage `json:"times_by_category"`
			} `json:"screening_formats"`
		} `json:"theaters"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotEmpty(t, decoded.Theaters)

	buckets := decoded.Theaters[0].ScreeningFormats[0].TimesByCategory
	for _, key := range []string{"morning", "afternoon", "evening", "late_night"} {
		raw, ok := buckets[key]
		require.True(t, ok, "bucket %s present", key)
		assert.NotEqual(t, "null", string(raw), "bucket %s must be an array", key)
	}
}
