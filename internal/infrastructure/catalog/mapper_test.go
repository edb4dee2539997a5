package catalog

import (
	"testing"

	"github.com/dealscout/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapListing(t *testing.T) {
	raw := rawListing{
		Title:   "  Apple iPhone 15 (128 GB) - Black  ",
		Price:   "₹52,990",
		Rating:  "4.5 out of 5 stars",
		Reviews: "1,245 ratings",
		URL:     " https://www.amazon.in/dp/B0CHX1W1XY ",
	}

	listing := MapListing(raw, domain.SourceAmazon)

	assert.Equal(t, "Apple iPhone 15 (128 GB) - Black", listing.Title)
	assert.Equal(t, "https://www.amazon.in/dp/B0CHX1W1XY", listing.URL)
	assert.Equal(t, domain.SourceAmazon, listing.Source)
	require.NotNil(t, listing.Price)
	assert.Equal(t, 52990.0, *listing.Price)
	require.NotNil(t, listing.Rating)
	assert.Equal(t, 4.5, *listing.Rating)
	require.NotNil(t, listing.ReviewCount)
	assert.Equal(t, 1245, *listing.ReviewCount)
}

func TestMapListing_UnparsableFieldsAreNil(t *testing.T) {
	raw := rawListing{
		Title:   "Apple iPhone 15",
		Price:   "Price on request",
		Rating:  "no rating yet",
		Reviews: "no reviews",
	}

	listing := MapListing(raw, domain.SourceFlipkart)

	assert.Nil(t, listing.Price)
	assert.Nil(t, listing.Rating)
	assert.Nil(t, listing.ReviewCount)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"indian grouping", "₹1,29,900", floatPtr(129900)},
		{"dollar with decimals", "$999.00", floatPtr(999)},
		{"euro symbol", "€849", floatPtr(849)},
		{"duplicated scrape", "64900₹64900", floatPtr(64900)},
		{"plain digits", "51000", floatPtr(51000)},
		{"below plausibility band", "₹89", nil},
		{"above plausibility band", "₹999999999999", nil},
		{"no digits", "Price on request", nil},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"amazon phrasing", "4.5 out of 5 stars", floatPtr(4.5)},
		{"bare number", "4.3", floatPtr(4.3)},
		{"with star glyph", "3.9★", floatPtr(3.9)},
		{"out of range", "9.5", nil},
		{"no digits", "not yet rated", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRating(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestParseReviews(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{"comma grouping", "1,245 ratings", intPtr(1245)},
		{"thousands suffix", "1.2K reviews", intPtr(1200)},
		{"uppercase suffix", "3K", intPtr(3000)},
		{"bare number", "87", intPtr(87)},
		{"no digits", "no reviews", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReviews(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
