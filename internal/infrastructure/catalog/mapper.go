package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Plausibility bounds for parsed prices. Scrapers occasionally pick up
// stray digits (pincode, model numbers); values outside this band are
// treated as unparsable rather than trusted.
const (
	minPlausiblePrice = 100
	maxPlausiblePrice = 100_000_000
)

var (
	currencySplitRegex = regexp.MustCompile(`[₹$€£]`)
	firstNumberRegex   = regexp.MustCompile(`\d+\.?\d*`)
	reviewCountRegex   = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(k)?`)
)

// MapListing converts a raw scraped record into a domain Listing.
// Unparsable numeric fields become nil, never zero sentinels.
func MapListing(raw rawListing, source domain.Source) domain.Listing {
	return domain.Listing{
		Title:       strings.TrimSpace(raw.Title),
		Price:       ParsePrice(raw.Price),
		Rating:      ParseRating(raw.Rating),
		ReviewCount: ParseReviews(raw.Reviews),
		URL:         strings.TrimSpace(raw.URL),
		Source:      source,
	}
}

// ParsePrice extracts a price from a scraped string like "₹1,29,900" or
// "$999.00". Scrapers sometimes concatenate duplicates ("64900₹64900");
// the first plausible part wins.
func ParsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, part := range currencySplitRegex.Split(s, -1) {
		cleaned := strings.ReplaceAll(strings.ReplaceAll(part, ",", ""), " ", "")
		if cleaned == "" {
			continue
		}
		price, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		if price >= minPlausiblePrice && price <= maxPlausiblePrice {
			return &price
		}
	}

	// Aggressive fallback: strip everything non-numeric and retry
	cleaned := firstNumberRegex.FindString(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return nil
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < minPlausiblePrice || price > maxPlausiblePrice {
		return nil
	}
	return &price
}

// ParseRating extracts a star rating from strings like "4.5 out of 5" or
// "4.5★". Ratings outside [0,5] are discarded.
func ParseRating(s string) *float64 {
	match := firstNumberRegex.FindString(strings.TrimSpace(s))
	if match == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil || rating < 0 || rating > 5 {
		return nil
	}
	return &rating
}

// ParseReviews extracts a review count from strings like "1,245 ratings" or
// "1.2K reviews"
func ParseReviews(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	match := reviewCountRegex.FindStringSubmatch(s)
	if match == nil || match[1] == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil || value < 0 {
		return nil
	}
	if strings.EqualFold(match[2], "k") {
		value *= 1000
	}
	count := int(value)
	return &count
}
