package usecase

import (
	"math"
	"strings"
	"testing"

	"github.com/dealscout/backend/internal/domain"
)

func comparisonPair(priceA, priceF *float64, ratingA, ratingF *float64, reviewsA, reviewsF *int) *domain.MatchResult {
	return &domain.MatchResult{
		Amazon: domain.Listing{
			Title: "Apple iPhone 15 128GB Black", Price: priceA,
			Rating: ratingA, ReviewCount: reviewsA, Source: domain.SourceAmazon,
		},
		Flipkart: domain.Listing{
			Title: "Apple iPhone 15 (Black, 128GB)", Price: priceF,
			Rating: ratingF, ReviewCount: reviewsF, Source: domain.SourceFlipkart,
		},
		Level: domain.MatchPerfect,
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestComparisonService_Compare(t *testing.T) {
	service := NewComparisonService()

	t.Run("cheaper source wins with price gap percentage", func(t *testing.T) {
		match := comparisonPair(floatPtr(52990), floatPtr(51000), nil, nil, nil, nil)

		result := service.Compare(match)

		if result.CheaperSource != domain.SourceFlipkart {
			t.Errorf("Expected flipkart cheaper, got %s", result.CheaperSource)
		}
		if result.PriceDiffPct == nil {
			t.Fatal("Expected a price diff percentage")
		}
		expected := (52990.0 - 51000.0) / 52990.0 * 100
		if math.Abs(*result.PriceDiffPct-expected) > 1e-9 {
			t.Errorf("Expected price diff %.4f%%, got %.4f%%", expected, *result.PriceDiffPct)
		}
		if !strings.Contains(result.Recommendation, "buy from flipkart") {
			t.Errorf("Unexpected recommendation: %q", result.Recommendation)
		}
	})

	t.Run("price win dominates better rating on the pricier side", func(t *testing.T) {
		match := comparisonPair(floatPtr(1000), floatPtr(1200), floatPtr(4.0), floatPtr(4.8), nil, nil)

		result := service.Compare(match)

		if result.CheaperSource != domain.SourceAmazon {
			t.Errorf("Expected amazon cheaper, got %s", result.CheaperSource)
		}
		if result.BetterRatedSource != domain.SourceFlipkart {
			t.Errorf("Expected flipkart better rated, got %s", result.BetterRatedSource)
		}
		if !strings.Contains(result.Recommendation, "buy from amazon") {
			t.Errorf("Expected price to dominate, got %q", result.Recommendation)
		}
	})

	t.Run("equal prices break the tie on rating and reviews", func(t *testing.T) {
		match := comparisonPair(
			floatPtr(999), floatPtr(999),
			floatPtr(4.2), floatPtr(4.6),
			intPtr(1200), intPtr(3400),
		)

		result := service.Compare(match)

		if result.CheaperSource != "" {
			t.Errorf("Expected no cheaper source at equal prices, got %s", result.CheaperSource)
		}
		if result.BetterRatedSource != domain.SourceFlipkart {
			t.Errorf("Expected flipkart better rated, got %s", result.BetterRatedSource)
		}
		if result.MoreReviewedSource != domain.SourceFlipkart {
			t.Errorf("Expected flipkart more reviewed, got %s", result.MoreReviewedSource)
		}
		if !strings.Contains(result.Recommendation, "buy from flipkart") {
			t.Errorf("Unexpected recommendation: %q", result.Recommendation)
		}
		if !strings.Contains(result.Recommendation, "at the same price") {
			t.Errorf("Expected equal prices to be noted, got %q", result.Recommendation)
		}
	})

	t.Run("split tie-breakers end in no preference", func(t *testing.T) {
		match := comparisonPair(
			floatPtr(999), floatPtr(999),
			floatPtr(4.6), floatPtr(4.2),
			intPtr(1200), intPtr(3400),
		)

		result := service.Compare(match)

		if !strings.Contains(result.Recommendation, "comparable offers") {
			t.Errorf("Expected a neutral recommendation, got %q", result.Recommendation)
		}
	})

	t.Run("both prices missing says so", func(t *testing.T) {
		match := comparisonPair(nil, nil, floatPtr(4.5), floatPtr(4.0), nil, nil)

		result := service.Compare(match)

		if result.PriceDiffPct != nil {
			t.Errorf("Expected no price diff, got %f", *result.PriceDiffPct)
		}
		if !strings.Contains(result.Recommendation, "price unavailable on both") {
			t.Errorf("Unexpected recommendation: %q", result.Recommendation)
		}
	})

	t.Run("one price missing falls back to tie-breakers", func(t *testing.T) {
		match := comparisonPair(floatPtr(999), nil, floatPtr(4.5), floatPtr(4.0), nil, nil)

		result := service.Compare(match)

		if result.CheaperSource != "" {
			t.Errorf("Expected no cheaper source with one price, got %s", result.CheaperSource)
		}
		if !strings.Contains(result.Recommendation, "buy from amazon") {
			t.Errorf("Unexpected recommendation: %q", result.Recommendation)
		}
		if !strings.Contains(result.Recommendation, "price comparison unavailable") {
			t.Errorf("Expected missing price to be called out, got %q", result.Recommendation)
		}
		if strings.Contains(result.Recommendation, "same price") {
			t.Errorf("Recommendation claims equal prices with one price missing: %q", result.Recommendation)
		}
	})

	t.Run("missing ratings award no points", func(t *testing.T) {
		match := comparisonPair(floatPtr(999), floatPtr(999), floatPtr(4.5), nil, nil, nil)

		result := service.Compare(match)

		if result.BetterRatedSource != "" {
			t.Errorf("Expected no rating comparison with one side missing, got %s", result.BetterRatedSource)
		}
		if !strings.Contains(result.Recommendation, "comparable offers") {
			t.Errorf("Unexpected recommendation: %q", result.Recommendation)
		}
	})
}

func TestPriceDiffPct(t *testing.T) {
	t.Run("relative to the higher price", func(t *testing.T) {
		got := priceDiffPct(100, 80)
		if math.Abs(got-20) > 1e-9 {
			t.Errorf("Expected 20%%, got %f", got)
		}
	})

	t.Run("symmetric in argument order", func(t *testing.T) {
		if priceDiffPct(80, 100) != priceDiffPct(100, 80) {
			t.Error("Expected the gap to be order independent")
		}
	})

	t.Run("zero prices yield zero", func(t *testing.T) {
		if got := priceDiffPct(0, 0); got != 0 {
			t.Errorf("Expected 0, got %f", got)
		}
	})
}
