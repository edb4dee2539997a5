package usecase

import (
	"fmt"
	"math"

	"github.com/dealscout/backend/internal/domain"
)

// ComparisonService turns a matched listing pair into a price/quality
// comparison and a recommendation. Pure computation, no I/O.
type ComparisonService struct{}

// NewComparisonService creates a new comparison service
func NewComparisonService() *ComparisonService {
	return &ComparisonService{}
}

// Compare computes price, rating and review deltas for a matched pair.
// Price dominates the recommendation; rating and review count are
// tie-breakers worth one point each to the strictly higher side. With both
// prices missing the result says so instead of guessing.
func (s *ComparisonService) Compare(match *domain.MatchResult) domain.ComparisonResult {
	result := domain.ComparisonResult{}
	amazon := match.Amazon
	flipkart := match.Flipkart

	if amazon.Price != nil && flipkart.Price != nil {
		if *amazon.Price < *flipkart.Price {
			result.CheaperSource = domain.SourceAmazon
		} else if *flipkart.Price < *amazon.Price {
			result.CheaperSource = domain.SourceFlipkart
		}
		diff := priceDiffPct(*amazon.Price, *flipkart.Price)
		result.PriceDiffPct = &diff
	}

	pointsA, pointsF := 0, 0
	if amazon.Rating != nil && flipkart.Rating != nil {
		if *amazon.Rating > *flipkart.Rating {
			result.BetterRatedSource = domain.SourceAmazon
			pointsA++
		} else if *flipkart.Rating > *amazon.Rating {
			result.BetterRatedSource = domain.SourceFlipkart
			pointsF++
		}
	}
	if amazon.ReviewCount != nil && flipkart.ReviewCount != nil {
		if *amazon.ReviewCount > *flipkart.ReviewCount {
			result.MoreReviewedSource = domain.SourceAmazon
			pointsA++
		} else if *flipkart.ReviewCount > *amazon.ReviewCount {
			result.MoreReviewedSource = domain.SourceFlipkart
			pointsF++
		}
	}

	result.Recommendation = buildRecommendation(&result, amazon.Price, flipkart.Price, pointsA, pointsF)
	return result
}

// priceDiffPct is the absolute price gap relative to the higher price
func priceDiffPct(priceA, priceF float64) float64 {
	higher := math.Max(priceA, priceF)
	if higher == 0 {
		return 0
	}
	return math.Abs(priceA-priceF) / higher * 100
}

func buildRecommendation(
	result *domain.ComparisonResult,
	priceA, priceF *float64,
	pointsA, pointsF int,
) string {
	if priceA == nil && priceF == nil {
		return "price unavailable on both listings; no recommendation"
	}

	// A price win dominates rating and review tie-breakers
	if result.CheaperSource != "" && result.PriceDiffPct != nil {
		return fmt.Sprintf("buy from %s: %.2f%% cheaper", result.CheaperSource, *result.PriceDiffPct)
	}

	priceNote := "at the same price"
	if priceA == nil || priceF == nil {
		priceNote = "price comparison unavailable"
	}

	if pointsA > pointsF {
		return fmt.Sprintf("buy from %s: better rated or more reviewed; %s", domain.SourceAmazon, priceNote)
	}
	if pointsF > pointsA {
		return fmt.Sprintf("buy from %s: better rated or more reviewed; %s", domain.SourceFlipkart, priceNote)
	}
	return "comparable offers; either source is reasonable"
}
