package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/dealscout/backend/internal/domain"
)

// Package-level compiled regex patterns for cache keys
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// topCandidates caps the per-source candidate lists returned when no match
// is found, so the caller can still show the best unmatched listings
const topCandidates = 5

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
	// FallbackUnfiltered decides the policy when the embedding backend is
	// down: true ranks listings as scraped (lexical exclusion still
	// applies), false aborts the request.
	FallbackUnfiltered bool
	EnableDebugLogging bool
}

// SearchService runs the full comparison pipeline for one query:
// cache -> fetch both sources -> relevance-filter -> match -> compare.
// It holds no per-request mutable state; a server may run many requests
// concurrently against one instance.
type SearchService struct {
	amazon             domain.ListingProvider
	flipkart           domain.ListingProvider
	filter             *RelevanceFilter
	matcher            *MatchingService
	comparer           *ComparisonService
	cache              domain.CacheRepository
	cacheTTL           time.Duration
	fallbackUnfiltered bool
	enableDebugLogging bool
}

// NewSearchService creates a search service with its collaborators wired in
func NewSearchService(
	amazon domain.ListingProvider,
	flipkart domain.ListingProvider,
	filter *RelevanceFilter,
	matcher *MatchingService,
	comparer *ComparisonService,
	cache domain.CacheRepository,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	return &SearchService{
		amazon:             amazon,
		flipkart:           flipkart,
		filter:             filter,
		matcher:            matcher,
		comparer:           comparer,
		cache:              cache,
		cacheTTL:           cacheTTL,
		fallbackUnfiltered: config.FallbackUnfiltered,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SearchAndCompare resolves a free-text product query into at most one
// cross-source listing pair plus a price comparison. When both sources fail
// the transport error is returned; when only the match fails the result
// still carries the best candidates from each source.
func (s *SearchService) SearchAndCompare(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.cacheKey(query)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		s.debugf("[SEARCH] cache hit for %q", query)
		return cached, nil
	}

	amazonListings, errA := s.amazon.Search(ctx, query)
	if errA != nil {
		log.Printf("[SEARCH] amazon fetch failed for %q: %v", query, errA)
	}
	flipkartListings, errF := s.flipkart.Search(ctx, query)
	if errF != nil {
		log.Printf("[SEARCH] flipkart fetch failed for %q: %v", query, errF)
	}
	if errA != nil && errF != nil {
		return nil, fmt.Errorf("%w: amazon: %v; flipkart: %v", domain.ErrSourceUnavailable, errA, errF)
	}

	amazonScored, err := s.filterListings(ctx, query, amazonListings)
	if err != nil {
		return nil, err
	}
	flipkartScored, err := s.filterListings(ctx, query, flipkartListings)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResult{Query: query}

	switch {
	case len(amazonScored) == 0 && len(flipkartScored) == 0:
		result.Status = domain.StatusNotFound
		return result, nil

	case len(amazonScored) == 0 || len(flipkartScored) == 0:
		// Only one marketplace has relevant listings; no pairing possible
		result.Status = domain.StatusPartial
		result.AmazonCandidates = truncate(amazonScored)
		result.FlipkartCandidates = truncate(flipkartScored)
		return result, nil
	}

	match, err := s.matcher.Match(ctx, amazonScored, flipkartScored)
	if err != nil {
		if errors.Is(err, domain.ErrNoViableMatch) {
			// Expected outcome, not a failure: show the best unmatched
			// listings from each source separately
			result.Status = domain.StatusNoMatch
			result.AmazonCandidates = truncate(amazonScored)
			result.FlipkartCandidates = truncate(flipkartScored)
			s.setInCache(ctx, cacheKey, result)
			return result, nil
		}
		return nil, err
	}

	comparison := s.comparer.Compare(match)
	result.Status = domain.StatusMatched
	result.Match = match
	result.Comparison = &comparison

	s.setInCache(ctx, cacheKey, result)
	return result, nil
}

// filterListings applies the relevance filter with the configured policy
// for an unavailable embedding backend
func (s *SearchService) filterListings(
	ctx context.Context,
	query string,
	listings []domain.Listing,
) ([]domain.ScoredListing, error) {
	if len(listings) == 0 {
		return nil, nil
	}
	scored, err := s.filter.Filter(ctx, query, listings)
	if err == nil {
		return scored, nil
	}
	if errors.Is(err, domain.ErrEmbeddingUnavailable) && s.fallbackUnfiltered {
		log.Printf("[SEARCH] embedding backend unavailable, proceeding unfiltered: %v", err)
		return s.filter.ExcludeAndRank(listings), nil
	}
	return nil, err
}

func truncate(scored []domain.ScoredListing) []domain.ScoredListing {
	if len(scored) > topCandidates {
		return scored[:topCandidates]
	}
	return scored
}

// cacheKey normalizes the query into a stable cache key.
// Format: "compare:{normalized query}"
func (s *SearchService) cacheKey(query string) string {
	normalized := strings.ToLower(query)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return "compare:" + strings.TrimSpace(normalized)
}

func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	result, ok := value.(*domain.SearchResult)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return result, nil
}

func (s *SearchService) setInCache(ctx context.Context, key string, result *domain.SearchResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		log.Printf("[SEARCH] cache store failed for %q: %v", key, err)
	}
}

func (s *SearchService) debugf(format string, args ...interface{}) {
	if s.enableDebugLogging {
		log.Printf(format, args...)
	}
}
