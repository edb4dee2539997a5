package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

const defaultSimilarityThreshold = 0.80

// exclusionKeywords are title tokens that mark a listing as something other
// than the product itself. Grouped by why the listing is excluded; matching
// happens on word boundaries so "sunset" does not trip "set".
var exclusionKeywords = []string{
	// Accessories
	"case", "cover", "protector", "charger", "cable", "adapter",
	"stand", "holder", "mount", "screen protector", "glass", "pouch",
	"bag", "sleeve",
	// Refurbished / used
	"refurbished", "used", "open box", "renewed", "reconditioned", "certified",
	// Bundles / multi-unit deals
	"bundle", "combo", "pack", "set", "kit", "pair",
	// Warranty / insurance add-ons
	"warranty", "insurance", "protection plan", "care plan",
}

var exclusionRegex = buildExclusionRegex()

func buildExclusionRegex() *regexp.Regexp {
	quoted := make([]string, len(exclusionKeywords))
	for i, kw := range exclusionKeywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// IsExcludedTitle reports whether a listing title names an accessory,
// refurbished unit, bundle or warranty rather than the product itself.
// Exclusion runs before scoring: an excluded listing is never a candidate,
// however similar its embedding is.
func IsExcludedTitle(title string) bool {
	return exclusionRegex.MatchString(title)
}

// FilterConfig holds configuration for the relevance filter
type FilterConfig struct {
	Threshold          float64 // minimum similarity, default 0.80
	ExcludeNonProduct  bool
	MaxResults         int // 0 means unlimited
	EnableDebugLogging bool
}

// RelevanceFilter scores listings against the search query in a shared
// embedding space and keeps only the ones that plausibly refer to the
// queried product. The filter itself holds no per-request state; the
// embedder handle is shared and safe for concurrent use.
type RelevanceFilter struct {
	embedder           domain.Embedder
	threshold          float64
	excludeNonProduct  bool
	maxResults         int
	enableDebugLogging bool
}

// NewRelevanceFilter creates a relevance filter around an embedding backend
func NewRelevanceFilter(embedder domain.Embedder, config FilterConfig) *RelevanceFilter {
	threshold := config.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultSimilarityThreshold
	}
	return &RelevanceFilter{
		embedder:           embedder,
		threshold:          threshold,
		excludeNonProduct:  config.ExcludeNonProduct,
		maxResults:         config.MaxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Filter scores every surviving listing title against the query and returns
// the ones at or above the similarity threshold, highest first. The query
// and all titles go to the embedding backend in a single batch call, so one
// request costs one round trip regardless of listing count. An embedding
// failure surfaces as ErrEmbeddingUnavailable; the fallback policy belongs
// to the caller.
func (f *RelevanceFilter) Filter(
	ctx context.Context,
	query string,
	listings []domain.Listing,
) ([]domain.ScoredListing, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(listings) == 0 {
		return []domain.ScoredListing{}, nil
	}

	survivors := listings
	if f.excludeNonProduct {
		survivors = make([]domain.Listing, 0, len(listings))
		for _, listing := range listings {
			if IsExcludedTitle(listing.Title) {
				f.debugf("[FILTER] excluded %q", listing.Title)
				continue
			}
			survivors = append(survivors, listing)
		}
	}
	if len(survivors) == 0 {
		return []domain.ScoredListing{}, nil
	}

	// One batch: query first, then every surviving title
	texts := make([]string, 0, len(survivors)+1)
	texts = append(texts, normalizeEmbeddingText(query))
	for _, listing := range survivors {
		texts = append(texts, normalizeEmbeddingText(listing.Title))
	}

	vectors, err := f.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}

	queryVector := vectors[0]
	scored := make([]domain.ScoredListing, 0, len(survivors))
	for i, listing := range survivors {
		similarity := cosineSimilarity(queryVector, vectors[i+1])
		if similarity < f.threshold {
			f.debugf("[FILTER] below threshold %q (%.4f)", listing.Title, similarity)
			continue
		}
		scored = append(scored, domain.ScoredListing{Listing: listing, Score: similarity})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if f.maxResults > 0 && len(scored) > f.maxResults {
		scored = scored[:f.maxResults]
	}

	f.debugf("[FILTER] %d of %d listings kept (threshold %.2f)", len(scored), len(listings), f.threshold)
	return scored, nil
}

// ExcludeAndRank applies only the lexical exclusion rules and result cap,
// preserving scrape order with zero scores. Used when the caller decides to
// proceed without the embedding backend.
func (f *RelevanceFilter) ExcludeAndRank(listings []domain.Listing) []domain.ScoredListing {
	scored := make([]domain.ScoredListing, 0, len(listings))
	for _, listing := range listings {
		if f.excludeNonProduct && IsExcludedTitle(listing.Title) {
			continue
		}
		scored = append(scored, domain.ScoredListing{Listing: listing})
	}
	if f.maxResults > 0 && len(scored) > f.maxResults {
		scored = scored[:f.maxResults]
	}
	return scored
}

// normalizeEmbeddingText matches the normalization the model was tuned with
func normalizeEmbeddingText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cosineSimilarity computes (a·b)/(|a||b|), clamped to [-1,1] against
// floating point drift. Zero-norm vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, similarity))
}

func (f *RelevanceFilter) debugf(format string, args ...interface{}) {
	if f.enableDebugLogging {
		log.Printf(format, args...)
	}
}
