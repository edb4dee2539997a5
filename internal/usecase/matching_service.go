package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

const (
	// defaultNameSimilarityThreshold is the minimum base-name token overlap
	// for a pair to be considered at all
	defaultNameSimilarityThreshold = 0.70

	// sizeTolerance is the allowed numeric difference between two size
	// values with identical units
	sizeTolerance = 0.5
)

// nameStopWords are connective words ignored by base-name similarity
var nameStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "is": true, "from": true,
}

var namePunctuationRegex = regexp.MustCompile(`[^\w\s]`)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	NameSimilarityThreshold float64
	EnableDebugLogging      bool
}

// MatchingService pairs a filtered Amazon listing list against a filtered
// Flipkart list and selects the single most plausible cross-source pair
// under a four-level strictness cascade.
type MatchingService struct {
	nameSimilarityThreshold float64
	enableDebugLogging      bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.NameSimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultNameSimilarityThreshold
	}
	return &MatchingService{
		nameSimilarityThreshold: threshold,
		enableDebugLogging:      config.EnableDebugLogging,
	}
}

// candidatePair is one gate-surviving cross-source pair with its extracted
// attributes and scores, retained for level classification
type candidatePair struct {
	amazon   domain.ScoredListing
	flipkart domain.ScoredListing
	attrsA   domain.ExtractedAttributes
	attrsF   domain.ExtractedAttributes
	nameSim  float64
}

// relevance is the secondary score used to rank pairs within one match level
func (p candidatePair) relevance() float64 {
	return p.amazon.Score + p.flipkart.Score
}

// Match evaluates the full cross product of the two listing lists. Every
// pair must first pass three hard gates (category, brand, base-name
// similarity); survivors are then classified into the strictest level they
// qualify for, across ALL pairs, and the best pair of the best level wins.
// When no pair survives the gates at all, ErrNoViableMatch is returned;
// the partial-with-warning fallback never bypasses the gates.
func (s *MatchingService) Match(
	ctx context.Context,
	amazonListings []domain.ScoredListing,
	flipkartListings []domain.ScoredListing,
) (*domain.MatchResult, error) {
	if len(amazonListings) == 0 || len(flipkartListings) == 0 {
		return nil, domain.ErrNoViableMatch
	}

	survivors := make([]candidatePair, 0, len(amazonListings))

	for _, a := range amazonListings {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		attrsA := ExtractAttributes(a.Title)
		categoryA := detectCategory(a.Title)

		for _, f := range flipkartListings {
			attrsF := ExtractAttributes(f.Title)

			if !categoriesCompatible(categoryA, detectCategory(f.Title)) {
				s.debugf("[MATCH] category gate rejected %q vs %q", a.Title, f.Title)
				continue
			}
			if !brandsMatch(attrsA.BaseName, attrsF.BaseName) {
				s.debugf("[MATCH] brand gate rejected %q vs %q", a.Title, f.Title)
				continue
			}
			similarity := nameSimilarity(attrsA.BaseName, attrsF.BaseName)
			if similarity < s.nameSimilarityThreshold {
				s.debugf("[MATCH] name gate rejected %q vs %q (%.2f)", a.Title, f.Title, similarity)
				continue
			}

			survivors = append(survivors, candidatePair{
				amazon:   a,
				flipkart: f,
				attrsA:   attrsA,
				attrsF:   attrsF,
				nameSim:  similarity,
			})
		}
	}

	if len(survivors) == 0 {
		return nil, domain.ErrNoViableMatch
	}

	// Level cascade: scan all survivors per level, strictest level first,
	// highest combined relevance within the level. Never return early on
	// the first qualifying pair: a better one may come later in iteration.
	levels := []struct {
		level     domain.MatchLevel
		qualifies func(candidatePair) bool
	}{
		{domain.MatchPerfect, qualifiesPerfect},
		{domain.MatchColorStorage, qualifiesColorStorage},
		{domain.MatchColorOnly, qualifiesColorOnly},
	}

	for _, entry := range levels {
		var best *candidatePair
		for i := range survivors {
			pair := &survivors[i]
			if !entry.qualifies(*pair) {
				continue
			}
			if best == nil || pair.relevance() > best.relevance() {
				best = pair
			}
		}
		if best != nil {
			result := &domain.MatchResult{
				Amazon:   best.amazon.Listing,
				Flipkart: best.flipkart.Listing,
				Level:    entry.level,
			}
			if entry.level == domain.MatchColorOnly {
				result.Warnings = []string{
					"storage capacity differs or is unknown; prices may not be directly comparable",
				}
			}
			s.debugf("[MATCH] %s: %q <-> %q", entry.level, best.amazon.Title, best.flipkart.Title)
			return result, nil
		}
	}

	return s.partialFallback(survivors), nil
}

// partialFallback picks, independently per source, the highest-relevance
// listing that survived the gates against at least one counterpart, and
// enumerates every known facet mismatch as a warning.
func (s *MatchingService) partialFallback(survivors []candidatePair) *domain.MatchResult {
	bestA := survivors[0].amazon
	bestF := survivors[0].flipkart
	for _, pair := range survivors[1:] {
		if pair.amazon.Score > bestA.Score {
			bestA = pair.amazon
		}
		if pair.flipkart.Score > bestF.Score {
			bestF = pair.flipkart
		}
	}

	attrsA := ExtractAttributes(bestA.Title)
	attrsF := ExtractAttributes(bestF.Title)

	var warnings []string
	switch {
	case attrsA.Color != nil && attrsF.Color != nil && !strings.EqualFold(*attrsA.Color, *attrsF.Color):
		warnings = append(warnings, fmt.Sprintf("colors do not match (%s vs %s)", *attrsA.Color, *attrsF.Color))
	case attrsA.Color == nil || attrsF.Color == nil:
		warnings = append(warnings, "color unknown on at least one listing")
	}
	switch {
	case attrsA.StorageGB != nil && attrsF.StorageGB != nil && *attrsA.StorageGB != *attrsF.StorageGB:
		warnings = append(warnings, fmt.Sprintf("storage differs (%dGB vs %dGB)", *attrsA.StorageGB, *attrsF.StorageGB))
	case attrsA.StorageGB == nil || attrsF.StorageGB == nil:
		warnings = append(warnings, "storage capacity unknown on at least one listing")
	}
	if attrsA.SizeValue != nil && attrsF.SizeValue != nil && !sizesEqual(attrsA, attrsF) {
		warnings = append(warnings, fmt.Sprintf("sizes differ (%g %s vs %g %s)",
			*attrsA.SizeValue, *attrsA.SizeUnit, *attrsF.SizeValue, *attrsF.SizeUnit))
	}
	warnings = append(warnings, "try a more specific search query to narrow the results")

	s.debugf("[MATCH] partial fallback: %q <-> %q (%d warnings)", bestA.Title, bestF.Title, len(warnings))

	return &domain.MatchResult{
		Amazon:   bestA.Listing,
		Flipkart: bestF.Listing,
		Level:    domain.MatchPartialWithWarning,
		Warnings: warnings,
	}
}

// qualifiesPerfect: storage present and equal on both, color present and
// equal on both, and when either side exposes a size, both must and the
// sizes must agree (same unit, within tolerance)
func qualifiesPerfect(p candidatePair) bool {
	if !storageBothPresentAndEqual(p.attrsA, p.attrsF) {
		return false
	}
	if !colorBothPresentAndEqual(p.attrsA, p.attrsF) {
		return false
	}
	if p.attrsA.SizeValue != nil || p.attrsF.SizeValue != nil {
		return p.attrsA.SizeValue != nil && p.attrsF.SizeValue != nil && sizesEqual(p.attrsA, p.attrsF)
	}
	return true
}

// qualifiesColorStorage: color and storage both present and equal; size not required
func qualifiesColorStorage(p candidatePair) bool {
	return colorBothPresentAndEqual(p.attrsA, p.attrsF) &&
		storageBothPresentAndEqual(p.attrsA, p.attrsF)
}

// qualifiesColorOnly: color present and equal on both sides. Storage is NOT
// a disqualifier here: a side without a storage value in its title must not
// reject a pair the color already supports.
func qualifiesColorOnly(p candidatePair) bool {
	return colorBothPresentAndEqual(p.attrsA, p.attrsF)
}

func colorBothPresentAndEqual(a, f domain.ExtractedAttributes) bool {
	return a.Color != nil && f.Color != nil && strings.EqualFold(*a.Color, *f.Color)
}

// storageBothPresentAndEqual compares storage only when BOTH sides expose a
// value. A single missing side is "unknown", never a mismatch.
func storageBothPresentAndEqual(a, f domain.ExtractedAttributes) bool {
	return a.StorageGB != nil && f.StorageGB != nil && *a.StorageGB == *f.StorageGB
}

// sizesEqual requires an exact unit match (no conversion) and numeric
// agreement within tolerance
func sizesEqual(a, f domain.ExtractedAttributes) bool {
	if a.SizeValue == nil || f.SizeValue == nil || a.SizeUnit == nil || f.SizeUnit == nil {
		return false
	}
	if *a.SizeUnit != *f.SizeUnit {
		return false
	}
	diff := *a.SizeValue - *f.SizeValue
	if diff < 0 {
		diff = -diff
	}
	return diff <= sizeTolerance
}

// brandsMatch compares the leading brand token of two base names. Scrapers
// disagree on whether the manufacturer is part of the title ("iPhone 15" vs
// "Apple iPhone 15"), so a brand also matches when it appears as a whole
// token anywhere in the other base name. Whole tokens only: a short brand
// like "mi" must not match inside "redmi" or "xiaomi".
func brandsMatch(baseA, baseF string) bool {
	brandA := firstAlphaToken(baseA)
	brandF := firstAlphaToken(baseF)
	if brandA == "" || brandF == "" {
		return false
	}
	if brandA == brandF {
		return true
	}
	return containsToken(nameTokens(baseF), brandA) ||
		containsToken(nameTokens(baseA), brandF)
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// firstAlphaToken returns the first all-letter token of a name, lowercased
func firstAlphaToken(name string) string {
	for _, token := range strings.Fields(name) {
		if isAlphabetic(token) {
			return strings.ToLower(token)
		}
	}
	return ""
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}

// nameSimilarity computes token-overlap similarity between two base names:
// shared tokens divided by the smaller token set, so a short name fully
// contained in a longer one scores 1.0. Numeric tokens are kept because
// model numbers ("14" vs "15") are what tell variants apart.
func nameSimilarity(nameA, nameF string) float64 {
	tokensA := nameTokens(nameA)
	tokensF := nameTokens(nameF)
	if len(tokensA) == 0 || len(tokensF) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	overlap := 0
	seen := make(map[string]bool, len(tokensF))
	for _, t := range tokensF {
		if setA[t] && !seen[t] {
			overlap++
			seen[t] = true
		}
	}

	smaller := len(setA)
	setF := make(map[string]bool, len(tokensF))
	for _, t := range tokensF {
		setF[t] = true
	}
	if len(setF) < smaller {
		smaller = len(setF)
	}
	return float64(overlap) / float64(smaller)
}

// nameTokens splits a base name into normalized comparison tokens
func nameTokens(name string) []string {
	cleaned := namePunctuationRegex.ReplaceAllString(strings.ToLower(name), " ")
	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if nameStopWords[word] {
			continue
		}
		if len(word) < 2 && !isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (s *MatchingService) debugf(format string, args ...interface{}) {
	if s.enableDebugLogging {
		log.Printf(format, args...)
	}
}
