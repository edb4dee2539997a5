package domain

// MatchLevel is the strictness tier at which two listings were judged to be
// the same product. Lower values are stricter.
type MatchLevel int

const (
	// MatchPerfect: storage, color and (when present) size all agree
	MatchPerfect MatchLevel = iota
	// MatchColorStorage: color and storage agree, size not required
	MatchColorStorage
	// MatchColorOnly: color agrees; storage differs or is unknown on a side
	MatchColorOnly
	// MatchPartialWithWarning: no facet agreement required; warnings mandatory
	MatchPartialWithWarning
)

// String returns the wire/report name of the match level
func (l MatchLevel) String() string {
	switch l {
	case MatchPerfect:
		return "perfect"
	case MatchColorStorage:
		return "color_storage"
	case MatchColorOnly:
		return "color_only"
	case MatchPartialWithWarning:
		return "partial_with_warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so levels render as names in JSON
func (l MatchLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// MatchResult pairs one Amazon listing with one Flipkart listing. Warnings is
// non-empty whenever Level is MatchPartialWithWarning.
type MatchResult struct {
	Amazon   Listing    `json:"amazon"`
	Flipkart Listing    `json:"flipkart"`
	Level    MatchLevel `json:"matchLevel"`
	Warnings []string   `json:"warnings,omitempty"`
}

// ComparisonResult is a pure function of the two listings in a MatchResult.
// PriceDiffPct is nil when either price is missing.
type ComparisonResult struct {
	CheaperSource      Source   `json:"cheaperSource,omitempty"`
	PriceDiffPct       *float64 `json:"priceDiffPct,omitempty"`
	BetterRatedSource  Source   `json:"betterRatedSource,omitempty"`
	MoreReviewedSource Source   `json:"moreReviewedSource,omitempty"`
	Recommendation     string   `json:"recommendation"`
}

// SearchStatus describes the outcome of one search-and-compare request
type SearchStatus string

const (
	// StatusMatched: a cross-source pair was found and compared
	StatusMatched SearchStatus = "matched"
	// StatusNoMatch: both sources returned listings but no pair passed the gates
	StatusNoMatch SearchStatus = "no_match"
	// StatusPartial: only one source returned usable listings
	StatusPartial SearchStatus = "partial"
	// StatusNotFound: neither source returned usable listings
	StatusNotFound SearchStatus = "not_found"
)

// SearchResult is the full output of the comparison pipeline for one query.
// When Status is no_match the per-source candidate lists carry the best
// unmatched listings so the caller can still show something useful.
type SearchResult struct {
	Query              string            `json:"query"`
	Status             SearchStatus      `json:"status"`
	Match              *MatchResult      `json:"match,omitempty"`
	Comparison         *ComparisonResult `json:"comparison,omitempty"`
	AmazonCandidates   []ScoredListing   `json:"amazonCandidates,omitempty"`
	FlipkartCandidates []ScoredListing   `json:"flipkartCandidates,omitempty"`
}
