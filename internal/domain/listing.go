package domain

// Source identifies which marketplace a listing was scraped from
type Source string

const (
	SourceAmazon   Source = "amazon"
	SourceFlipkart Source = "flipkart"
)

// Listing represents one scraped product record from a marketplace.
// The title is the authoritative source of truth; price, rating and
// review count are nil when the scraper could not parse them.
// Listings are immutable once created and live only for one search request.
type Listing struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"` // 0-5 stars
	ReviewCount *int     `json:"reviewCount,omitempty"`
	URL         string   `json:"url"`
	Source      Source   `json:"source"`
}

// ScoredListing is a Listing plus its semantic similarity to the search
// query. Scores are only comparable within the same query and model version.
type ScoredListing struct {
	Listing
	Score float64 `json:"similarityScore"` // clamped cosine similarity
}

// ExtractedAttributes is a derived view of a listing title: the base product
// name with variant facets (color, storage, size) pulled out. Absent facets
// are nil, never sentinel values. Extraction is deterministic per title.
type ExtractedAttributes struct {
	BaseName  string   `json:"baseName"`
	Color     *string  `json:"color,omitempty"` // title-cased, may be multi-word
	StorageGB *int     `json:"storageGb,omitempty"`
	SizeValue *float64 `json:"sizeValue,omitempty"`
	SizeUnit  *string  `json:"sizeUnit,omitempty"`
}
