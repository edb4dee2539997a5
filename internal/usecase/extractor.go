package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	storageRegex   = regexp.MustCompile(`(?i)(\d+)\s*(GB|TB)\b`)
	sizeRegex      = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(oz|ounce|ml|kg|lbs?|inch|in|cm|gm|gram|g)\b`)
	trailingDash   = regexp.MustCompile(`\s*-\s*([A-Za-z0-9][A-Za-z0-9 ]*)$`)
	parenSegment   = regexp.MustCompile(`\(([A-Za-z][A-Za-z0-9 ]*)(?:,|\))`)
	emptyParens    = regexp.MustCompile(`\(\s*[,;]*\s*\)`)
	multiSpace     = regexp.MustCompile(`\s+`)
	orphanedPunct  = regexp.MustCompile(`\s+[,\-;:|]+\s+`)
	boundaryPunct  = regexp.MustCompile(`^\s*[,\-;:|]+|[,\-;:|(]+\s*$`)
	specLikeDigits = regexp.MustCompile(`(?i)^\d+\s*(GB|TB|MP|RAM|mAh|Hz)`)
)

// colorNames is the known color lexicon. Multi-word entries come first so
// they win over their single-word substrings (e.g. "Space Black" vs "Black").
var colorNames = []string{
	// Multi-word colors
	"Cosmic Orange", "Deep Blue", "Space Black", "Midnight Black", "Sierra Blue",
	"Desert Titanium", "Natural Titanium", "Blue Titanium", "Black Titanium",
	"White Titanium", "Pacific Blue", "Alpine Green", "Gold Titanium",
	"Silver Titanium", "Dark Purple", "Light Purple", "Forest Green",
	"Ocean Blue", "Sky Blue", "Phantom Black", "Phantom White",
	"Phantom Silver", "Midnight Green", "Product Red", "Starlight Blue",
	"Starlight Green", "Starlight Black", "Starlight White", "Glacier White",
	"Pearl White", "Pearl Black", "Marble White", "Marble Black",
	"Space Gray", "Space Grey", "Rose Gold",
	// Single-word colors
	"Black", "White", "Silver", "Gold", "Red", "Blue", "Green",
	"Purple", "Pink", "Orange", "Yellow", "Brown", "Grey", "Gray",
	"Titanium", "Rose", "Pearl", "Phantom", "Midnight", "Starlight",
	"Glacier", "Alpine", "Pacific", "Desert", "Cosmic", "Sierra",
	"Ebony", "Ivory", "Marble", "Onyx",
}

// colorLexiconRegex matches any known color name, longest entries first so a
// multi-word color is preferred over its single-word substring.
var colorLexiconRegex = buildColorRegex()

func buildColorRegex() *regexp.Regexp {
	names := make([]string, len(colorNames))
	copy(names, colorNames)
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	for i, name := range names {
		names[i] = regexp.QuoteMeta(name)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
}

// parenNonColorSpecs are parenthetical contents that look like specs, not colors
var parenNonColorSpecs = []string{
	"gb", "tb", "mb", "ram", "rom", "storage", "processor", "chip", "inch", "inches",
}

// sizeUnitSynonyms folds unit spellings together. No cross-unit conversion
// happens anywhere; two listings only size-match on the same unit.
var sizeUnitSynonyms = map[string]string{
	"gm": "g", "gram": "g", "ounce": "oz", "lbs": "lb", "in": "inch",
}

// ExtractAttributes parses a listing title into a base name and optional
// color, storage and size facets. It never fails: a facet the title does not
// expose is simply nil in the result. Calling it twice on the same title
// yields identical results.
func ExtractAttributes(title string) domain.ExtractedAttributes {
	attrs := domain.ExtractedAttributes{BaseName: strings.TrimSpace(title)}
	if attrs.BaseName == "" {
		return attrs
	}

	base := attrs.BaseName

	// Storage: prefer a candidate inside parentheses, else the first one
	if loc := findStorage(title); loc != nil {
		gb, err := strconv.Atoi(title[loc[2]:loc[3]])
		if err == nil {
			if strings.EqualFold(title[loc[4]:loc[5]], "TB") {
				gb *= 1024
			}
			attrs.StorageGB = &gb
			base = strings.Replace(base, title[loc[0]:loc[1]], " ", 1)
		}
	}

	// Color: trailing dash segment, then parenthetical, then lexicon scan
	color, remaining := extractColor(title)
	if color != "" {
		attrs.Color = &color
		// Re-apply the storage strip to the color-adjusted base
		if attrs.StorageGB != nil {
			remaining = storageRegex.ReplaceAllString(remaining, " ")
		}
		base = remaining
	}

	// Size: number + unit, captured separately, no unit conversion.
	// Searched in the full title so sizes inside a stripped parenthetical
	// segment are still found.
	if m := findSize(title); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			unit := strings.ToLower(m[2])
			if canonical, ok := sizeUnitSynonyms[unit]; ok {
				unit = canonical
			}
			attrs.SizeValue = &value
			attrs.SizeUnit = &unit
			base = strings.Replace(base, m[0], " ", 1)
		}
	}

	attrs.BaseName = cleanBaseName(base)
	return attrs
}

// findStorage returns the submatch indexes of the preferred storage token:
// the first candidate inside parentheses, else the first candidate anywhere.
func findStorage(title string) []int {
	matches := storageRegex.FindAllStringSubmatchIndex(title, -1)
	if len(matches) == 0 {
		return nil
	}
	for _, m := range matches {
		if insideParens(title, m[0]) {
			return m
		}
	}
	return matches[0]
}

// networkGenTokens are cellular-generation markers that the size regex would
// otherwise misread as gram weights ("5G" is not 5 grams)
var networkGenTokens = map[string]bool{"3g": true, "4g": true, "5g": true}

// findSize returns the first size submatch in the title, skipping cellular
// network markers
func findSize(title string) []string {
	for _, m := range sizeRegex.FindAllStringSubmatch(title, -1) {
		compact := strings.ToLower(strings.ReplaceAll(m[0], " ", ""))
		if networkGenTokens[compact] {
			continue
		}
		return m
	}
	return nil
}

// insideParens reports whether position pos sits inside an open parenthesis
func insideParens(s string, pos int) bool {
	depth := 0
	for _, r := range s[:pos] {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

// extractColor applies the three color strategies in priority order and
// returns the normalized color plus the title with the color removed.
// An empty color means no strategy matched.
func extractColor(title string) (string, string) {
	// Strategy 1: trailing dash-separated segment ("<name> - <Color>")
	if m := trailingDash.FindStringSubmatchIndex(title); m != nil {
		segment := strings.TrimSpace(title[m[2]:m[3]])
		if len(segment) > 1 && !specLikeDigits.MatchString(segment) {
			return titleCase(segment), title[:m[0]]
		}
	}

	// Strategy 2: leading parenthetical segment ("(<Color>, <specs>)")
	if m := parenSegment.FindStringSubmatchIndex(title); m != nil {
		segment := strings.TrimSpace(title[m[2]:m[3]])
		if len(segment) > 1 && !looksLikeSpec(segment) {
			return titleCase(segment), title[:m[0]]
		}
	}

	// Strategy 3: first known color token anywhere in the title,
	// multi-word entries before their single-word substrings
	if m := colorLexiconRegex.FindStringIndex(title); m != nil {
		color := titleCase(title[m[0]:m[1]])
		return color, title[:m[0]] + " " + title[m[1]:]
	}

	return "", title
}

// looksLikeSpec reports whether a parenthetical segment is a technical spec
// rather than a color (e.g. "128 GB", "8GB RAM")
func looksLikeSpec(segment string) bool {
	lower := strings.ToLower(segment)
	for _, spec := range parenNonColorSpecs {
		if strings.Contains(lower, spec) {
			return true
		}
	}
	return false
}

// titleCase capitalizes the first letter of each word ("deep blue" -> "Deep Blue")
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// cleanBaseName collapses whitespace and strips punctuation orphaned by
// facet removal (lone dashes, empty parentheses, trailing commas)
func cleanBaseName(s string) string {
	s = emptyParens.ReplaceAllString(s, " ")
	s = orphanedPunct.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = boundaryPunct.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
