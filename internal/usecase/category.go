package usecase

import "strings"

// productCategory is a coarse product class inferred from title tokens. The
// category gate only rejects a pair when BOTH sides classify into different
// non-general categories: false negatives (everything falling back to
// general) are acceptable, cross-category false positives are not.
type productCategory string

const (
	categoryPhone           productCategory = "phone"
	categoryPhoneCase       productCategory = "phone_case"
	categoryScreenProtector productCategory = "screen_protector"
	categoryAccessory       productCategory = "accessory"
	categorySkincare        productCategory = "skincare"
	categoryElectronics     productCategory = "electronics"
	categoryGeneral         productCategory = "general"
)

// Coverage note: only the categories above are enumerated; anything else
// classifies as general and passes the gate. The heuristic errs toward
// general on ambiguity.
var categoryKeywords = []struct {
	category productCategory
	keywords []string
}{
	{categoryScreenProtector, []string{"tempered glass", "screen protector", "glass protector"}},
	{categoryPhoneCase, []string{"back cover", "flip case", "flip cover", "protective case", "bumper", "cover", "case"}},
	{categoryAccessory, []string{"charger", "charging cable", "usb cable", "adapter", "power bank"}},
	{categorySkincare, []string{"ointment", "lotion", "serum", "moisturizer", "sunscreen", "face cream"}},
	{categoryElectronics, []string{"tablet", "ipad", "laptop", "monitor", "television", " tv "}},
	{categoryPhone, []string{"smartphone", "mobile phone", "mobile", "phone", "android"}},
}

// detectCategory classifies a listing title into a coarse product category.
// Accessory-like keywords are checked before device keywords so that
// "iPhone 15 Back Cover" classifies as phone_case, not phone.
func detectCategory(title string) productCategory {
	lower := " " + strings.ToLower(title) + " "
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return categoryGeneral
}

// categoriesCompatible reports whether two categories may be matched.
// General is compatible with everything.
func categoriesCompatible(a, b productCategory) bool {
	if a == categoryGeneral || b == categoryGeneral {
		return true
	}
	return a == b
}
