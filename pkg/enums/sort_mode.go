package enums

// SortMode selects the catalog list ordering. Unknown values fall back to
// newest-first, matching the storefront contract.
type SortMode string

const (
	SortModePriceAsc   SortMode = "priceAsc"
	SortModePriceDesc  SortMode = "priceDesc"
	SortModePopularity SortMode = "popularity"
	SortModeDefault    SortMode = ""
)

var validSortModes = []SortMode{
	SortModePriceAsc,
	SortModePriceDesc,
	SortModePopularity,
	SortModeDefault,
}

// String implements fmt.Stringer.
func (s SortMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortMode.
func (s SortMode) IsValid() bool {
	for _, candidate := range validSortModes {
		if candidate == s {
			return true
		}
	}
	return false
}
