package matching

import "strings"

// noiseMarkers are suffixes station feeds append to titles that never appear
// in catalog metadata. Compared after lowercasing.
var noiseMarkers = []string{
	"(clean)",
	"(dirty)",
	"(explicit)",
	"(radio edit)",
}

// Clean normalizes a scraped metadata field: lowercases, collapses internal
// whitespace, and strips trailing noise markers.
//
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")

	for stripped := true; stripped; {
		stripped = false
		for _, marker := range noiseMarkers {
			if strings.HasSuffix(s, marker) {
				s = strings.TrimSpace(strings.TrimSuffix(s, marker))
				stripped = true
			}
		}
	}

	return s
}

// QueryKey builds the change-detection key for a now-playing observation.
//
// The key is what the monitor compares between cycles; two observations with
// the same key are the same song.
func QueryKey(artist, title string) string {
	return Clean(artist) + "|" + Clean(title)
}

// SearchQuery builds the combined free-text catalog search query for a
// now-playing observation.
func SearchQuery(artist, title string) string {
	return strings.TrimSpace(Clean(artist) + " " + Clean(title))
}
