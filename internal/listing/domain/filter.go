package domain

import "strings"

// IsEmpty reports whether q constrains nothing.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" && q.MinPrice == 0 && q.MaxPrice == 0
}

// Matches reports whether l satisfies every constraint of q.
func (q Query) Matches(l Listing) bool {
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		haystack := strings.ToLower(l.Title + " " + l.Make + " " + l.Model)
		if !strings.Contains(haystack, text) {
			return false
		}
	}
	if q.MinPrice != 0 && l.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice != 0 && l.Price > q.MaxPrice {
		return false
	}
	return true
}

// FilterListings returns the listings matching q in their original order.
// The input slice is never modified.
func FilterListings(listings []Listing, q Query) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if q.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
