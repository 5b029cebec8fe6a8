// README: Persona catalogue mapping travel styles to preferred Places categories.
package scoring

import "strings"

// Persona is a named travel-style preference such as "history_buff".
type Persona string

// Foodie never boosts attractions; its preferences apply to restaurants, which
// are scored without persona weighting.
const Foodie Persona = "foodie"

var personaTags = map[Persona][]string{
	"history_buff": {"museum", "church", "hindu_temple", "mosque", "synagogue", "city_hall", "cemetery", "library", "historical_landmark"},
	"art_lover":    {"art_gallery", "museum", "painter", "performing_arts_theater"},
	"nature_lover": {"park", "natural_feature", "campground", "zoo", "aquarium", "national_park", "hiking_area"},
	"adventurer":   {"amusement_park", "campground", "stadium", "tourist_attraction", "hiking_area"},
	"family":       {"amusement_park", "aquarium", "zoo", "park", "bowling_alley", "movie_theater"},
	"nightlife":    {"night_club", "bar", "casino", "movie_theater"},
	"shopper":      {"shopping_mall", "clothing_store", "department_store", "book_store", "jewelry_store", "market"},
	"spiritual":    {"church", "hindu_temple", "mosque", "synagogue", "place_of_worship"},
	Foodie:         {"restaurant", "cafe", "bakery", "meal_takeaway", "bar"},
}

// ParsePersona normalises user input such as "History Buff" to a Persona key.
func ParsePersona(s string) Persona {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return Persona(s)
}

// Known reports whether p is in the catalogue.
func (p Persona) Known() bool {
	_, ok := personaTags[p]
	return ok
}

// PreferredTags returns the categories p boosts, or nil for unknown personas.
func (p Persona) PreferredTags() []string {
	return personaTags[p]
}

// preferenceSet merges the preferred tags of every known non-foodie persona.
// A nil result disables persona scoring.
func preferenceSet(personas []Persona) map[string]struct{} {
	var set map[string]struct{}
	for _, p := range personas {
		if p == Foodie || !p.Known() {
			continue
		}
		if set == nil {
			set = make(map[string]struct{})
		}
		for _, tag := range personaTags[p] {
			set[tag] = struct{}{}
		}
	}
	return set
}
