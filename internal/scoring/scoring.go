// README: Deterministic ranking of search candidates (quality, diversity, confidence, persona).
package scoring

import (
	"math"
	"sort"

	"tripwise/internal/types"
)

// Score ranks candidates of one kind. Results are sorted by Total descending;
// ties keep their input order (sort.SliceStable). Personas only affect attractions.
// Score never fails: missing data degrades to the documented defaults.
func Score(kind types.Kind, candidates []types.Candidate, personas []Persona) []ScoredCandidate {
	if kind == types.KindRestaurant {
		return RankRestaurants(candidates)
	}
	return RankAttractions(candidates, personas)
}

// RankAttractions scores a batch of attractions together, since diversity
// depends on the tags of the whole batch.
func RankAttractions(candidates []types.Candidate, personas []Persona) []ScoredCandidate {
	prefs := preferenceSet(personas)
	w := attractionNoPersona
	if prefs != nil {
		w = attractionWithPersona
	}

	freq := sharedTagFrequency(candidates)
	maxFreq := 0
	for _, n := range freq {
		if n > maxFreq {
			maxFreq = n
		}
	}

	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		quality := Quality(c.Rating, c.RatingCount)
		confidence := Confidence(c.RatingCount)
		diversity := diversityScore(c.Tags, freq, maxFreq)
		persona := personaScore(c.Tags, prefs)

		total := quality*w.quality + diversity*w.diversity + confidence*w.confidence
		if prefs != nil {
			total += persona * w.persona
		}

		d, p := round1(diversity), round1(persona)
		out = append(out, ScoredCandidate{
			Candidate: c,
			Score: ScoreBreakdown{
				Quality:      round1(quality),
				Diversity:    &d,
				PersonaMatch: &p,
				Confidence:   round1(confidence),
				Total:        round1(clamp(total)),
			},
		})
	}
	sortByTotal(out)
	return out
}

// RankRestaurants scores restaurants on quality and confidence only.
func RankRestaurants(candidates []types.Candidate) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		quality := Quality(c.Rating, c.RatingCount)
		confidence := Confidence(c.RatingCount)
		total := quality*restaurantWeights.quality + confidence*restaurantWeights.confidence
		out = append(out, ScoredCandidate{
			Candidate: c,
			Score: ScoreBreakdown{
				Quality:    round1(quality),
				Confidence: round1(confidence),
				Total:      round1(clamp(total)),
			},
		})
	}
	sortByTotal(out)
	return out
}

// Quality blends the rating with a log-scaled volume bonus, capped at 100.
// Returns 0 when either signal is missing.
func Quality(rating float64, count int) float64 {
	if rating <= 0 || count <= 0 || math.IsNaN(rating) {
		return 0
	}
	q := (rating/5)*60 + (math.Log10(float64(count)+1)/5)*40
	return clamp(q)
}

// Confidence reflects how trustworthy the rating is given its volume.
func Confidence(count int) float64 {
	switch {
	case count > 100:
		return confidenceHigh
	case count > 20:
		return confidenceMedium
	default:
		return confidenceDefault
	}
}

// sharedTagFrequency counts, per tag, how many other candidates in the batch
// carry it. Duplicate tags on one candidate count once.
func sharedTagFrequency(candidates []types.Candidate) map[string]int {
	freq := make(map[string]int)
	for _, c := range candidates {
		for tag := range uniqueTags(c.Tags) {
			freq[tag]++
		}
	}
	for tag := range freq {
		freq[tag]--
	}
	return freq
}

// diversityScore rewards candidates owning at least one rare tag.
func diversityScore(tags []string, freq map[string]int, maxFreq int) float64 {
	if len(tags) == 0 || maxFreq == 0 {
		return 100
	}
	minFreq := math.MaxInt
	for tag := range uniqueTags(tags) {
		if n := freq[tag]; n < minFreq {
			minFreq = n
		}
	}
	return clamp(100 * (1 - float64(minFreq)/float64(maxFreq)))
}

func personaScore(tags []string, prefs map[string]struct{}) float64 {
	if prefs == nil {
		return personaMiss
	}
	for _, tag := range tags {
		if _, ok := prefs[tag]; ok {
			return personaHit
		}
	}
	return personaMiss
}

func uniqueTags(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func sortByTotal(s []ScoredCandidate) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score.Total > s[j].Score.Total
	})
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
