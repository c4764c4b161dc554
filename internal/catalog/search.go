package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DurationBand buckets videos by length for the duration filter.
type DurationBand string

const (
	BandAll   DurationBand = "all"
	BandTiny  DurationBand = "tiny"  // under 2.5 minutes
	BandShort DurationBand = "short" // 2.5 to 7 minutes
	BandLong  DurationBand = "long"  // 7 minutes and up
)

// InBand reports whether the video's duration falls in the given band.
func (v Video) InBand(band DurationBand) bool {
	mins := v.Minutes()
	switch band {
	case BandTiny:
		return mins < 2.5
	case BandShort:
		return mins >= 2.5 && mins < 7
	case BandLong:
		return mins >= 7
	default:
		return true
	}
}

// FilterBand returns the subset of records in the given duration band.
func FilterBand(records []Video, band DurationBand) []Video {
	if band == "" || band == BandAll {
		return records
	}
	out := make([]Video, 0, len(records))
	for _, v := range records {
		if v.InBand(band) {
			out = append(out, v)
		}
	}
	return out
}

// searchSynonyms expands a query term to its common equivalents so that
// near-miss queries still land on matching titles.
var searchSynonyms = map[string][]string{
	"movie":    {"film", "feature"},
	"film":     {"movie", "feature"},
	"clip":     {"short", "snippet"},
	"funny":    {"comedy", "humor", "humour"},
	"comedy":   {"funny", "humor"},
	"tutorial": {"howto", "guide", "lesson"},
	"music":    {"song", "track", "audio"},
	"song":     {"music", "track"},
	"car":      {"auto", "automobile", "vehicle"},
	"cat":      {"kitten", "feline"},
	"dog":      {"puppy", "canine"},
}

// stripMarks removes combining diacritical marks after NFD decomposition.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText lowercases, strips diacritics, replaces punctuation with
// spaces, and collapses runs of whitespace.
func NormalizeText(text string) string {
	lowered := strings.ToLower(text)
	if stripped, _, err := transform.String(stripMarks, lowered); err == nil {
		lowered = stripped
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// expandTerms returns the normalized query plus any synonyms, deduplicated.
func expandTerms(query string) []string {
	base := NormalizeText(query)
	if base == "" {
		return nil
	}
	terms := []string{base}
	for _, syn := range searchSynonyms[base] {
		terms = append(terms, NormalizeText(syn))
	}
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Relevance scores how well a title matches a search term. Exact match wins,
// then prefix, then substring, then per-word agreement.
func Relevance(title, term string) int {
	if term == "" {
		return 0
	}
	titleNorm := NormalizeText(title)
	termNorm := NormalizeText(term)

	switch {
	case titleNorm == termNorm:
		return 1000
	case strings.HasPrefix(titleNorm, termNorm):
		return 800
	case strings.Contains(titleNorm, termNorm):
		return 600
	}

	searchWords := strings.Fields(termNorm)
	titleWords := strings.Fields(titleNorm)
	if len(searchWords) == 0 {
		return 0
	}

	relevance := 0
	found := 0
	for _, sw := range searchWords {
		matched := false
		for _, tw := range titleWords {
			switch {
			case tw == sw:
				relevance += 200
				matched = true
			case strings.Contains(tw, sw):
				relevance += 100
				matched = true
			case strings.Contains(sw, tw):
				relevance += 50
				matched = true
			}
		}
		if matched {
			found++
		}
	}
	relevance += found * 100 / len(searchWords)
	return relevance
}

// matchTerm reports whether a single normalized term matches the normalized
// title. Multi-word terms require every word to match; very short words must
// appear verbatim.
func matchTerm(titleNorm, term string) bool {
	words := strings.Fields(term)
	switch len(words) {
	case 0:
		return true
	case 1:
		return strings.Contains(titleNorm, words[0])
	}
	titleWords := strings.Fields(titleNorm)
	for _, w := range words {
		if len(w) <= 2 {
			if !strings.Contains(titleNorm, w) {
				return false
			}
			continue
		}
		if strings.Contains(titleNorm, w) {
			continue
		}
		ok := false
		for _, tw := range titleWords {
			if strings.Contains(tw, w) || strings.Contains(w, tw) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// categoryText flattens a category key like "/c/Road_Trips-22" into
// searchable words.
func categoryText(v Video) string {
	value := strings.TrimPrefix(v.Category, "/c/")
	value = strings.NewReplacer("-", " ", "_", " ").Replace(value)
	value = strings.TrimRight(value, "0123456789 ")
	return NormalizeText(value + " " + v.CategoryLabel)
}

// Search returns the records matching the query by title or category,
// ordered by descending relevance. An empty query returns all records.
func Search(records []Video, query string) []Video {
	terms := expandTerms(query)
	if len(terms) == 0 {
		out := make([]Video, len(records))
		copy(out, records)
		return out
	}

	type scored struct {
		video Video
		score int
	}
	var results []scored
	for _, v := range records {
		titleNorm := NormalizeText(v.Title)
		catNorm := categoryText(v)
		best := 0
		matched := false
		for _, term := range terms {
			if matchTerm(titleNorm, term) || matchTerm(catNorm, term) {
				matched = true
			}
			if s := Relevance(v.Title, term); s > best {
				best = s
			}
		}
		if matched {
			results = append(results, scored{video: v, score: best})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	out := make([]Video, len(results))
	for i, r := range results {
		out[i] = r.video
	}
	return out
}
