package curation

import (
	"math/rand"
	"sort"

	"videohub/internal/catalog"
)

// Section caps for the three home page sections.
const (
	HeroCap        = 5
	MostViewedCap  = 9
	RecommendedCap = 9
)

// Recommended picks are restricted to mid-length videos.
const (
	recommendedMinSeconds = 5 * 60
	recommendedMaxSeconds = 15 * 60
)

// SelectionResult holds the three curated home sections. No video id appears
// in more than one section.
type SelectionResult struct {
	Hero        []catalog.Video `json:"hero"`
	MostViewed  []catalog.Video `json:"mostViewed"`
	Recommended []catalog.Video `json:"recommended"`
}

// ByRating orders by rating percentage, breaking ties on good votes.
func ByRating(a, b catalog.Video) bool {
	if a.RatingPercent != b.RatingPercent {
		return a.RatingPercent > b.RatingPercent
	}
	return a.GoodVotes > b.GoodVotes
}

// ByViews orders by view count, breaking ties on total votes.
func ByViews(a, b catalog.Video) bool {
	if a.Views != b.Views {
		return a.Views > b.Views
	}
	return a.TotalVotes > b.TotalVotes
}

// BuildHome curates the three home sections from a catalog snapshot.
// One used-id set is threaded through all three picks, which is what keeps
// the sections pairwise disjoint without a second pass.
func BuildHome(snap *catalog.Snapshot, rng *rand.Rand) SelectionResult {
	records := snap.Records()
	used := make(map[string]struct{})

	return SelectionResult{
		Hero:        selectHero(records, used),
		MostViewed:  SelectDiverse(records, used, MostViewedCap, ByViews, rng),
		Recommended: selectRecommended(records, used),
	}
}

// selectHero picks one best-rated video from each of the largest categories,
// at most HeroCap in total. Unlike the round-robin sections, the hero row
// never takes a second video from the same category.
func selectHero(records []catalog.Video, used map[string]struct{}) []catalog.Video {
	groups := make(map[string][]catalog.Video)
	categories := make([]string, 0)
	for _, v := range records {
		if _, seen := groups[v.Category]; !seen {
			categories = append(categories, v.Category)
		}
		groups[v.Category] = append(groups[v.Category], v)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return len(groups[categories[i]]) > len(groups[categories[j]])
	})
	if len(categories) > HeroCap {
		categories = categories[:HeroCap]
	}

	hero := make([]catalog.Video, 0, HeroCap)
	for _, cat := range categories {
		var best *catalog.Video
		for i, v := range groups[cat] {
			if _, taken := used[v.ID]; taken {
				continue
			}
			if best == nil || ByRating(v, *best) {
				best = &groups[cat][i]
			}
		}
		if best != nil {
			hero = append(hero, *best)
			used[best.ID] = struct{}{}
		}
		if len(hero) == HeroCap {
			break
		}
	}
	return hero
}

// selectRecommended picks best-rated mid-length videos, preferring one per
// category before allowing repeats to fill the cap.
func selectRecommended(records []catalog.Video, used map[string]struct{}) []catalog.Video {
	candidates := make([]catalog.Video, 0)
	for _, v := range records {
		if _, taken := used[v.ID]; taken {
			continue
		}
		if v.DurationSeconds < recommendedMinSeconds || v.DurationSeconds > recommendedMaxSeconds {
			continue
		}
		candidates = append(candidates, v)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return ByRating(candidates[i], candidates[j]) })

	recommended := make([]catalog.Video, 0, RecommendedCap)
	pickedCategories := make(map[string]struct{})
	for _, v := range candidates {
		if len(recommended) == RecommendedCap {
			break
		}
		if _, dup := pickedCategories[v.Category]; dup {
			continue
		}
		recommended = append(recommended, v)
		pickedCategories[v.Category] = struct{}{}
		used[v.ID] = struct{}{}
	}

	// Fill with remaining candidates once every category has had its turn.
	for _, v := range candidates {
		if len(recommended) == RecommendedCap {
			break
		}
		if _, taken := used[v.ID]; taken {
			continue
		}
		recommended = append(recommended, v)
		used[v.ID] = struct{}{}
	}
	return recommended
}
