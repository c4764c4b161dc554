package curation

import (
	"math/rand"
	"sort"

	"videohub/internal/catalog"
)

// Comparator orders two videos by priority; it reports whether a should be
// picked before b.
type Comparator func(a, b catalog.Video) bool

// SelectDiverse returns up to count records spreading picks across categories:
// records are grouped by category, each group is ordered by less, the group
// order is shuffled, and picks proceed in rounds so every category contributes
// one record before any category contributes a second. If round-robin cannot
// fill count, remaining eligible records are appended in priority order.
//
// Records whose id is in used are never selected, and every selected id is
// added to used, so threading one set across calls keeps sections disjoint.
// rng randomizes the category order; pass nil for unseeded shuffling.
func SelectDiverse(records []catalog.Video, used map[string]struct{}, count int, less Comparator, rng *rand.Rand) []catalog.Video {
	if count <= 0 || len(records) == 0 {
		return nil
	}

	groups := make(map[string][]catalog.Video)
	categories := make([]string, 0)
	for _, v := range records {
		if _, taken := used[v.ID]; taken {
			continue
		}
		if _, seen := groups[v.Category]; !seen {
			categories = append(categories, v.Category)
		}
		groups[v.Category] = append(groups[v.Category], v)
	}
	if len(categories) == 0 {
		return nil
	}

	for _, cat := range categories {
		group := groups[cat]
		sort.SliceStable(group, func(i, j int) bool { return less(group[i], group[j]) })
	}

	shuffle(categories, rng)

	selected := make([]catalog.Video, 0, count)
	for round := 0; ; round++ {
		progressed := false
		for _, cat := range categories {
			group := groups[cat]
			if round >= len(group) {
				continue
			}
			progressed = true
			v := group[round]
			selected = append(selected, v)
			used[v.ID] = struct{}{}
			if len(selected) == count {
				return selected
			}
		}
		if !progressed {
			break
		}
	}

	// Backfill from whatever round-robin left behind, best first.
	remaining := make([]catalog.Video, 0)
	for _, cat := range categories {
		for _, v := range groups[cat] {
			if _, taken := used[v.ID]; !taken {
				remaining = append(remaining, v)
			}
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool { return less(remaining[i], remaining[j]) })
	for _, v := range remaining {
		if len(selected) == count {
			break
		}
		selected = append(selected, v)
		used[v.ID] = struct{}{}
	}

	return selected
}

func shuffle(categories []string, rng *rand.Rand) {
	swap := func(i, j int) { categories[i], categories[j] = categories[j], categories[i] }
	if rng != nil {
		rng.Shuffle(len(categories), swap)
		return
	}
	rand.Shuffle(len(categories), swap)
}
