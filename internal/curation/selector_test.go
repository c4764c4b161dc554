package curation

import (
	"math/rand"
	"testing"

	"videohub/internal/catalog"
)

func byViewsDesc(a, b catalog.Video) bool { return a.Views > b.Views }

// catalogWithCategories builds counts[i] records in category i, with views
// descending within each category so priority order is predictable.
func catalogWithCategories(counts ...int) []catalog.Video {
	var records []catalog.Video
	for ci, n := range counts {
		cat := string(rune('A' + ci))
		for i := 0; i < n; i++ {
			records = append(records, catalog.Video{
				ID:       cat + string(rune('0'+i)),
				Category: cat,
				Views:    int64(1000*(ci+1) - i),
			})
		}
	}
	return records
}

func TestSelectDiverse_cap_respected(t *testing.T) {
	records := catalogWithCategories(4, 2, 1)
	used := make(map[string]struct{})

	got := SelectDiverse(records, used, 3, byViewsDesc, rand.New(rand.NewSource(1)))
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}

	// More than the catalog holds: everything eligible is returned, no more.
	used = make(map[string]struct{})
	got = SelectDiverse(records, used, 50, byViewsDesc, rand.New(rand.NewSource(1)))
	if len(got) != 7 {
		t.Errorf("len = %d, want all 7", len(got))
	}
}

func TestSelectDiverse_no_reselection(t *testing.T) {
	records := catalogWithCategories(3, 3)
	used := map[string]struct{}{"A0": {}, "B0": {}}

	got := SelectDiverse(records, used, 10, byViewsDesc, rand.New(rand.NewSource(2)))
	for _, v := range got {
		if v.ID == "A0" || v.ID == "B0" {
			t.Errorf("selected already-used id %q", v.ID)
		}
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4 remaining", len(got))
	}
}

func TestSelectDiverse_threads_used_set(t *testing.T) {
	records := catalogWithCategories(4, 4, 4)
	used := make(map[string]struct{})

	first := SelectDiverse(records, used, 5, byViewsDesc, rand.New(rand.NewSource(3)))
	second := SelectDiverse(records, used, 5, byViewsDesc, rand.New(rand.NewSource(4)))

	seen := make(map[string]struct{})
	for _, v := range first {
		seen[v.ID] = struct{}{}
	}
	for _, v := range second {
		if _, dup := seen[v.ID]; dup {
			t.Errorf("id %q appears in both selections", v.ID)
		}
	}
	if len(used) != len(first)+len(second) {
		t.Errorf("used set size = %d, want %d", len(used), len(first)+len(second))
	}
}

func TestSelectDiverse_round_robin_across_categories(t *testing.T) {
	// Scenario: 3 categories holding 4, 2, 1 records; selecting 5 must span
	// all 3 categories before any category contributes twice.
	records := catalogWithCategories(4, 2, 1)
	used := make(map[string]struct{})

	got := SelectDiverse(records, used, 5, byViewsDesc, rand.New(rand.NewSource(5)))
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}

	firstRound := map[string]int{}
	for _, v := range got[:3] {
		firstRound[v.Category]++
	}
	if len(firstRound) != 3 {
		t.Errorf("first three picks span %d categories, want 3 (%v)", len(firstRound), firstRound)
	}
	// The second round can only draw from categories with 2+ records.
	for _, v := range got[3:] {
		if v.Category == "C" {
			t.Errorf("category C has a single record but contributed twice")
		}
	}
	// Within a category, picks follow the priority order.
	for cat, want := range map[string]string{"A": "A0", "B": "B0", "C": "C0"} {
		found := false
		for _, v := range got {
			if v.Category == cat && v.ID == want {
				found = true
			}
		}
		if !found {
			t.Errorf("best-of-category %s (%s) missing from selection", cat, want)
		}
	}
}

func TestSelectDiverse_degenerate_inputs(t *testing.T) {
	used := make(map[string]struct{})
	if got := SelectDiverse(nil, used, 5, byViewsDesc, nil); got != nil {
		t.Errorf("empty catalog should yield nil, got %+v", got)
	}
	if got := SelectDiverse(catalogWithCategories(2), used, 0, byViewsDesc, nil); got != nil {
		t.Errorf("count 0 should yield nil, got %+v", got)
	}

	// Everything already used.
	used = map[string]struct{}{"A0": {}, "A1": {}}
	if got := SelectDiverse(catalogWithCategories(2), used, 5, byViewsDesc, nil); got != nil {
		t.Errorf("fully-used catalog should yield nil, got %+v", got)
	}
}

func TestSelectDiverse_all_ids_distinct(t *testing.T) {
	records := catalogWithCategories(5, 3, 2, 2)
	used := make(map[string]struct{})

	got := SelectDiverse(records, used, 12, byViewsDesc, rand.New(rand.NewSource(6)))
	seen := make(map[string]struct{})
	for _, v := range got {
		if _, dup := seen[v.ID]; dup {
			t.Errorf("duplicate id %q in selection", v.ID)
		}
		seen[v.ID] = struct{}{}
	}
}
