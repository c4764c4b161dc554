package multiplayer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"videohub/internal/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubResolver returns canned links, optionally blocking until released.
type stubResolver struct {
	links   []string
	err     error
	release chan struct{}
}

func (r *stubResolver) Resolve(ctx context.Context, pageURL string) ([]string, error) {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.links, r.err
}

func fourVideoSnapshot() *catalog.Snapshot {
	var records []catalog.Video
	for _, id := range []string{"a", "b", "c", "d"} {
		records = append(records, catalog.Video{
			ID:      id,
			PageURL: "https://example.com/watch/" + id,
		})
	}
	return catalog.NewSnapshot(records)
}

// waitQuadrants polls until no quadrant is pending or the deadline passes.
func waitQuadrants(t *testing.T, s *Session) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := s.View()
		pending := false
		for _, q := range v.Quadrants {
			if q.State == StatePending {
				pending = true
			}
		}
		if !pending {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("quadrants did not settle in time")
	return View{}
}

func TestCanEnter_exactly_four(t *testing.T) {
	for size, want := range map[int]bool{0: false, 1: false, 2: false, 3: false, 4: true, 5: false} {
		if got := CanEnter(size); got != want {
			t.Errorf("CanEnter(%d) = %v, want %v", size, got, want)
		}
	}
}

func TestManager_Open_gate_rejects_wrong_size(t *testing.T) {
	mgr := NewManager(&stubResolver{}, testLogger(), nil)

	for _, ids := range [][]string{nil, {"a"}, {"a", "b", "c"}} {
		if _, err := mgr.Open(ids, fourVideoSnapshot()); !errors.Is(err, ErrNotReady) {
			t.Errorf("Open(%v) err = %v, want ErrNotReady", ids, err)
		}
	}
	if mgr.Current() != nil {
		t.Error("rejected open must not leave a session behind")
	}
}

func TestManager_Open_resolves_all_quadrants(t *testing.T) {
	mgr := NewManager(&stubResolver{links: []string{"https://cdn.example.com/v.mp4"}}, testLogger(), nil)

	s, err := mgr.Open([]string{"a", "b", "c", "d"}, fourVideoSnapshot())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	v := waitQuadrants(t, s)
	wantPositions := [4]Position{TopLeft, TopRight, BottomLeft, BottomRight}
	for i, q := range v.Quadrants {
		if q.Position != wantPositions[i] {
			t.Errorf("quadrant %d position = %s, want %s", i, q.Position, wantPositions[i])
		}
		if q.State != StateReady {
			t.Errorf("quadrant %s state = %s, want ready (%s)", q.Position, q.State, q.Error)
		}
		if len(q.Links) != 1 {
			t.Errorf("quadrant %s links = %v", q.Position, q.Links)
		}
	}
	// Quadrants follow basket order.
	if v.Quadrants[0].VideoID != "a" || v.Quadrants[3].VideoID != "d" {
		t.Errorf("quadrant order = %v", v.Quadrants)
	}
}

func TestManager_Open_missing_record_fails_only_its_quadrant(t *testing.T) {
	mgr := NewManager(&stubResolver{links: []string{"l"}}, testLogger(), nil)
	snap := fourVideoSnapshot()

	s, err := mgr.Open([]string{"a", "vanished", "c", "d"}, snap)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	v := waitQuadrants(t, s)
	if v.Quadrants[1].State != StateFailed {
		t.Errorf("missing record quadrant state = %s, want failed", v.Quadrants[1].State)
	}
	for _, i := range []int{0, 2, 3} {
		if v.Quadrants[i].State != StateReady {
			t.Errorf("sibling quadrant %d state = %s, want ready", i, v.Quadrants[i].State)
		}
	}
}

func TestManager_resolver_failure_is_local(t *testing.T) {
	mgr := NewManager(&stubResolver{err: errors.New("scrape refused")}, testLogger(), nil)

	s, err := mgr.Open([]string{"a", "b", "c", "d"}, fourVideoSnapshot())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	v := waitQuadrants(t, s)
	for _, q := range v.Quadrants {
		if q.State != StateFailed || q.Error == "" {
			t.Errorf("quadrant %s = %s/%q, want failed with message", q.Position, q.State, q.Error)
		}
	}
}

func TestManager_empty_links_is_failure(t *testing.T) {
	mgr := NewManager(&stubResolver{links: nil}, testLogger(), nil)

	s, err := mgr.Open([]string{"a", "b", "c", "d"}, fourVideoSnapshot())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	v := waitQuadrants(t, s)
	for _, q := range v.Quadrants {
		if q.State != StateFailed {
			t.Errorf("quadrant %s state = %s, want failed on empty links", q.Position, q.State)
		}
	}
}

func TestManager_Close_discards_late_results(t *testing.T) {
	release := make(chan struct{})
	mgr := NewManager(&stubResolver{links: []string{"l"}, release: release}, testLogger(), nil)

	s, err := mgr.Open([]string{"a", "b", "c", "d"}, fourVideoSnapshot())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !mgr.Close() {
		t.Fatal("Close should report an open session")
	}
	close(release)

	// Give the resolution goroutines time to observe the closed session.
	time.Sleep(50 * time.Millisecond)
	for _, q := range s.View().Quadrants {
		if q.State == StateReady {
			t.Errorf("late result updated a closed session: quadrant %s", q.Position)
		}
	}
}

func TestManager_reopen_replaces_session(t *testing.T) {
	mgr := NewManager(&stubResolver{links: []string{"l"}}, testLogger(), nil)
	snap := fourVideoSnapshot()
	ids := []string{"a", "b", "c", "d"}

	first, err := mgr.Open(ids, snap)
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Open(ids, snap)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("reopening must create a fresh session")
	}
	if mgr.Current() != second {
		t.Error("Current should return the latest session")
	}
}

func TestManager_Close_without_session(t *testing.T) {
	mgr := NewManager(&stubResolver{}, testLogger(), nil)
	if mgr.Close() {
		t.Error("Close with no session should report false")
	}
}
