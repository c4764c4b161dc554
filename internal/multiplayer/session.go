package multiplayer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"videohub/internal/basket"
	"videohub/internal/catalog"
	"videohub/internal/platform/metrics"
)

// ErrNotReady is returned when the multiplayer gate rejects entry because
// the basket does not hold exactly four ids.
var ErrNotReady = errors.New("multiplayer requires exactly 4 basket videos")

// CanEnter is the multiplayer gate: entry is allowed only with exactly
// basket.Capacity ids, one per quadrant, no fewer and no more.
func CanEnter(size int) bool {
	return size == basket.Capacity
}

// Position names one of the four fixed screen quadrants.
type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

var positions = [basket.Capacity]Position{TopLeft, TopRight, BottomLeft, BottomRight}

// QuadrantState tracks a quadrant's independent resolution lifecycle.
type QuadrantState string

const (
	StatePending QuadrantState = "pending"
	StateReady   QuadrantState = "ready"
	StateFailed  QuadrantState = "failed"
)

// Quadrant is one slot of the 2x2 playback view. Each quadrant resolves its
// own playback links and carries its own state; one quadrant failing never
// affects its siblings.
type Quadrant struct {
	Position Position       `json:"position"`
	VideoID  string         `json:"videoId"`
	Video    *catalog.Video `json:"video,omitempty"`
	State    QuadrantState  `json:"state"`
	Links    []string       `json:"links,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Resolver obtains the playable links for a video page. It is an opaque
// async collaborator; failures are local to the requesting quadrant.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) ([]string, error)
}

// Session is the ephemeral state of one open multiplayer view: the four
// quadrants assigned at open time. It is discarded on close; the basket is
// never touched.
type Session struct {
	ID string

	mu        sync.Mutex
	quadrants [basket.Capacity]Quadrant
	closed    bool
	cancel    context.CancelFunc
}

// View is an immutable copy of the session state for rendering.
type View struct {
	ID        string                    `json:"id"`
	Quadrants [basket.Capacity]Quadrant `json:"quadrants"`
}

// View returns a copy of the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{ID: s.ID, Quadrants: s.quadrants}
}

// setResult records a quadrant's resolution outcome. Results arriving after
// the session closed are discarded; a late response must never update a
// no-longer-open session.
func (s *Session) setResult(i int, links []string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if err != nil {
		s.quadrants[i].State = StateFailed
		s.quadrants[i].Error = err.Error()
		return true
	}
	s.quadrants[i].State = StateReady
	s.quadrants[i].Links = links
	return true
}

func (s *Session) close() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()
	if !alreadyClosed && s.cancel != nil {
		s.cancel()
	}
}

// Manager owns at most one open session at a time. Opening always
// re-resolves the quadrants from the basket as it stands at that moment;
// nothing is cached across sessions.
type Manager struct {
	mu       sync.Mutex
	resolver Resolver
	log      *slog.Logger
	metrics  *metrics.Metrics
	current  *Session
}

// NewManager returns a Manager resolving quadrant links through resolver.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewManager(resolver Resolver, log *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{resolver: resolver, log: log, metrics: m}
}

// Open gates on the basket size and, if allowed, assigns the four ids to the
// four quadrants in basket order. Each quadrant's links are resolved
// concurrently; a missing catalog record marks only its own quadrant failed.
// Any previously open session is closed first.
func (m *Manager) Open(ids []string, snap *catalog.Snapshot) (*Session, error) {
	if !CanEnter(len(ids)) {
		return nil, ErrNotReady
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{ID: uuid.NewString(), cancel: cancel}

	for i, id := range ids[:basket.Capacity] {
		q := Quadrant{Position: positions[i], VideoID: id, State: StatePending}
		v, ok := snap.ByID(id)
		if !ok {
			q.State = StateFailed
			q.Error = "video not found in catalog"
		} else {
			q.Video = &v
		}
		s.quadrants[i] = q
	}

	for i := range s.quadrants {
		if s.quadrants[i].State != StatePending {
			continue
		}
		go m.resolve(ctx, s, i)
	}

	m.current = s
	m.log.Info("multiplayer session opened", slog.String("session_id", s.ID))
	return s, nil
}

// resolve runs one quadrant's link resolution and reports the outcome.
func (m *Manager) resolve(ctx context.Context, s *Session, i int) {
	q := s.View().Quadrants[i]

	pageURL := ""
	if q.Video != nil {
		pageURL = q.Video.PageURL
	}
	if pageURL == "" {
		s.setResult(i, nil, errors.New("no page URL for video"))
		return
	}

	links, err := m.resolver.Resolve(ctx, pageURL)
	if err == nil && len(links) == 0 {
		err = errors.New("no playable links found")
	}

	if !s.setResult(i, links, err) {
		m.log.Debug("discarded late quadrant result",
			slog.String("session_id", s.ID),
			slog.String("position", string(q.Position)))
		return
	}
	if err != nil {
		m.log.Warn("quadrant resolve failed",
			slog.String("session_id", s.ID),
			slog.String("position", string(q.Position)),
			slog.String("video_id", q.VideoID),
			slog.String("error", err.Error()))
		if m.metrics != nil {
			m.metrics.IncQuadrantFailures()
		}
	}
}

// Current returns the open session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close closes the open session, cancelling any in-flight resolutions, and
// reports whether a session was open. The basket is untouched.
func (m *Manager) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return false
	}
	m.current.close()
	m.log.Info("multiplayer session closed", slog.String("session_id", m.current.ID))
	m.current = nil
	return true
}
