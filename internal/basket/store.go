package basket

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// StorageKey is the fixed name under which the basket is persisted.
// The file store appends ".json" to it.
const StorageKey = "videoBasket"

// Store persists the basket id list between sessions. Implementations must
// round-trip any valid id list unchanged.
type Store interface {
	// Load returns the persisted id list, or nil if nothing was persisted.
	Load() ([]string, error)
	// Save durably persists the id list.
	Save(ids []string) error
}

// FileStore persists the basket as a JSON string array in a single file,
// written atomically (fsync, then rename) so a crash never leaves a torn
// basket on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path. An empty path defaults
// to StorageKey + ".json" in the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = StorageKey + ".json"
	}
	return &FileStore{path: path}
}

// Load implements Store.Load. A missing file is not an error.
func (s *FileStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read basket file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode basket file: %w", err)
	}
	return ids, nil
}

// Save implements Store.Save.
func (s *FileStore) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode basket: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write basket file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store used in tests and as the degraded mode
// when file persistence is unavailable.
type MemoryStore struct {
	ids []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.Load.
func (s *MemoryStore) Load() ([]string, error) {
	if s.ids == nil {
		return nil, nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out, nil
}

// Save implements Store.Save.
func (s *MemoryStore) Save(ids []string) error {
	s.ids = make([]string, len(ids))
	copy(s.ids, ids)
	return nil
}
