package materialize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FactoryFile is the descriptor each segment directory carries to name the
// strategy that opens it.
const FactoryFile = "factory.json"

// ErrUnknownStrategy is returned when a descriptor names a strategy that was
// never registered.
var ErrUnknownStrategy = errors.New("materialize: unknown strategy")

// QueryableSegment is an open, queryable view over a segment directory.
// Implementations must be safe for concurrent reads.
type QueryableSegment interface {
	io.Closer

	// Files returns the relative names of the segment's data files, sorted.
	Files() []string

	// Bytes returns a read-only view of the named file. The slice is valid
	// until Close.
	Bytes(name string) ([]byte, error)

	// Size returns the total size of the segment's data files in bytes.
	Size() int64
}

// Strategy opens a populated segment directory.
type Strategy interface {
	Materialize(dir string) (QueryableSegment, error)
}

// factoryDescriptor is the persisted shape of factory.json.
type factoryDescriptor struct {
	Type string `json:"type"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{}
)

// Register makes a strategy available under the given name.
// Registering a duplicate name replaces the previous entry.
func Register(name string, s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = s
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// FromDir opens a segment directory using the strategy its descriptor names.
// A directory without a descriptor uses the default mmap strategy.
func FromDir(dir string) (QueryableSegment, error) {
	name := DefaultStrategyName

	data, err := os.ReadFile(filepath.Join(dir, FactoryFile))
	switch {
	case err == nil:
		var desc factoryDescriptor
		if err := json.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("materialize: parse %s: %w", FactoryFile, err)
		}
		if desc.Type != "" {
			name = desc.Type
		}
	case os.IsNotExist(err):
		// No descriptor: legacy layout, fall through to the default.
	default:
		return nil, fmt.Errorf("materialize: read %s: %w", FactoryFile, err)
	}

	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s.Materialize(dir)
}

// WriteDescriptor persists a factory.json naming the given strategy into dir.
func WriteDescriptor(dir, name string) error {
	data, err := json.Marshal(factoryDescriptor{Type: name})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FactoryFile), data, 0o644)
}
