package archive

import (
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

// Factory creates a new instance of an archive adapter
type Factory func() IArchive

var registry = xsync.NewMapOf[string, Factory]()

func init() {
	Register("protobuf", NewProtobufArchive)
	Register("capnp", NewCapnpArchive)
	Register("flatbuffers", NewFlatbuffersArchive)
	Register("gob", NewGOBArchive)
	Register("binary", NewBinaryArchive)
}

// Register makes an archive available under name. Registering the same
// name twice replaces the previous factory.
func Register(name string, factory Factory) {
	registry.Store(name, factory)
}

// Get creates the archive registered under name
func Get(name string) (IArchive, error) {
	factory, ok := registry.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s (expected one of: %v)", ErrUnknownArchive, name, Names())
	}
	return factory(), nil
}

// Names returns all registered names in sorted order
func Names() []string {
	names := make([]string, 0, registry.Size())
	registry.Range(func(name string, _ Factory) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// NewPair resolves both archives of a pair by name
func NewPair(baseline, candidate string) (Pair, error) {
	b, err := Get(baseline)
	if err != nil {
		return Pair{}, err
	}
	c, err := Get(candidate)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Baseline: b, Candidate: c}, nil
}
