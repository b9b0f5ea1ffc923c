// Package dispatch maps record type hashes to the handler procedures that
// read them, and gives handlers an offset-threaded view of one record.
package dispatch

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Version is the declared format version of a file, the release year of the
// writing application (2010, 2015, 2019 ...). Handlers gate optional fields
// on it with ordinary comparisons.
type Version int

func (v Version) String() string { return fmt.Sprintf("v%d", int(v)) }

// Handler reads the body of one record starting at off and returns the offset
// just past what it consumed.
type Handler func(rec *Record, off int) (int, error)

// Entry is one registered record type.
type Entry struct {
	Hash    uint32
	Name    string
	Handler Handler
}

// Registry is the type hash catalog. It is filled at start-up, then sealed;
// a sealed registry is read-only and safe for any number of sessions.
type Registry struct {
	mu      sync.RWMutex
	sealed  atomic.Bool
	entries map[uint32]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint32]Entry)}
}

// Register adds a handler. Registering a hash twice, or registering after
// Seal, is a programming error and panics.
func (r *Registry) Register(hash uint32, name string, h Handler) {
	if h == nil {
		panic(fmt.Sprintf("dispatch: nil handler for %08X", hash))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		panic(fmt.Sprintf("dispatch: register %08X on sealed registry", hash))
	}
	if prev, ok := r.entries[hash]; ok {
		panic(fmt.Sprintf("dispatch: %08X registered twice (%q, %q)", hash, prev.Name, name))
	}
	r.entries[hash] = Entry{Hash: hash, Name: name, Handler: h}
}

// Seal freezes the registry.
func (r *Registry) Seal() *Registry {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
	return r
}

func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Lookup returns the entry for hash, or UnknownRecordType.
func (r *Registry) Lookup(hash uint32) (Entry, error) {
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	e, ok := r.entries[hash]
	if !ok {
		return Entry{}, wire.UnknownRecordType(0, hash)
	}
	return e, nil
}

// Name returns the registered name of hash, or "".
func (r *Registry) Name(hash uint32) string {
	e, err := r.Lookup(hash)
	if err != nil {
		return ""
	}
	return e.Name
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Hashes returns the registered hashes in ascending order.
func (r *Registry) Hashes() []uint32 {
	r.mu.RLock()
	out := make([]uint32, 0, len(r.entries))
	for h := range r.entries {
		out = append(out, h)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
