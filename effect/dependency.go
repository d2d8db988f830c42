package effect

import (
	"slices"
	"strings"
)

// Key names one category of external service an Effect can require.
type Key string

const (
	// KeyStore is the persistent relational store.
	KeyStore Key = "store"

	// KeyCache is the key/value cache.
	KeyCache Key = "cache"

	// KeyLog is the log sink.
	KeyLog Key = "log"

	// KeyTransport is the outbound HTTP transport.
	KeyTransport Key = "transport"
)

// AllKeys returns the full, fixed dependency key set.
func AllKeys() KeySet {
	return NewKeySet(KeyStore, KeyCache, KeyLog, KeyTransport)
}

// KeySet is a sorted, duplicate-free set of dependency keys.
// A KeySet is never mutated after construction; Union returns a new one.
type KeySet struct {
	keys []Key
}

// NewKeySet builds a KeySet from the given keys, dropping duplicates.
func NewKeySet(keys ...Key) KeySet {
	if len(keys) == 0 {
		return KeySet{}
	}
	ks := slices.Clone(keys)
	slices.Sort(ks)
	return KeySet{keys: slices.Compact(ks)}
}

// Union returns the keys present in either set.
func (s KeySet) Union(other KeySet) KeySet {
	switch {
	case len(other.keys) == 0:
		return s
	case len(s.keys) == 0:
		return other
	}
	return NewKeySet(append(slices.Clone(s.keys), other.keys...)...)
}

func (s KeySet) Contains(key Key) bool {
	_, found := slices.BinarySearch(s.keys, key)
	return found
}

// Keys returns a copy of the keys in sorted order.
func (s KeySet) Keys() []Key {
	return slices.Clone(s.keys)
}

func (s KeySet) Len() int {
	return len(s.keys)
}

func (s KeySet) String() string {
	names := make([]string, len(s.keys))
	for i, k := range s.keys {
		names[i] = string(k)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Dependencies is the record of concrete service handles supplied at run time.
// The core only reads from it. Entries beyond the ones an Effect requires are ignored.
type Dependencies map[Key]any

// NewDependencies builds a map from the four standard handles, skipping nil ones.
func NewDependencies(store Store, cache Cache, log Logger, transport Transport) Dependencies {
	deps := make(Dependencies, 4)
	if store != nil {
		deps[KeyStore] = store
	}
	if cache != nil {
		deps[KeyCache] = cache
	}
	if log != nil {
		deps[KeyLog] = log
	}
	if transport != nil {
		deps[KeyTransport] = transport
	}
	return deps
}

// Lookup returns the handle registered under key. A nil entry counts as absent.
func (d Dependencies) Lookup(key Key) (any, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// With returns a copy of d with key bound to handle.
func (d Dependencies) With(key Key, handle any) Dependencies {
	out := make(Dependencies, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[key] = handle
	return out
}

// Project returns a copy of d restricted to the given keys.
func (d Dependencies) Project(keys KeySet) Dependencies {
	out := make(Dependencies, keys.Len())
	for _, k := range keys.keys {
		if v, ok := d.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}

// Missing lists the keys of the set that d does not supply.
func (d Dependencies) Missing(keys KeySet) []Key {
	var missing []Key
	for _, k := range keys.keys {
		if _, ok := d.Lookup(k); !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
