// Package registry holds the process-wide table of pre-encoded status lists.
//
// Each entry pairs a "valid" and a "revoked" encoding of the same bitstring
// slot. The table is built once at start-up and never mutated; lookups are
// safe for concurrent use without locking.
package registry

import (
	"fmt"
	"math/rand/v2"

	dErrors "statuslist/pkg/domain-errors"
)

// Kind selects which encoding of an entry to resolve.
type Kind string

const (
	KindValid   Kind = "valid"
	KindRevoked Kind = "revoked"
)

// StatusList is a compressed, base64url-encoded bitstring with a fixed
// number of bits per credential entry. It is embedded verbatim in tokens.
type StatusList struct {
	Bits    int    `json:"bits"`
	Encoded string `json:"lst"`
}

// Entry is one registry slot. Valid and Revoked always share a bit width.
type Entry struct {
	Index   int
	Valid   StatusList
	Revoked StatusList
}

// Source picks an integer in [0, n). *rand.Rand from math/rand/v2 satisfies it,
// so tests can pin selection with a seeded generator.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the goroutine-safe top-level math/rand/v2 generator.
var DefaultSource Source = globalSource{}

// Registry is an immutable index -> Entry table.
type Registry struct {
	entries  []Entry
	position map[int]int
}

// New validates entries and builds a registry.
//
// Errors: returns a configuration error when the table is empty, an index is
// duplicated, an encoding is empty, or the valid/revoked bit widths differ.
func New(entries ...Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "status list registry has no entries")
	}

	r := &Registry{
		entries:  make([]Entry, 0, len(entries)),
		position: make(map[int]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.position[e.Index]; dup {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("duplicate status list index %d", e.Index))
		}
		if e.Valid.Bits <= 0 || e.Valid.Bits != e.Revoked.Bits {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("status list index %d: valid and revoked bit widths must match and be positive (got %d and %d)",
					e.Index, e.Valid.Bits, e.Revoked.Bits))
		}
		if e.Valid.Encoded == "" || e.Revoked.Encoded == "" {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("status list index %d: empty encoding", e.Index))
		}
		r.position[e.Index] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Default returns the built-in two-entry table.
func Default() *Registry {
	r, err := New(defaultEntries()...)
	if err != nil {
		panic(err)
	}
	return r
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Index:   0,
			Valid:   StatusList{Bits: 2, Encoded: "eNpzcAEAAMYAhQ"},
			Revoked: StatusList{Bits: 2, Encoded: "eNpzdAEAAMgAhg"},
		},
		{
			Index:   5,
			Valid:   StatusList{Bits: 2, Encoded: "eNqTSwYAAKEAgg"},
			Revoked: StatusList{Bits: 2, Encoded: "eNqTSwcAAKUAhg"},
		},
	}
}

// Lookup resolves an index and kind to a status list.
//
// Errors: CodeNotFound for an unknown index (there is no fallback entry);
// CodeInvalidInput for an unknown kind.
func (r *Registry) Lookup(index int, kind Kind) (StatusList, error) {
	pos, ok := r.position[index]
	if !ok {
		return StatusList{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no %s entry found for index %d", kind, index))
	}
	e := r.entries[pos]
	switch kind {
	case KindValid:
		return e.Valid, nil
	case KindRevoked:
		return e.Revoked, nil
	default:
		return StatusList{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown status list kind %q", kind))
	}
}

// PickRandomValid selects an entry uniformly at random and returns its index
// together with its valid list. A nil src uses DefaultSource.
func (r *Registry) PickRandomValid(src Source) (int, StatusList) {
	if src == nil {
		src = DefaultSource
	}
	e := r.entries[src.IntN(len(r.entries))]
	return e.Index, e.Valid
}

// Len reports the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the table in declaration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
