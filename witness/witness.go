// Package witness holds the partial assignment a solving session grows into
// a full one.
package witness

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"
)

// Witness is an index into a circuit's variable space. Uniqueness is
// per-circuit; the index carries no other meaning.
type Witness uint32

// ConflictingAssignmentError reports a second, different value assigned to a
// witness that already holds one. It indicates inconsistent inputs or a
// malformed circuit and always aborts the session.
type ConflictingAssignmentError struct {
	Witness Witness
}

func (e *ConflictingAssignmentError) Error() string {
	return fmt.Sprintf("conflicting assignment for witness %d", e.Witness)
}

// Map is an append-only assignment of field values to witnesses. It is owned
// by a single solving session; the mutex only exists so that a parallel pass
// may insert from several goroutines with first-writer-wins semantics.
type Map struct {
	mu       sync.Mutex
	values   map[Witness]constraint.Element
	assigned *bitset.BitSet
}

// NewMap returns a Map pre-populated with the given external inputs.
func NewMap(initial map[Witness]constraint.Element) *Map {
	m := &Map{
		values:   make(map[Witness]constraint.Element, len(initial)),
		assigned: bitset.New(64),
	}
	for w, v := range initial {
		m.values[w] = v
		m.assigned.Set(uint(w))
	}
	return m
}

// Get returns the value assigned to w, if any.
func (m *Map) Get(w Witness) (constraint.Element, bool) {
	m.mu.Lock()
	v, ok := m.values[w]
	m.mu.Unlock()
	return v, ok
}

// Insert records v for w. Re-inserting the value already held is a no-op;
// a different value is a ConflictingAssignmentError.
func (m *Map) Insert(w Witness, v constraint.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.values[w]; ok {
		if old != v {
			return &ConflictingAssignmentError{Witness: w}
		}
		return nil
	}
	m.values[w] = v
	m.assigned.Set(uint(w))
	return nil
}

// Len returns the number of assigned witnesses.
func (m *Map) Len() int {
	m.mu.Lock()
	n := len(m.values)
	m.mu.Unlock()
	return n
}

// ContainsAll reports whether every witness set in ref is assigned.
func (m *Map) ContainsAll(ref *bitset.BitSet) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assigned.IsSuperSet(ref)
}

// Iterate calls fn for each assignment in increasing witness order.
func (m *Map) Iterate(fn func(Witness, constraint.Element)) {
	m.mu.Lock()
	assigned := m.assigned.Clone()
	m.mu.Unlock()
	for i, ok := assigned.NextSet(0); ok; i, ok = assigned.NextSet(i + 1) {
		w := Witness(i)
		v, present := m.Get(w)
		if present {
			fn(w, v)
		}
	}
}
