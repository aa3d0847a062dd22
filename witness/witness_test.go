package witness

import (
	"testing"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field/bn254"
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/require"
)

var f = &bn254.Field{}

func TestInsertAndGet(t *testing.T) {
	m := NewMap(map[Witness]constraint.Element{0: f.FromInterface(3)})

	v, ok := m.Get(0)
	require.True(t, ok)
	require.Equal(t, "3", f.String(v))

	_, ok = m.Get(1)
	require.False(t, ok)

	require.NoError(t, m.Insert(1, f.FromInterface(4)))
	require.Equal(t, 2, m.Len())
}

func TestInsertSameValueIsNoOp(t *testing.T) {
	m := NewMap(nil)
	require.NoError(t, m.Insert(5, f.FromInterface(7)))
	require.NoError(t, m.Insert(5, f.FromInterface(7)))
	require.Equal(t, 1, m.Len())
}

func TestInsertConflict(t *testing.T) {
	m := NewMap(nil)
	require.NoError(t, m.Insert(5, f.FromInterface(7)))
	err := m.Insert(5, f.FromInterface(8))
	var conflict *ConflictingAssignmentError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, Witness(5), conflict.Witness)

	// the original value survives
	v, ok := m.Get(5)
	require.True(t, ok)
	require.Equal(t, "7", f.String(v))
}

func TestContainsAll(t *testing.T) {
	m := NewMap(nil)
	require.NoError(t, m.Insert(0, f.FromInterface(1)))
	require.NoError(t, m.Insert(2, f.FromInterface(2)))

	ref := bitset.New(3)
	ref.Set(0)
	require.True(t, m.ContainsAll(ref))
	ref.Set(1)
	require.False(t, m.ContainsAll(ref))
	ref.Clear(1)
	ref.Set(2)
	require.True(t, m.ContainsAll(ref))
}

func TestIterateOrder(t *testing.T) {
	m := NewMap(nil)
	require.NoError(t, m.Insert(9, f.FromInterface(9)))
	require.NoError(t, m.Insert(1, f.FromInterface(1)))
	require.NoError(t, m.Insert(4, f.FromInterface(4)))

	var order []Witness
	m.Iterate(func(w Witness, _ constraint.Element) {
		order = append(order, w)
	})
	require.Equal(t, []Witness{1, 4, 9}, order)
}

func TestSerializeRoundTrip(t *testing.T) {
	m := NewMap(nil)
	require.NoError(t, m.Insert(0, f.FromInterface(3)))
	require.NoError(t, m.Insert(7, f.FromInterface(123456789)))

	blob := Serialize(f, m)
	back, err := Deserialize(f, blob)
	require.NoError(t, err)
	require.Equal(t, m.Len(), back.Len())
	v, ok := back.Get(7)
	require.True(t, ok)
	require.Equal(t, "123456789", f.String(v))
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	_, err := Deserialize(f, []byte{1, 2, 3})
	require.Error(t, err)

	m := NewMap(nil)
	require.NoError(t, m.Insert(0, f.FromInterface(1)))
	blob := append(Serialize(f, m), 0)
	_, err = Deserialize(f, blob)
	require.ErrorContains(t, err, "trailing")
}
