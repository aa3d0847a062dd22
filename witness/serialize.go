package witness

import (
	"errors"
	"fmt"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/PolyhedraZK/CircuitWitnessSolver/utils"
	"github.com/consensys/gnark/constraint"
)

// Serialize converts the assignment into the blob handed to the proving
// backend: entry count, element byte length, the field modulus, then
// (index, value) pairs in increasing witness order.
func Serialize(f field.Field, m *Map) []byte {
	o := utils.OutputBuf{}
	o.AppendUint64(uint64(m.Len()))
	o.AppendUint64(uint64(f.SerializedLen()))
	o.AppendBigInt(f.SerializedLen(), f.Field())
	m.Iterate(func(w Witness, v constraint.Element) {
		o.AppendUint32(uint32(w))
		o.AppendBigInt(f.SerializedLen(), f.ToBigInt(v))
	})
	return o.Bytes()
}

// Deserialize reads back a blob produced by Serialize. The embedded modulus
// must match the engine's.
func Deserialize(f field.Field, buf []byte) (*Map, error) {
	in := utils.NewInputBuf(buf)
	count, err := in.ReadUint64()
	if err != nil {
		return nil, err
	}
	bnlen, err := in.ReadUint64()
	if err != nil {
		return nil, err
	}
	if int(bnlen) != f.SerializedLen() {
		return nil, fmt.Errorf("element length mismatch: got %d, want %d", bnlen, f.SerializedLen())
	}
	mod, err := in.ReadBigInt(int(bnlen))
	if err != nil {
		return nil, err
	}
	if mod.Cmp(f.Field()) != 0 {
		return nil, errors.New("field modulus mismatch")
	}
	m := NewMap(nil)
	for i := uint64(0); i < count; i++ {
		w, err := in.ReadUint32()
		if err != nil {
			return nil, err
		}
		v, err := in.ReadBigInt(int(bnlen))
		if err != nil {
			return nil, err
		}
		if v.Cmp(f.Field()) >= 0 {
			return nil, fmt.Errorf("witness %d: value is not reduced", w)
		}
		if err := m.Insert(Witness(w), f.FromInterface(v)); err != nil {
			return nil, err
		}
	}
	if in.Remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes", in.Remaining())
	}
	return m, nil
}
