// Package field provides the prime-field engines the solver runs on.
//
// Field values are gnark constraint.Element words kept canonically reduced;
// the engine carries the modulus and the arithmetic. Which engine is in use
// is decided once per solving session, from the circuit's modulus.
package field

import (
	"fmt"
	"math/big"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field/bls12381"
	"github.com/PolyhedraZK/CircuitWitnessSolver/field/bn254"
	"github.com/consensys/gnark/constraint"
)

type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
	SerializedLen() int
}

// GetFieldFromOrder returns the engine for the given modulus.
func GetFieldFromOrder(x *big.Int) (Field, error) {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}, nil
	}
	if x.Cmp(bls12381.ScalarField) == 0 {
		return &bls12381.Field{}, nil
	}
	return nil, fmt.Errorf("unknown field %v", x)
}

// Zero returns the additive identity.
func Zero() constraint.Element {
	return constraint.Element{}
}

// IsZero reports whether x is the additive identity. Engines keep elements
// reduced, so the all-zero words are the only encoding of zero.
func IsZero(x constraint.Element) bool {
	return x.IsZero()
}

// Equal compares two reduced elements.
func Equal(a, b constraint.Element) bool {
	return a == b
}
