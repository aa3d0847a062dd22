package expr

// Terms of a degree-<=2 polynomial over witnesses. Unlike a compiler IR
// there is no constant wire here, so constants live on the expression
// itself and terms always reference real witnesses.

import (
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
	"github.com/consensys/gnark/constraint"
)

// MulTerm is Coeff * A * B.
type MulTerm struct {
	Coeff constraint.Element
	A     witness.Witness
	B     witness.Witness
}

// NewMulTerm normalizes the witness pair so A >= B, giving every product a
// single canonical form.
func NewMulTerm(coeff constraint.Element, a, b witness.Witness) MulTerm {
	if a < b {
		a, b = b, a
	}
	return MulTerm{Coeff: coeff, A: a, B: b}
}

// LinearTerm is Coeff * W.
type LinearTerm struct {
	Coeff constraint.Element
	W     witness.Witness
}
