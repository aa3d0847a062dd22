// Package expr implements degree-<=2 polynomial identities over witnesses,
// the atomic arithmetic constraint of a circuit. An Expression is understood
// to sum to zero.
package expr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
	"github.com/consensys/gnark/constraint"
)

type Expression struct {
	Mul      []MulTerm
	Linear   []LinearTerm
	Constant constraint.Element
}

// NewConstant returns the expression c.
func NewConstant(c constraint.Element) Expression {
	return Expression{Constant: c}
}

// NewLinear returns c * w.
func NewLinear(c constraint.Element, w witness.Witness) Expression {
	return Expression{Linear: []LinearTerm{{Coeff: c, W: w}}}
}

// NewQuadratic returns c * a * b.
func NewQuadratic(c constraint.Element, a, b witness.Witness) Expression {
	return Expression{Mul: []MulTerm{NewMulTerm(c, a, b)}}
}

func (e Expression) Clone() Expression {
	res := Expression{
		Mul:      make([]MulTerm, len(e.Mul)),
		Linear:   make([]LinearTerm, len(e.Linear)),
		Constant: e.Constant,
	}
	copy(res.Mul, e.Mul)
	copy(res.Linear, e.Linear)
	return res
}

// Degree returns the degree of the polynomial, counting only terms with a
// nonzero coefficient.
func (e Expression) Degree() int {
	for _, t := range e.Mul {
		if !t.Coeff.IsZero() {
			return 2
		}
	}
	for _, t := range e.Linear {
		if !t.Coeff.IsZero() {
			return 1
		}
	}
	return 0
}

func (e Expression) IsConstant() bool {
	return e.Degree() == 0
}

// Sort puts terms in canonical order: mul terms by (A, B), linear terms
// by witness.
func (e *Expression) Sort() {
	sort.Slice(e.Mul, func(i, j int) bool {
		if e.Mul[i].A != e.Mul[j].A {
			return e.Mul[i].A < e.Mul[j].A
		}
		return e.Mul[i].B < e.Mul[j].B
	})
	sort.Slice(e.Linear, func(i, j int) bool {
		return e.Linear[i].W < e.Linear[j].W
	})
}

// Equal returns true if both SORTED expressions are the same.
//
// pre conditions: e and o are sorted
func (e Expression) Equal(o Expression) bool {
	if len(e.Mul) != len(o.Mul) || len(e.Linear) != len(o.Linear) {
		return false
	}
	if e.Constant != o.Constant {
		return false
	}
	for i := range e.Mul {
		if e.Mul[i] != o.Mul[i] {
			return false
		}
	}
	for i := range e.Linear {
		if e.Linear[i] != o.Linear[i] {
			return false
		}
	}
	return true
}

// Witnesses calls fn for every witness referenced by the expression,
// duplicates included.
func (e Expression) Witnesses(fn func(witness.Witness)) {
	for _, t := range e.Mul {
		fn(t.A)
		fn(t.B)
	}
	for _, t := range e.Linear {
		fn(t.W)
	}
}

// Evaluate substitutes known witness values and returns the sum. The second
// return is false when some referenced witness is unknown.
func (e Expression) Evaluate(f field.Field, get func(witness.Witness) (constraint.Element, bool)) (constraint.Element, bool) {
	res := e.Constant
	for _, t := range e.Linear {
		v, ok := get(t.W)
		if !ok {
			return constraint.Element{}, false
		}
		res = f.Add(res, f.Mul(t.Coeff, v))
	}
	for _, t := range e.Mul {
		va, ok := get(t.A)
		if !ok {
			return constraint.Element{}, false
		}
		vb, ok := get(t.B)
		if !ok {
			return constraint.Element{}, false
		}
		res = f.Add(res, f.Mul(t.Coeff, f.Mul(va, vb)))
	}
	return res, true
}

func (e Expression) String(f field.Field) string {
	s := make([]string, 0, len(e.Mul)+len(e.Linear)+1)
	for _, t := range e.Mul {
		s = append(s, "w"+strconv.Itoa(int(t.A))+"*w"+strconv.Itoa(int(t.B))+"*"+f.String(t.Coeff))
	}
	for _, t := range e.Linear {
		s = append(s, "w"+strconv.Itoa(int(t.W))+"*"+f.String(t.Coeff))
	}
	if !e.Constant.IsZero() || len(s) == 0 {
		s = append(s, f.String(e.Constant))
	}
	return strings.Join(s, "+")
}
