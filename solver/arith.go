package solver

import (
	"github.com/PolyhedraZK/CircuitWitnessSolver/expr"
	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
)

// solveArithmetic attempts one arithmetic opcode against the current
// assignment. It substitutes every known witness; what remains decides the
// outcome:
//   - no unknowns: the residue must be zero
//   - one unknown, appearing only linearly: one field division solves it
//     (a mul term with one known side folds into the linear coefficient)
//   - one unknown squared, or two distinct unknowns: defer to a later pass
//
// The returned bool is true when the opcode is resolved; deferring is not an
// error.
func (s *Solver) solveArithmetic(opIdx int, e expr.Expression, m *witness.Map) (bool, error) {
	f := s.f

	acc := e.Constant
	coeff := field.Zero()
	var unknown witness.Witness
	hasUnknown := false

	// note takes ownership of the single unknown slot; a second distinct
	// unknown means the opcode cannot be solved yet
	note := func(w witness.Witness) bool {
		if hasUnknown && unknown != w {
			return false
		}
		unknown = w
		hasUnknown = true
		return true
	}

	for _, t := range e.Linear {
		if t.Coeff.IsZero() {
			continue
		}
		if v, ok := m.Get(t.W); ok {
			acc = f.Add(acc, f.Mul(t.Coeff, v))
			continue
		}
		if !note(t.W) {
			return false, nil
		}
		coeff = f.Add(coeff, t.Coeff)
	}

	for _, t := range e.Mul {
		if t.Coeff.IsZero() {
			continue
		}
		va, oka := m.Get(t.A)
		vb, okb := m.Get(t.B)
		switch {
		case oka && okb:
			acc = f.Add(acc, f.Mul(t.Coeff, f.Mul(va, vb)))
		case oka:
			if !note(t.B) {
				return false, nil
			}
			coeff = f.Add(coeff, f.Mul(t.Coeff, va))
		case okb:
			if !note(t.A) {
				return false, nil
			}
			coeff = f.Add(coeff, f.Mul(t.Coeff, vb))
		default:
			// both unknown; a square of a single unknown is not linear
			// either, so there is nothing to solve this pass
			return false, nil
		}
	}

	if !hasUnknown {
		if !acc.IsZero() {
			return false, &UnsatisfiedConstraintError{Opcode: opIdx, Detail: e.String(f) + " evaluates to " + f.String(acc)}
		}
		return true, nil
	}

	if coeff.IsZero() {
		// the unknown cancelled out; the residue alone decides
		if !acc.IsZero() {
			return false, &UnsatisfiedConstraintError{Opcode: opIdx, Detail: e.String(f) + " evaluates to " + f.String(acc)}
		}
		return true, nil
	}

	inv, ok := f.Inverse(coeff)
	if !ok {
		return false, ErrDivisionByZero
	}
	val := f.Mul(f.Neg(acc), inv)
	if err := m.Insert(unknown, val); err != nil {
		return false, err
	}
	return true, nil
}
