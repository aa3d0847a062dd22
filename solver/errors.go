package solver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
)

// ErrDivisionByZero is returned when an inversion or a linear solve ends up
// dividing by the additive identity.
var ErrDivisionByZero = errors.New("division by zero")

// UnsatisfiedConstraintError reports a fully determined opcode that does not
// hold: a nonzero arithmetic residue or a failed range check. It indicates
// invalid inputs or a malformed circuit.
type UnsatisfiedConstraintError struct {
	Opcode int
	Detail string
}

func (e *UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("opcode %d: unsatisfied constraint: %s", e.Opcode, e.Detail)
}

// StalledError reports a session where a full pass made no progress while
// opcodes remained unresolved, or where every opcode resolved but some
// referenced witness never received a value. Either way the circuit is
// under-constrained or cyclic. The partial assignment is discarded; the
// unresolved indices are kept for diagnostics.
type StalledError struct {
	Unresolved []int
	Missing    []witness.Witness
}

func (e *StalledError) Error() string {
	var b strings.Builder
	b.WriteString("solver stalled")
	if len(e.Unresolved) > 0 {
		b.WriteString(": unresolved opcodes [")
		for i, x := range e.Unresolved {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strconv.Itoa(x))
		}
		b.WriteString("]")
	}
	if len(e.Missing) > 0 {
		b.WriteString(": unassigned witnesses [")
		for i, w := range e.Missing {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strconv.Itoa(int(w)))
		}
		b.WriteString("]")
	}
	return b.String()
}
