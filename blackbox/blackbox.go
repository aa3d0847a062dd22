// Package blackbox is the dispatch boundary for non-arithmetic primitives.
// A small set of bit-level primitives is computable internally; everything
// cryptographic is delegated through the Backend capability interface, the
// single seam between the solver core and proof-system-specific code.
package blackbox

import (
	"fmt"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/consensys/gnark/constraint"
)

// Black-box function names. New names are data for backends, not new solver
// code paths.
const (
	AND                = "and"
	XOR                = "xor"
	Range              = "range"
	SHA256             = "sha256"
	Blake2s            = "blake2s"
	Keccak256          = "keccak256"
	HashToField128     = "hash_to_field_128"
	MiMC               = "mimc"
	FixedBaseScalarMul = "fixed_base_scalar_mul"
	EddsaVerify        = "eddsa_verify"
)

// Input is a known field value together with the bit width the circuit
// declared for it.
type Input struct {
	Value   constraint.Element
	NumBits int
}

// Backend evaluates delegated black-box functions. Implementations live on
// the proof-system side; the solver depends only on this contract.
type Backend interface {
	Supports(name string) bool
	Evaluate(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error)
}

// UnsupportedError reports a function the backend cannot service. It is
// fatal for the session, never a retry condition.
type UnsupportedError struct {
	Func string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("black box function %q is not supported by the backend", e.Func)
}

// MalformedInputError reports an input count or declared bit width that does
// not match the function's fixed shape.
type MalformedInputError struct {
	Func   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("black box function %q: malformed input: %s", e.Func, e.Reason)
}

// RangeCheckError reports a range constraint whose input does not fit the
// declared width. The solver surfaces it as an unsatisfied constraint.
type RangeCheckError struct {
	NumBits int
	Value   string
}

func (e *RangeCheckError) Error() string {
	return fmt.Sprintf("value %s does not fit in %d bits", e.Value, e.NumBits)
}
