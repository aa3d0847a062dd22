package blackbox

import (
	"fmt"
	"math/big"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/consensys/gnark/constraint"
)

// IsInternal reports whether name reduces purely to field arithmetic and bit
// decomposition, so the solver computes it without delegating.
func IsInternal(name string) bool {
	switch name {
	case AND, XOR, Range:
		return true
	}
	return false
}

// SolveInternal evaluates an internally computable primitive.
func SolveInternal(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	switch name {
	case AND, XOR:
		return solveLogic(f, name, inputs, nbOutputs)
	case Range:
		return solveRange(f, name, inputs, nbOutputs)
	}
	return nil, &UnsupportedError{Func: name}
}

// solveLogic computes a bitwise AND or XOR over the declared widths. Inputs
// are truncated to their declared width before combining, matching the bit
// decomposition a lowered circuit would constrain.
func solveLogic(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if len(inputs) != 2 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 2 inputs, got %d", len(inputs))}
	}
	if nbOutputs != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 output, got %d", nbOutputs)}
	}
	if inputs[0].NumBits != inputs[1].NumBits {
		return nil, &MalformedInputError{Func: name, Reason: "operand widths differ"}
	}
	if inputs[0].NumBits > f.FieldBitLen() {
		return nil, &MalformedInputError{Func: name, Reason: "operand width exceeds the field bit size"}
	}
	mask := new(big.Int).Lsh(big.NewInt(1), uint(inputs[0].NumBits))
	mask.Sub(mask, big.NewInt(1))
	a := new(big.Int).And(f.ToBigInt(inputs[0].Value), mask)
	b := new(big.Int).And(f.ToBigInt(inputs[1].Value), mask)
	var res *big.Int
	if name == AND {
		res = a.And(a, b)
	} else {
		res = a.Xor(a, b)
	}
	return []constraint.Element{f.FromInterface(res)}, nil
}

// solveRange asserts the input fits in its declared width. There is no
// output; failure is an unsatisfied constraint, not a backend error.
func solveRange(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if len(inputs) != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 input, got %d", len(inputs))}
	}
	if nbOutputs != 0 {
		return nil, &MalformedInputError{Func: name, Reason: "range check has no outputs"}
	}
	if field.NumBits(f, inputs[0].Value) > inputs[0].NumBits {
		return nil, &RangeCheckError{
			NumBits: inputs[0].NumBits,
			Value:   f.String(inputs[0].Value),
		}
	}
	return nil, nil
}
