// Package directive evaluates computational hints: pure functions that
// produce auxiliary witnesses the constraint system does not itself verify.
// Evaluators use the gnark hint signature, so a directive body is
// interchangeable with a registered solver hint.
package directive

import (
	"fmt"
	"math/big"

	"github.com/PolyhedraZK/CircuitWitnessSolver/circuit"
	"github.com/PolyhedraZK/CircuitWitnessSolver/utils"
	"github.com/consensys/gnark/constraint/solver"
)

// EvaluationError reports structurally invalid hint inputs, e.g. a zero
// divisor. It is fatal for the session.
type EvaluationError struct {
	Kind   circuit.DirectiveKind
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("directive %d: %s", e.Kind, e.Reason)
}

// OutOfRangeError reports an odd-range input that does not fit the declared
// bit size. The input violates a range constraint, so the solver surfaces it
// as an unsatisfied constraint rather than an evaluation failure.
type OutOfRangeError struct {
	Size  int
	Value string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %s does not fit in %d bits", e.Value, e.Size)
}

// ByKind returns the evaluator for a directive kind. size is the bit size
// for Truncate/ToBits/OddRange and the byte size for ToBytes. Inputs arrive reduced
// into the field; outputs are written as non-negative integers and reduced
// by the caller.
func ByKind(kind circuit.DirectiveKind, size int) (solver.Hint, error) {
	switch kind {
	case circuit.DirectiveInvert:
		return invertHint, nil
	case circuit.DirectiveQuotient:
		return quotientHint, nil
	case circuit.DirectiveTruncate:
		return truncateHint(size), nil
	case circuit.DirectiveToBits:
		return toBitsHint(size), nil
	case circuit.DirectiveToBytes:
		return toBytesHint(size), nil
	case circuit.DirectivePermutationSort:
		return permutationSortHint, nil
	case circuit.DirectiveOddRange:
		return oddRangeHint(size), nil
	}
	return nil, &EvaluationError{Kind: kind, Reason: "unknown directive kind"}
}

// invertHint writes the modular inverse of its input, and zero for zero,
// mirroring what an inversion gadget expects to feed its check x*y == 1.
func invertHint(q *big.Int, inputs, outputs []*big.Int) error {
	if inputs[0].Sign() == 0 {
		outputs[0] = big.NewInt(0)
		return nil
	}
	outputs[0] = new(big.Int).ModInverse(inputs[0], q)
	return nil
}

// quotientHint computes the integer quotient and remainder of its first two
// inputs interpreted as non-negative integers. An optional third input is a
// predicate: when zero, both outputs are zero and the divisor is not
// touched.
func quotientHint(q *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) == 3 && inputs[2].Sign() == 0 {
		outputs[0] = big.NewInt(0)
		outputs[1] = big.NewInt(0)
		return nil
	}
	if inputs[1].Sign() == 0 {
		return &EvaluationError{Kind: circuit.DirectiveQuotient, Reason: "zero divisor"}
	}
	outputs[0] = new(big.Int).Div(inputs[0], inputs[1])
	outputs[1] = new(big.Int).Mod(inputs[0], inputs[1])
	return nil
}

// truncateHint splits a into its low size bits and the remaining high part:
// a = b + c * 2^size.
func truncateHint(size int) solver.Hint {
	return func(q *big.Int, inputs, outputs []*big.Int) error {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(size))
		b := new(big.Int).Mod(inputs[0], pow)
		c := new(big.Int).Sub(inputs[0], b)
		c.Div(c, pow)
		outputs[0] = b
		outputs[1] = c
		return nil
	}
}

// toBitsHint decomposes its input into size little-endian bits.
func toBitsHint(size int) solver.Hint {
	return func(q *big.Int, inputs, outputs []*big.Int) error {
		for i := 0; i < size; i++ {
			outputs[i] = big.NewInt(int64(inputs[0].Bit(i)))
		}
		return nil
	}
}

// toBytesHint decomposes its input into size little-endian bytes.
func toBytesHint(size int) solver.Hint {
	return func(q *big.Int, inputs, outputs []*big.Int) error {
		b := inputs[0].Bytes()
		for i := 0; i < size; i++ {
			var v byte
			if i < len(b) {
				v = b[len(b)-1-i]
			}
			outputs[i] = big.NewInt(int64(v))
		}
		return nil
	}
}

// oddRangeHint asserts a < 2^size and splits off the top bit:
// a = r + b * 2^(size-1) with r < 2^(size-1) and b in {0, 1}.
func oddRangeHint(size int) solver.Hint {
	return func(q *big.Int, inputs, outputs []*big.Int) error {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(size-1))
		if inputs[0].Cmp(new(big.Int).Lsh(pow, 1)) >= 0 {
			return &OutOfRangeError{Size: size, Value: inputs[0].String()}
		}
		r := new(big.Int).Set(inputs[0])
		b := new(big.Int)
		if r.Cmp(pow) >= 0 {
			b.SetInt64(1)
			r.Sub(r, pow)
		}
		outputs[0] = r
		outputs[1] = b
		return nil
	}
}

// permutationSortHint writes the stable permutation of input indices that
// sorts the inputs: outputs[i] is the index of the i-th smallest value.
func permutationSortHint(q *big.Int, inputs, outputs []*big.Int) error {
	p := utils.PermutationStable(len(inputs), func(i, j int) bool {
		return inputs[i].Cmp(inputs[j]) < 0
	})
	for i, x := range p {
		outputs[i] = big.NewInt(int64(x))
	}
	return nil
}
