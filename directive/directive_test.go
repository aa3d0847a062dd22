package directive

import (
	"math/big"
	"testing"

	"github.com/PolyhedraZK/CircuitWitnessSolver/circuit"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"
)

var q = ecc.BN254.ScalarField()

func run(t *testing.T, kind circuit.DirectiveKind, size int, inputs []int64, nbOutputs int) []*big.Int {
	t.Helper()
	hint, err := ByKind(kind, size)
	require.NoError(t, err)
	in := make([]*big.Int, len(inputs))
	for i, x := range inputs {
		in[i] = big.NewInt(x)
	}
	out := make([]*big.Int, nbOutputs)
	require.NoError(t, hint(q, in, out))
	return out
}

func TestInvert(t *testing.T) {
	out := run(t, circuit.DirectiveInvert, 0, []int64{3}, 1)
	check := new(big.Int).Mul(out[0], big.NewInt(3))
	check.Mod(check, q)
	require.Equal(t, int64(1), check.Int64())

	// zero maps to zero rather than failing
	out = run(t, circuit.DirectiveInvert, 0, []int64{0}, 1)
	require.Equal(t, int64(0), out[0].Int64())
}

func TestQuotient(t *testing.T) {
	out := run(t, circuit.DirectiveQuotient, 0, []int64{17, 5}, 2)
	require.Equal(t, int64(3), out[0].Int64())
	require.Equal(t, int64(2), out[1].Int64())
}

func TestQuotientZeroDivisor(t *testing.T) {
	hint, err := ByKind(circuit.DirectiveQuotient, 0)
	require.NoError(t, err)
	err = hint(q, []*big.Int{big.NewInt(17), big.NewInt(0)}, make([]*big.Int, 2))
	var ev *EvaluationError
	require.ErrorAs(t, err, &ev)
	require.Equal(t, circuit.DirectiveQuotient, ev.Kind)
}

func TestQuotientPredicate(t *testing.T) {
	// a false predicate zeroes the outputs even with a zero divisor
	out := run(t, circuit.DirectiveQuotient, 0, []int64{17, 0, 0}, 2)
	require.Equal(t, int64(0), out[0].Int64())
	require.Equal(t, int64(0), out[1].Int64())

	out = run(t, circuit.DirectiveQuotient, 0, []int64{17, 5, 1}, 2)
	require.Equal(t, int64(3), out[0].Int64())
	require.Equal(t, int64(2), out[1].Int64())
}

func TestTruncate(t *testing.T) {
	// 0b110_0101 split at 4 bits: low = 0b0101, high = 0b110
	out := run(t, circuit.DirectiveTruncate, 4, []int64{0b1100101}, 2)
	require.Equal(t, int64(0b0101), out[0].Int64())
	require.Equal(t, int64(0b110), out[1].Int64())

	recomposed := new(big.Int).Lsh(out[1], 4)
	recomposed.Add(recomposed, out[0])
	require.Equal(t, int64(0b1100101), recomposed.Int64())
}

func TestToBits(t *testing.T) {
	out := run(t, circuit.DirectiveToBits, 8, []int64{0b1011}, 8)
	want := []int64{1, 1, 0, 1, 0, 0, 0, 0}
	for i, b := range want {
		require.Equal(t, b, out[i].Int64(), "bit %d", i)
	}
}

func TestToBytes(t *testing.T) {
	out := run(t, circuit.DirectiveToBytes, 4, []int64{0x0a0b0c}, 4)
	want := []int64{0x0c, 0x0b, 0x0a, 0x00}
	for i, b := range want {
		require.Equal(t, b, out[i].Int64(), "byte %d", i)
	}
}

func TestPermutationSort(t *testing.T) {
	out := run(t, circuit.DirectivePermutationSort, 0, []int64{30, 10, 20}, 3)
	require.Equal(t, int64(1), out[0].Int64())
	require.Equal(t, int64(2), out[1].Int64())
	require.Equal(t, int64(0), out[2].Int64())

	// equal values keep their original relative order
	out = run(t, circuit.DirectivePermutationSort, 0, []int64{5, 5, 1}, 3)
	require.Equal(t, int64(2), out[0].Int64())
	require.Equal(t, int64(0), out[1].Int64())
	require.Equal(t, int64(1), out[2].Int64())
}

func TestOddRange(t *testing.T) {
	// top bit clear: a = r, b = 0
	out := run(t, circuit.DirectiveOddRange, 5, []int64{0b01011}, 2)
	require.Equal(t, int64(0b1011), out[0].Int64())
	require.Equal(t, int64(0), out[1].Int64())

	// top bit set: a = r + 2^(size-1), b = 1
	out = run(t, circuit.DirectiveOddRange, 5, []int64{0b11011}, 2)
	require.Equal(t, int64(0b1011), out[0].Int64())
	require.Equal(t, int64(1), out[1].Int64())

	// the boundary value 2^size - 1 still fits
	out = run(t, circuit.DirectiveOddRange, 5, []int64{0b11111}, 2)
	require.Equal(t, int64(0b1111), out[0].Int64())
	require.Equal(t, int64(1), out[1].Int64())
}

func TestOddRangeRejectsOversized(t *testing.T) {
	hint, err := ByKind(circuit.DirectiveOddRange, 5)
	require.NoError(t, err)
	err = hint(q, []*big.Int{big.NewInt(0b100000)}, make([]*big.Int, 2))
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	require.Equal(t, 5, oor.Size)
}

func TestUnknownKind(t *testing.T) {
	_, err := ByKind(circuit.DirectiveKind(99), 0)
	var ev *EvaluationError
	require.ErrorAs(t, err, &ev)
}
