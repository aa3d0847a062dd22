package field

import (
	"math/big"
	"testing"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field/bls12381"
	"github.com/PolyhedraZK/CircuitWitnessSolver/field/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func testFields() map[string]Field {
	return map[string]Field{
		"bn254":    &bn254.Field{},
		"bls12381": &bls12381.Field{},
	}
}

func genElement(f Field) gopter.Gen {
	return gen.SliceOfN(f.SerializedLen(), gen.UInt8()).Map(func(b []byte) constraint.Element {
		return FromBytesReduce(f, b)
	})
}

func TestFieldAxioms(t *testing.T) {
	for name, f := range testFields() {
		f := f
		t.Run(name, func(t *testing.T) {
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 100

			properties := gopter.NewProperties(parameters)
			properties.Property("(a+b)+c == a+(b+c)", prop.ForAll(
				func(a, b, c constraint.Element) bool {
					return Equal(f.Add(f.Add(a, b), c), f.Add(a, f.Add(b, c)))
				},
				genElement(f), genElement(f), genElement(f),
			))
			properties.Property("a*b == b*a", prop.ForAll(
				func(a, b constraint.Element) bool {
					return Equal(f.Mul(a, b), f.Mul(b, a))
				},
				genElement(f), genElement(f),
			))
			properties.Property("a*(b+c) == a*b+a*c", prop.ForAll(
				func(a, b, c constraint.Element) bool {
					return Equal(f.Mul(a, f.Add(b, c)), f.Add(f.Mul(a, b), f.Mul(a, c)))
				},
				genElement(f), genElement(f), genElement(f),
			))
			properties.Property("a+(-a) == 0", prop.ForAll(
				func(a constraint.Element) bool {
					return IsZero(f.Add(a, f.Neg(a)))
				},
				genElement(f),
			))
			properties.Property("x * invert(x) == 1 for nonzero x", prop.ForAll(
				func(a constraint.Element) bool {
					if IsZero(a) {
						return true
					}
					inv, ok := f.Inverse(a)
					return ok && f.IsOne(f.Mul(a, inv))
				},
				genElement(f),
			))
			properties.TestingRun(t, gopter.ConsoleReporter(false))
		})
	}
}

func TestInverseOfZeroFails(t *testing.T) {
	for name, f := range testFields() {
		f := f
		t.Run(name, func(t *testing.T) {
			_, ok := f.Inverse(Zero())
			require.False(t, ok)
		})
	}
}

func TestGetFieldFromOrder(t *testing.T) {
	f, err := GetFieldFromOrder(bn254.ScalarField)
	require.NoError(t, err)
	require.Equal(t, 0, f.Field().Cmp(bn254.ScalarField))

	f, err = GetFieldFromOrder(bls12381.ScalarField)
	require.NoError(t, err)
	require.Equal(t, 0, f.Field().Cmp(bls12381.ScalarField))

	_, err = GetFieldFromOrder(big.NewInt(65537))
	require.Error(t, err)
}

func TestReducedArithmetic(t *testing.T) {
	for name, f := range testFields() {
		f := f
		t.Run(name, func(t *testing.T) {
			// p-1 + 1 wraps to 0
			pm1 := new(big.Int).Sub(f.Field(), big.NewInt(1))
			x := f.FromInterface(pm1)
			require.True(t, IsZero(f.Add(x, f.One())))

			// values are always reduced on entry
			over := new(big.Int).Add(f.Field(), big.NewInt(5))
			require.Equal(t, "5", f.String(f.FromInterface(over)))
		})
	}
}
