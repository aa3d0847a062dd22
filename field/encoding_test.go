package field

import (
	"strings"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestEncodingRoundTrips(t *testing.T) {
	for name, f := range testFields() {
		f := f
		t.Run(name, func(t *testing.T) {
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 100

			properties := gopter.NewProperties(parameters)
			properties.Property("from_bytes(to_bytes(x)) == x", prop.ForAll(
				func(x constraint.Element) bool {
					b := Bytes(f, x)
					if len(b) != f.SerializedLen() {
						return false
					}
					y, err := FromBytes(f, b)
					return err == nil && Equal(x, y)
				},
				genElement(f),
			))
			properties.Property("from_hex(to_hex(x)) == x", prop.ForAll(
				func(x constraint.Element) bool {
					s := Hex(f, x)
					if s != strings.ToLower(s) || len(s) != 2*f.SerializedLen() {
						return false
					}
					y, err := FromHex(f, s)
					if err != nil || !Equal(x, y) {
						return false
					}
					// input is case-insensitive
					y, err = FromHex(f, "0x"+strings.ToUpper(s))
					return err == nil && Equal(x, y)
				},
				genElement(f),
			))
			properties.Property("from_bits(to_bits(x)) == x", prop.ForAll(
				func(x constraint.Element) bool {
					bits := Bits(f, x)
					if len(bits) != f.FieldBitLen() {
						return false
					}
					y, err := FromBits(f, bits)
					return err == nil && Equal(x, y)
				},
				genElement(f),
			))
			properties.TestingRun(t, gopter.ConsoleReporter(false))
		})
	}
}

func TestFromBytesRejectsBadInput(t *testing.T) {
	for name, f := range testFields() {
		f := f
		t.Run(name, func(t *testing.T) {
			_, err := FromBytes(f, make([]byte, f.SerializedLen()-1))
			require.ErrorIs(t, err, ErrInvalidLength)

			// the modulus itself is not canonical
			b := f.Field().Bytes()
			mod := make([]byte, f.SerializedLen())
			copy(mod[len(mod)-len(b):], b)
			_, err = FromBytes(f, mod)
			require.ErrorIs(t, err, ErrNonCanonical)
		})
	}
}

func TestFromHexOddLengthAndPrefix(t *testing.T) {
	f := testFields()["bn254"]
	x, err := FromHex(f, "0xf")
	require.NoError(t, err)
	require.Equal(t, "15", f.String(x))
}

func TestNumBits(t *testing.T) {
	f := testFields()["bn254"]
	require.Equal(t, 0, NumBits(f, Zero()))
	require.Equal(t, 1, NumBits(f, f.One()))
	require.Equal(t, 3, NumBits(f, f.FromInterface(7)))
	require.Equal(t, 4, NumBits(f, f.FromInterface(8)))
}
