package field

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark/constraint"
)

// Canonical interchange encodings for field elements crossing the backend
// boundary: fixed-length big-endian bytes, lowercase hex, and little-endian
// bit vectors of exactly FieldBitLen entries.

var (
	ErrInvalidLength = errors.New("invalid encoding length")
	ErrNonCanonical  = errors.New("value is not reduced modulo the field order")
)

// Bytes returns x as exactly SerializedLen big-endian bytes.
func Bytes(f Field, x constraint.Element) []byte {
	b := f.ToBigInt(x).Bytes()
	res := make([]byte, f.SerializedLen())
	copy(res[len(res)-len(b):], b)
	return res
}

// FromBytes is the exact inverse of Bytes. It rejects slices of the wrong
// length and values outside [0, modulus).
func FromBytes(f Field, b []byte) (constraint.Element, error) {
	if len(b) != f.SerializedLen() {
		return constraint.Element{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), f.SerializedLen())
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(f.Field()) >= 0 {
		return constraint.Element{}, ErrNonCanonical
	}
	return f.FromInterface(v), nil
}

// FromBytesReduce interprets b as a big-endian integer and reduces it into
// the field. Internal primitives (byte decomposition, hash-to-field) use it;
// backend-facing decoding goes through FromBytes.
func FromBytesReduce(f Field, b []byte) constraint.Element {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, f.Field())
	return f.FromInterface(v)
}

// Hex returns the fixed-width lowercase hex encoding of x.
func Hex(f Field, x constraint.Element) string {
	return hex.EncodeToString(Bytes(f, x))
}

// FromHex decodes a hex string, case-insensitive, optional 0x prefix.
// Shorter strings are left-padded; the decoded value must be canonical.
func FromHex(f Field, s string) (constraint.Element, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return constraint.Element{}, err
	}
	if len(b) > f.SerializedLen() {
		return constraint.Element{}, fmt.Errorf("%w: got %d bytes, want at most %d", ErrInvalidLength, len(b), f.SerializedLen())
	}
	padded := make([]byte, f.SerializedLen())
	copy(padded[len(padded)-len(b):], b)
	return FromBytes(f, padded)
}

// Bits decomposes x into exactly FieldBitLen booleans, least significant
// first. Range checks and the logic primitives consume this form.
func Bits(f Field, x constraint.Element) []bool {
	v := f.ToBigInt(x)
	res := make([]bool, f.FieldBitLen())
	for i := range res {
		res[i] = v.Bit(i) == 1
	}
	return res
}

// FromBits recomposes a little-endian bit vector. The input may be shorter
// than FieldBitLen (missing high bits are zero) but never longer, and the
// recomposed value must be canonical.
func FromBits(f Field, bits []bool) (constraint.Element, error) {
	if len(bits) > f.FieldBitLen() {
		return constraint.Element{}, fmt.Errorf("%w: got %d bits, want at most %d", ErrInvalidLength, len(bits), f.FieldBitLen())
	}
	v := new(big.Int)
	for i, b := range bits {
		if b {
			v.SetBit(v, i, 1)
		}
	}
	if v.Cmp(f.Field()) >= 0 {
		return constraint.Element{}, ErrNonCanonical
	}
	return f.FromInterface(v), nil
}

// NumBits returns the bit length of x's canonical integer value.
func NumBits(f Field, x constraint.Element) int {
	return f.ToBigInt(x).BitLen()
}
