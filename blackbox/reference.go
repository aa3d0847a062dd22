package blackbox

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"

	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	fieldbn254 "github.com/PolyhedraZK/CircuitWitnessSolver/field/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/consensys/gnark/constraint"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// ReferenceBackend is an in-process Backend implementing the delegated
// primitives with gnark-crypto and x/crypto. It doubles as the default
// delegate and as the reference implementation the tests check against.
// Curve-specific primitives (MiMC, scalar multiplication, eddsa) are only
// supported over the bn254 scalar field, so Supports is field-dependent.
type ReferenceBackend struct {
	Field field.Field
}

func NewReferenceBackend(f field.Field) *ReferenceBackend {
	return &ReferenceBackend{Field: f}
}

func (b *ReferenceBackend) Supports(name string) bool {
	switch name {
	case SHA256, Blake2s, Keccak256, HashToField128:
		return true
	case MiMC, FixedBaseScalarMul, EddsaVerify:
		return b.Field.Field().Cmp(fieldbn254.ScalarField) == 0
	}
	return false
}

func (b *ReferenceBackend) Evaluate(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if !b.Supports(name) {
		return nil, &UnsupportedError{Func: name}
	}
	switch name {
	case SHA256:
		return evalByteHash(f, name, inputs, nbOutputs, func(msg []byte) [32]byte {
			return sha256.Sum256(msg)
		})
	case Blake2s:
		return evalByteHash(f, name, inputs, nbOutputs, func(msg []byte) [32]byte {
			return blake2s.Sum256(msg)
		})
	case Keccak256:
		return evalByteHash(f, name, inputs, nbOutputs, func(msg []byte) [32]byte {
			h := sha3.NewLegacyKeccak256()
			h.Write(msg)
			var res [32]byte
			copy(res[:], h.Sum(nil))
			return res
		})
	case HashToField128:
		return b.evalHashToField(f, name, inputs, nbOutputs)
	case MiMC:
		return b.evalMiMC(f, name, inputs, nbOutputs)
	case FixedBaseScalarMul:
		return b.evalFixedBaseScalarMul(f, name, inputs, nbOutputs)
	case EddsaVerify:
		return b.evalEddsaVerify(f, name, inputs, nbOutputs)
	}
	return nil, &UnsupportedError{Func: name}
}

// inputBytes interprets each input as one byte of the message.
func inputBytes(f field.Field, name string, inputs []Input) ([]byte, error) {
	msg := make([]byte, len(inputs))
	for i, in := range inputs {
		if in.NumBits > 8 {
			return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("input %d declares %d bits, want at most 8", i, in.NumBits)}
		}
		v, ok := f.Uint64(in.Value)
		if !ok || v > 255 {
			return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("input %d is not a byte", i)}
		}
		msg[i] = byte(v)
	}
	return msg, nil
}

func evalByteHash(f field.Field, name string, inputs []Input, nbOutputs int, hashFn func([]byte) [32]byte) ([]constraint.Element, error) {
	if nbOutputs != 32 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 32 outputs, got %d", nbOutputs)}
	}
	msg, err := inputBytes(f, name, inputs)
	if err != nil {
		return nil, err
	}
	digest := hashFn(msg)
	res := make([]constraint.Element, 32)
	for i, x := range digest {
		res[i] = f.FromInterface(uint64(x))
	}
	return res, nil
}

// evalHashToField hashes the message with blake2s and reduces the low 128
// bits of the digest into the field.
func (b *ReferenceBackend) evalHashToField(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if nbOutputs != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 output, got %d", nbOutputs)}
	}
	msg, err := inputBytes(f, name, inputs)
	if err != nil {
		return nil, err
	}
	digest := blake2s.Sum256(msg)
	return []constraint.Element{field.FromBytesReduce(f, digest[16:])}, nil
}

func (b *ReferenceBackend) evalMiMC(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if nbOutputs != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 output, got %d", nbOutputs)}
	}
	if len(inputs) == 0 {
		return nil, &MalformedInputError{Func: name, Reason: "want at least 1 input"}
	}
	h := mimc.NewMiMC()
	for _, in := range inputs {
		h.Write(field.Bytes(f, in.Value))
	}
	return []constraint.Element{field.FromBytesReduce(f, h.Sum(nil))}, nil
}

func (b *ReferenceBackend) evalFixedBaseScalarMul(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if len(inputs) != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 input, got %d", len(inputs))}
	}
	if nbOutputs != 2 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 2 outputs, got %d", nbOutputs)}
	}
	curve := twistededwards.GetEdwardsCurve()
	var p twistededwards.PointAffine
	p.ScalarMultiplication(&curve.Base, f.ToBigInt(inputs[0].Value))
	x := p.X.BigInt(new(big.Int))
	y := p.Y.BigInt(new(big.Int))
	return []constraint.Element{f.FromInterface(x), f.FromInterface(y)}, nil
}

// evalEddsaVerify checks an eddsa signature over the embedded twisted
// Edwards curve. Inputs: public key x, y, 64 signature bytes, then the
// message elements. Output: 1 on success, 0 otherwise.
func (b *ReferenceBackend) evalEddsaVerify(f field.Field, name string, inputs []Input, nbOutputs int) ([]constraint.Element, error) {
	if len(inputs) < 2+64+1 {
		return nil, &MalformedInputError{Func: name, Reason: "want public key, 64 signature bytes and a message"}
	}
	if nbOutputs != 1 {
		return nil, &MalformedInputError{Func: name, Reason: fmt.Sprintf("want 1 output, got %d", nbOutputs)}
	}
	var pub eddsa.PublicKey
	pub.A.X.SetBigInt(f.ToBigInt(inputs[0].Value))
	pub.A.Y.SetBigInt(f.ToBigInt(inputs[1].Value))
	sigBin, err := inputBytes(f, name, inputs[2:2+64])
	if err != nil {
		return nil, err
	}
	var msg []byte
	for _, in := range inputs[2+64:] {
		msg = append(msg, field.Bytes(f, in.Value)...)
	}
	var hFunc hash.Hash = mimc.NewMiMC()
	ok, err := pub.Verify(sigBin, msg, hFunc)
	if err != nil || !ok {
		return []constraint.Element{{}}, nil
	}
	return []constraint.Element{f.One()}, nil
}
