package circuit

import (
	"github.com/PolyhedraZK/CircuitWitnessSolver/expr"
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
)

// OpcodeType enumerates the kinds of constraints a circuit is made of.
type OpcodeType int

const (
	_ OpcodeType = iota
	Arithmetic
	BlackBoxCall
	Directive
)

// DirectiveKind enumerates the built-in hint computations.
type DirectiveKind int

const (
	_ DirectiveKind = iota
	DirectiveInvert
	DirectiveQuotient
	DirectiveTruncate
	DirectiveToBits
	DirectiveToBytes
	DirectivePermutationSort
	DirectiveOddRange
)

// FunctionInput is a black-box input witness with its declared bit width.
type FunctionInput struct {
	Witness witness.Witness
	NumBits int
}

// Opcode is one constraint of a circuit. It can be:
//  1. an arithmetic constraint, an expression summing to zero
//  2. a black-box function call, delegated to a backend or solved internally
//  3. a directive, an unverified hint computing auxiliary witnesses
type Opcode struct {
	Type OpcodeType

	// Arithmetic
	Arith expr.Expression

	// BlackBoxCall
	FuncName   string
	FuncInputs []FunctionInput

	// Directive
	Kind      DirectiveKind
	Inputs    []expr.Expression
	Predicate *expr.Expression // Quotient only; outputs are zeroed when it evaluates to zero
	Size      int              // bit size for Truncate/ToBits/OddRange, byte size for ToBytes

	// BlackBoxCall and Directive
	Outputs []witness.Witness
}

func NewArithmeticOpcode(e expr.Expression) Opcode {
	return Opcode{
		Type:  Arithmetic,
		Arith: e,
	}
}

func NewBlackBoxCallOpcode(name string, inputs []FunctionInput, outputs []witness.Witness) Opcode {
	return Opcode{
		Type:       BlackBoxCall,
		FuncName:   name,
		FuncInputs: inputs,
		Outputs:    outputs,
	}
}

func NewDirectiveOpcode(kind DirectiveKind, inputs []expr.Expression, outputs []witness.Witness, size int) Opcode {
	return Opcode{
		Type:    Directive,
		Kind:    kind,
		Inputs:  inputs,
		Outputs: outputs,
		Size:    size,
	}
}

// NewQuotientDirective builds the integer division hint q = a / b, r = a % b.
func NewQuotientDirective(a, b expr.Expression, q, r witness.Witness, predicate *expr.Expression) Opcode {
	return Opcode{
		Type:      Directive,
		Kind:      DirectiveQuotient,
		Inputs:    []expr.Expression{a, b},
		Predicate: predicate,
		Outputs:   []witness.Witness{q, r},
	}
}
