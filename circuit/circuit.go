// Package circuit is the immutable data model of an arithmetic circuit: an
// ordered opcode sequence plus witness-space metadata. Circuits are produced
// by an external compiler and never mutated here, so one Circuit may back
// many concurrent solving sessions.
package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PolyhedraZK/CircuitWitnessSolver/expr"
	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
	"github.com/bits-and-blooms/bitset"
)

type Circuit struct {
	// NbWitnesses bounds the variable space; every witness index is below it.
	NbWitnesses int
	// Opcodes in declaration order. The order is not assumed to follow data
	// dependencies.
	Opcodes []Opcode
	// PublicInputs designates the externally visible witnesses.
	PublicInputs []witness.Witness
}

func (c *Circuit) checkWitness(w witness.Witness) error {
	if int(w) >= c.NbWitnesses {
		return fmt.Errorf("witness %d is out of bound (%d witnesses)", w, c.NbWitnesses)
	}
	return nil
}

func (c *Circuit) checkExpr(e expr.Expression) error {
	var err error
	e.Witnesses(func(w witness.Witness) {
		if err == nil {
			err = c.checkWitness(w)
		}
	})
	return err
}

// Validate checks structural well-formedness: witness indices in range,
// directive arities, declared bit widths. It does not touch values.
func (c *Circuit) Validate() error {
	for _, w := range c.PublicInputs {
		if err := c.checkWitness(w); err != nil {
			return fmt.Errorf("public input: %v", err)
		}
	}
	for i, op := range c.Opcodes {
		if err := c.validateOpcode(op); err != nil {
			return fmt.Errorf("opcode %d: %v", i, err)
		}
	}
	return nil
}

func (c *Circuit) validateOpcode(op Opcode) error {
	switch op.Type {
	case Arithmetic:
		return c.checkExpr(op.Arith)
	case BlackBoxCall:
		if op.FuncName == "" {
			return fmt.Errorf("empty black box function name")
		}
		for _, in := range op.FuncInputs {
			if err := c.checkWitness(in.Witness); err != nil {
				return err
			}
			if in.NumBits <= 0 {
				return fmt.Errorf("input witness %d has bit width %d", in.Witness, in.NumBits)
			}
		}
		for _, w := range op.Outputs {
			if err := c.checkWitness(w); err != nil {
				return err
			}
		}
		return nil
	case Directive:
		return c.validateDirective(op)
	default:
		return fmt.Errorf("unknown opcode type %d", op.Type)
	}
}

func (c *Circuit) validateDirective(op Opcode) error {
	for _, e := range op.Inputs {
		if err := c.checkExpr(e); err != nil {
			return err
		}
	}
	if op.Predicate != nil {
		if op.Kind != DirectiveQuotient {
			return fmt.Errorf("predicate on non-quotient directive")
		}
		if err := c.checkExpr(*op.Predicate); err != nil {
			return err
		}
	}
	for _, w := range op.Outputs {
		if err := c.checkWitness(w); err != nil {
			return err
		}
	}
	switch op.Kind {
	case DirectiveInvert:
		if len(op.Inputs) != 1 || len(op.Outputs) != 1 {
			return fmt.Errorf("invert directive wants 1 input and 1 output")
		}
	case DirectiveQuotient:
		if len(op.Inputs) != 2 || len(op.Outputs) != 2 {
			return fmt.Errorf("quotient directive wants 2 inputs and 2 outputs")
		}
	case DirectiveTruncate:
		if len(op.Inputs) != 1 || len(op.Outputs) != 2 || op.Size <= 0 {
			return fmt.Errorf("truncate directive wants 1 input, 2 outputs and a positive bit size")
		}
	case DirectiveToBits:
		if len(op.Inputs) != 1 || op.Size <= 0 || len(op.Outputs) != op.Size {
			return fmt.Errorf("to-bits directive wants 1 input and one output per bit")
		}
	case DirectiveToBytes:
		if len(op.Inputs) != 1 || op.Size <= 0 || len(op.Outputs) != op.Size {
			return fmt.Errorf("to-bytes directive wants 1 input and one output per byte")
		}
	case DirectivePermutationSort:
		if len(op.Inputs) == 0 || len(op.Outputs) != len(op.Inputs) {
			return fmt.Errorf("permutation-sort directive wants one output per input")
		}
	case DirectiveOddRange:
		if len(op.Inputs) != 1 || len(op.Outputs) != 2 || op.Size <= 0 {
			return fmt.Errorf("odd-range directive wants 1 input, 2 outputs and a positive bit size")
		}
	default:
		return fmt.Errorf("unknown directive kind %d", op.Kind)
	}
	return nil
}

// ReferencedWitnesses returns the set of witness indices any opcode or
// public input touches. Completeness of a solved assignment is judged
// against this set.
func (c *Circuit) ReferencedWitnesses() *bitset.BitSet {
	refs := bitset.New(uint(c.NbWitnesses))
	mark := func(w witness.Witness) { refs.Set(uint(w)) }
	for _, w := range c.PublicInputs {
		mark(w)
	}
	for _, op := range c.Opcodes {
		switch op.Type {
		case Arithmetic:
			op.Arith.Witnesses(mark)
		case BlackBoxCall:
			for _, in := range op.FuncInputs {
				mark(in.Witness)
			}
		case Directive:
			for _, e := range op.Inputs {
				e.Witnesses(mark)
			}
			if op.Predicate != nil {
				op.Predicate.Witnesses(mark)
			}
		}
		for _, w := range op.Outputs {
			mark(w)
		}
	}
	return refs
}

// Print writes a readable listing of the circuit, one opcode per line.
func (c *Circuit) Print(f field.Field) {
	for i, op := range c.Opcodes {
		fmt.Printf("%d: %s\n", i, c.opcodeString(op, f))
	}
}

func (c *Circuit) opcodeString(op Opcode, f field.Field) string {
	switch op.Type {
	case Arithmetic:
		return op.Arith.String(f) + " = 0"
	case BlackBoxCall:
		ins := make([]string, len(op.FuncInputs))
		for i, in := range op.FuncInputs {
			ins[i] = "w" + strconv.Itoa(int(in.Witness)) + ":" + strconv.Itoa(in.NumBits)
		}
		return witnessList(op.Outputs) + " = " + op.FuncName + "(" + strings.Join(ins, ",") + ")"
	case Directive:
		ins := make([]string, len(op.Inputs))
		for i, e := range op.Inputs {
			ins[i] = e.String(f)
		}
		return witnessList(op.Outputs) + " = directive#" + strconv.Itoa(int(op.Kind)) + "(" + strings.Join(ins, ",") + ")"
	}
	return "?"
}

func witnessList(ws []witness.Witness) string {
	s := make([]string, len(ws))
	for i, w := range ws {
		s[i] = "w" + strconv.Itoa(int(w))
	}
	return strings.Join(s, ",")
}
