// Package solver resolves the unknown witnesses of a circuit from the known
// ones, or reports precisely why it cannot.
//
// Opcode order is not assumed to follow data dependencies: a directive or a
// black-box call may appear before the arithmetic that determines its
// inputs. The engine is therefore a fixpoint over repeated passes of the
// unresolved frontier rather than a one-pass interpreter; each non-final
// pass strictly shrinks the frontier, bounding the session at one pass per
// opcode.
package solver

import (
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/PolyhedraZK/CircuitWitnessSolver/blackbox"
	"github.com/PolyhedraZK/CircuitWitnessSolver/circuit"
	"github.com/PolyhedraZK/CircuitWitnessSolver/directive"
	"github.com/PolyhedraZK/CircuitWitnessSolver/expr"
	"github.com/PolyhedraZK/CircuitWitnessSolver/field"
	"github.com/PolyhedraZK/CircuitWitnessSolver/witness"
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"
)

// Solver runs solving sessions against one circuit. A Solver value runs one
// session at a time (Solve updates the session counters in place); for
// concurrent sessions build one Solver per session, they share the circuit
// safely since circuits are never mutated.
type Solver struct {
	c       *circuit.Circuit
	f       field.Field
	backend blackbox.Backend
	nbTasks int

	stats Stats
}

// Stats describes the last session.
type Stats struct {
	Passes   int
	Resolved int
}

type Option func(*Solver)

// WithBackend replaces the default reference backend with a proof-system
// provided one.
func WithBackend(b blackbox.Backend) Option {
	return func(s *Solver) { s.backend = b }
}

// WithNbTasks evaluates independent opcodes of one pass on up to n
// goroutines. The witness map's first-writer-wins insert discipline keeps
// the result independent of scheduling.
func WithNbTasks(n int) Option {
	return func(s *Solver) {
		if n > 1 {
			s.nbTasks = n
		}
	}
}

// New validates the circuit once and returns a solver that may run many
// sessions against it.
func New(c *circuit.Circuit, f field.Field, opts ...Option) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		c:       c,
		f:       f,
		backend: blackbox.NewReferenceBackend(f),
		nbTasks: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Stats returns counters from the last Solve call.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Solve runs one session: starting from the externally supplied assignment,
// it resolves opcodes until the frontier is empty or no pass makes
// progress. On success the returned map assigns every witness the circuit
// references; on any failure no result is returned.
func (s *Solver) Solve(initial map[witness.Witness]constraint.Element) (*witness.Map, error) {
	log := logger.Logger()
	m := witness.NewMap(initial)
	s.stats = Stats{}

	frontier := bitset.New(uint(len(s.c.Opcodes)))
	for i := range s.c.Opcodes {
		frontier.Set(uint(i))
	}

	for frontier.Count() > 0 {
		var progress int
		var err error
		if s.nbTasks > 1 {
			progress, err = s.parallelPass(frontier, m)
		} else {
			progress, err = s.sequentialPass(frontier, m)
		}
		if err != nil {
			return nil, err
		}
		s.stats.Passes++
		s.stats.Resolved += progress
		log.Debug().Int("pass", s.stats.Passes).Int("resolved", progress).Uint("remaining", frontier.Count()).Msg("solver pass")
		if progress == 0 {
			return nil, s.stalled(frontier, m)
		}
	}

	refs := s.c.ReferencedWitnesses()
	if !m.ContainsAll(refs) {
		return nil, s.stalled(frontier, m)
	}
	return m, nil
}

func (s *Solver) sequentialPass(frontier *bitset.BitSet, m *witness.Map) (int, error) {
	progress := 0
	for i, ok := frontier.NextSet(0); ok; i, ok = frontier.NextSet(i + 1) {
		resolved, err := s.attempt(int(i), m)
		if err != nil {
			return 0, err
		}
		if resolved {
			frontier.Clear(i)
			progress++
		}
	}
	return progress, nil
}

// parallelPass attempts the whole frontier concurrently. Resolution is
// commutative: a witness is only ever resolved once, and re-resolving an
// opcode against a complete assignment is an idempotent no-op, so chunking
// the frontier across workers cannot change the final map.
func (s *Solver) parallelPass(frontier *bitset.BitSet, m *witness.Map) (int, error) {
	indices := make([]int, 0, frontier.Count())
	for i, ok := frontier.NextSet(0); ok; i, ok = frontier.NextSet(i + 1) {
		indices = append(indices, int(i))
	}
	resolvedFlags := make([]atomic.Bool, len(indices))

	var g errgroup.Group
	g.SetLimit(s.nbTasks)
	chunk := (len(indices) + s.nbTasks - 1) / s.nbTasks
	for start := 0; start < len(indices); start += chunk {
		end := start + chunk
		if end > len(indices) {
			end = len(indices)
		}
		start := start
		g.Go(func() error {
			for k := start; k < end; k++ {
				resolved, err := s.attempt(indices[k], m)
				if err != nil {
					return err
				}
				if resolved {
					resolvedFlags[k].Store(true)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	progress := 0
	for k := range indices {
		if resolvedFlags[k].Load() {
			frontier.Clear(uint(indices[k]))
			progress++
		}
	}
	return progress, nil
}

// attempt tries one opcode. It returns true when the opcode is resolved;
// false with a nil error defers it to a later pass.
func (s *Solver) attempt(i int, m *witness.Map) (bool, error) {
	op := &s.c.Opcodes[i]
	switch op.Type {
	case circuit.Arithmetic:
		return s.solveArithmetic(i, op.Arith, m)
	case circuit.BlackBoxCall:
		return s.solveBlackBox(i, op, m)
	case circuit.Directive:
		return s.solveDirective(i, op, m)
	}
	return false, fmt.Errorf("opcode %d: unknown type %d", i, op.Type)
}

func (s *Solver) solveBlackBox(i int, op *circuit.Opcode, m *witness.Map) (bool, error) {
	inputs := make([]blackbox.Input, len(op.FuncInputs))
	for j, in := range op.FuncInputs {
		v, ok := m.Get(in.Witness)
		if !ok {
			return false, nil
		}
		inputs[j] = blackbox.Input{Value: v, NumBits: in.NumBits}
	}

	var outputs []constraint.Element
	var err error
	if blackbox.IsInternal(op.FuncName) {
		outputs, err = blackbox.SolveInternal(s.f, op.FuncName, inputs, len(op.Outputs))
	} else {
		if !s.backend.Supports(op.FuncName) {
			return false, fmt.Errorf("opcode %d: %w", i, &blackbox.UnsupportedError{Func: op.FuncName})
		}
		outputs, err = s.backend.Evaluate(s.f, op.FuncName, inputs, len(op.Outputs))
	}
	if err != nil {
		if rc, ok := err.(*blackbox.RangeCheckError); ok {
			return false, &UnsatisfiedConstraintError{Opcode: i, Detail: rc.Error()}
		}
		return false, fmt.Errorf("opcode %d: %w", i, err)
	}
	if len(outputs) != len(op.Outputs) {
		return false, fmt.Errorf("opcode %d: %w", i, &blackbox.MalformedInputError{
			Func:   op.FuncName,
			Reason: fmt.Sprintf("backend returned %d outputs, want %d", len(outputs), len(op.Outputs)),
		})
	}
	for j, w := range op.Outputs {
		if err := m.Insert(w, outputs[j]); err != nil {
			return false, fmt.Errorf("opcode %d: %w", i, err)
		}
	}
	return true, nil
}

func (s *Solver) solveDirective(i int, op *circuit.Opcode, m *witness.Map) (bool, error) {
	exprs := op.Inputs
	if op.Predicate != nil {
		exprs = append(append([]expr.Expression{}, op.Inputs...), *op.Predicate)
	}
	in := make([]*big.Int, len(exprs))
	for j, e := range exprs {
		v, ok := e.Evaluate(s.f, m.Get)
		if !ok {
			return false, nil
		}
		in[j] = s.f.ToBigInt(v)
	}

	hint, err := directive.ByKind(op.Kind, op.Size)
	if err != nil {
		return false, fmt.Errorf("opcode %d: %w", i, err)
	}
	out := make([]*big.Int, len(op.Outputs))
	if err := hint(s.f.Field(), in, out); err != nil {
		var oor *directive.OutOfRangeError
		if errors.As(err, &oor) {
			return false, &UnsatisfiedConstraintError{Opcode: i, Detail: oor.Error()}
		}
		return false, fmt.Errorf("opcode %d: %w", i, err)
	}
	for j, w := range op.Outputs {
		if err := m.Insert(w, s.f.FromInterface(out[j])); err != nil {
			return false, fmt.Errorf("opcode %d: %w", i, err)
		}
	}
	return true, nil
}

func (s *Solver) stalled(frontier *bitset.BitSet, m *witness.Map) error {
	e := &StalledError{}
	for i, ok := frontier.NextSet(0); ok; i, ok = frontier.NextSet(i + 1) {
		e.Unresolved = append(e.Unresolved, int(i))
	}
	refs := s.c.ReferencedWitnesses()
	for i, ok := refs.NextSet(0); ok; i, ok = refs.NextSet(i + 1) {
		if _, assigned := m.Get(witness.Witness(i)); !assigned {
			e.Missing = append(e.Missing, witness.Witness(i))
		}
	}
	return e
}
