package grammar

import (
	"strings"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

// Op identifies the variant of a right-hand side expression node
type Op uint8

const (
	OpRef Op = iota
	OpSeq
	OpAlt
	OpIter
	OpOpt
)

func (op Op) String() string {
	switch op {
	case OpRef:
		return "ref"
	case OpSeq:
		return "sequence"
	case OpAlt:
		return "alternation"
	case OpIter:
		return "repetition"
	case OpOpt:
		return "option"
	default:
		return "unknown"
	}
}

// Syntagma is a right-hand side expression as written by a grammar author.
// Declaring a rule copies it into the grammar, so the same value can be
// reused in several rules.
type Syntagma struct {
	Op       Op
	Name     string // referenced symbol, OpRef only
	Operands []Syntagma
	Pos      errors.Position
}

// Ref refers to a declared symbol by name
func Ref(name string) Syntagma {
	return Syntagma{Op: OpRef, Name: name}
}

// Refs refers to several symbols in sequence
func Refs(names ...string) Syntagma {
	ops := make([]Syntagma, len(names))
	for i, name := range names {
		ops[i] = Ref(name)
	}
	return Seq(ops...)
}

// Empty refers to the empty keyword
func Empty() Syntagma {
	return Ref(symbol.EmptyName)
}

// Seq matches every operand in order
func Seq(ops ...Syntagma) Syntagma {
	return Syntagma{Op: OpSeq, Operands: ops}
}

// Alt matches one of the operands
func Alt(ops ...Syntagma) Syntagma {
	return Syntagma{Op: OpAlt, Operands: ops}
}

// Iter matches zero or more repetitions. Several operands form a sequence.
func Iter(ops ...Syntagma) Syntagma {
	return Syntagma{Op: OpIter, Operands: unary(ops)}
}

// Opt matches zero or one occurrence. Several operands form a sequence.
func Opt(ops ...Syntagma) Syntagma {
	return Syntagma{Op: OpOpt, Operands: unary(ops)}
}

func unary(ops []Syntagma) []Syntagma {
	if len(ops) > 1 {
		return []Syntagma{Seq(ops...)}
	}
	return ops
}

// At records where the expression was written.
func (s Syntagma) At(pos errors.Position) Syntagma {
	s.Pos = pos
	return s
}

// Show renders the expression in EBNF-like notation.
func (s Syntagma) Show() string {
	return s.ShowWith(showName)
}

// ShowWith is Show with references spelled by name.
func (s Syntagma) ShowWith(name func(string) string) string {
	return s.show(name, OpSeq, true)
}

func (s Syntagma) show(name func(string) string, parent Op, top bool) string {
	switch s.Op {
	case OpRef:
		return name(s.Name)
	case OpSeq:
		return joinShown(name, s.Operands, OpSeq, " ")
	case OpAlt:
		inner := joinShown(name, s.Operands, OpAlt, " | ")
		if !top && parent == OpSeq {
			return "( " + inner + " )"
		}
		return inner
	case OpIter:
		return "{ " + joinShown(name, s.Operands, OpIter, " ") + " }"
	case OpOpt:
		return "[ " + joinShown(name, s.Operands, OpOpt, " ") + " ]"
	}
	return ""
}

func joinShown(name func(string) string, ops []Syntagma, parent Op, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.show(name, parent, false)
	}
	return strings.Join(parts, sep)
}

func showName(name string) string {
	if name == symbol.EmptyName {
		return "ε"
	}
	return name
}
