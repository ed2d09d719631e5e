package nameutil

import "github.com/thir-lang/thir/ir"

// binOpTable is the fixed mapping from parser operator tokens to ir.BinOp
// (spec §4.B). Comparison chaining (`a < b < c`) is the host parser's
// concern; by the time a BinaryOperation node reaches here it is always a
// single operator between two operands.
var binOpTable = map[string]ir.BinOp{
	"+":   ir.Add,
	"-":   ir.Sub,
	"*":   ir.Mul,
	"/":   ir.Div,
	"//":  ir.FloorDiv,
	"%":   ir.Mod,
	"**":  ir.Pow,
	"and": ir.And,
	"or":  ir.Or,
	"is":  ir.Is,
	"in":  ir.In,
	"<":   ir.Lt,
	"<=":  ir.Lte,
	"==":  ir.Eq,
	"!=":  ir.Neq,
	"&":   ir.BitAnd,
	"|":   ir.BitOr,
	"^":   ir.BitXor,
	"<<":  ir.LShift,
	">>":  ir.RShift,
}

// flippedBinOpTable holds operators the host parser may hand us that ThIR
// expresses only in their mirrored form (spec scenario 6: `>` normalizes to
// `<` with operands swapped, `>=` to `<=`).
var flippedBinOpTable = map[string]ir.BinOp{
	">":  ir.Lt,
	">=": ir.Lte,
}

// ParseBinOp maps a parser operator token to its ir.BinOp and reports
// whether the operands must be swapped to use it (true for `>`/`>=`).
func ParseBinOp(token string) (op ir.BinOp, swapOperands bool, ok bool) {
	if op, ok := binOpTable[token]; ok {
		return op, false, true
	}
	if op, ok := flippedBinOpTable[token]; ok {
		return op, true, true
	}
	return 0, false, false
}

var unaryOpTable = map[string]ir.UnaryOp{
	"-":   ir.Neg,
	"not": ir.Not,
	"~":   ir.Invert,
	"+":   ir.Pos,
}

// ParseUnaryOp maps a parser unary-operator token to its ir.UnaryOp.
func ParseUnaryOp(token string) (ir.UnaryOp, bool) {
	op, ok := unaryOpTable[token]
	return op, ok
}
