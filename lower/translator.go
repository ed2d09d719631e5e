// Package lower implements the AST→ThIR translator (spec §4.C), the heart of
// the frontend. Per-node dispatch mirrors the teacher's tree-sitter node
// dispatch (github.com/shivasurya/code-pathfinder/sourcecode-parser's
// tree/java/parse_expr.go and graph/callgraph/imports.go), generalized from a
// single-pass AST walk into the closed statement/expression sum types of
// package ir.
package lower

import (
	"fmt"
	"strconv"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/pyast"
)

func itoa(i int) string { return strconv.Itoa(i) }

// Config is the subset of the frontend's run configuration the translator
// consults while lowering (spec §6.1, Design Notes "Global analyzer
// configuration"). It is passed into the constructor rather than read from a
// process-wide singleton, which is what makes determinism (P1) testable.
type Config struct {
	// IgnoreAssert, when true, lowers every `assert` statement to Pass
	// instead of emitting a raise-on-failure guard (spec §4.C.8).
	IgnoreAssert bool
}

// Finding is a non-fatal diagnostic recorded while lowering an unsupported
// construct (spec §7: "silently lowered to Pass ... source reference
// preserved"). Findings never stop translation; the collector surfaces them
// through package diagnostics.
type Finding struct {
	Ref     ir.SourceRef
	Message string
}

// MalformedASTError reports a node in a position the frontend cannot lower
// (spec §7), e.g. augmented assignment to a Call. It is fatal for the
// owning file only; the collector catches it and moves on to the next file.
type MalformedASTError struct {
	Ref ir.SourceRef
	Msg string
}

func (e *MalformedASTError) Error() string {
	return fmt.Sprintf("malformed AST at %s:%d: %s", e.Ref.File, e.Ref.Start, e.Msg)
}

func malformed(ref ir.SourceRef, format string, args ...any) error {
	return &MalformedASTError{Ref: ref, Msg: fmt.Sprintf(format, args...)}
}

// Translator is strictly single-threaded and pure with respect to its
// inputs (spec §5): its state is a monotonic counter used to mint fresh
// temporaries (reset by New), the current module's qualified path (set by
// LowerModule), and the recorded Findings. Two translations of the same AST by
// fresh Translators produce structurally identical ThIR modulo source
// references (P1). Parallelizing per-file lowering is safe as long as each
// file gets its own Translator (spec §5).
type Translator struct {
	cfg      Config
	counter  int
	findings []Finding

	// currentQual is the qualified module path of the file currently being
	// lowered, set once by LowerModule. Relative imports (spec §4.B,
	// scanQualPath) resolve against it.
	currentQual string
}

// New returns a Translator configured per cfg, with a freshly reset counter.
func New(cfg Config) *Translator {
	return &Translator{cfg: cfg}
}

// Findings returns every unsupported-construct diagnostic recorded during
// the lowering calls made so far on this Translator.
func (t *Translator) Findings() []Finding {
	return t.findings
}

func (t *Translator) note(ref ir.SourceRef, format string, args ...any) {
	t.findings = append(t.findings, Finding{Ref: ref, Message: fmt.Sprintf(format, args...)})
}

// fresh mints the next $Imm-prefixed temporary name. The counter is
// per-Translator and monotonic; restarting a translation (calling New)
// resets it (spec §5).
func (t *Translator) fresh() string {
	t.counter++
	return fmt.Sprintf("$Imm%d", t.counter)
}

func srcRef(n pyast.Node) ir.SourceRef {
	if n == nil {
		return ir.SourceRef{}
	}
	p := n.Pos()
	return ir.SourceRef{File: p.File, Start: p.Start, Length: p.Length}
}

// unsupportedExpr is the fallback value for an expression-position
// construct the frontend recognizes but does not lower precisely (spec §7:
// Ternary is dispatched but has no ThExpr counterpart; slice subscripts and
// `...` fall the same way). It records a Finding and returns a neutral
// Const(None) so the surrounding expression tree stays well-formed.
func (t *Translator) unsupportedExpr(n pyast.Node, what string) ir.ThExpr {
	ref := srcRef(n)
	t.note(ref, "%s is not representable in ThIR; lowered to None", what)
	return ir.NewConst(ir.None, nil, ref)
}

// unsupportedStmt is the statement-position counterpart (spec §7): `del`
// statements and class-level non-name assignment take this path, lowering
// to Pass with the source reference preserved. Dict expansion entries are
// dropped by lowerDict, and comprehensions reach the translator as
// EllipsisNode and go through unsupportedExpr instead.
func (t *Translator) unsupportedStmt(n pyast.Node, what string) ir.ThStmt {
	ref := srcRef(n)
	t.note(ref, "%s is not representable in ThIR; lowered to Pass", what)
	return ir.NewPass(ref)
}
