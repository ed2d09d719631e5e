package lower

import (
	"strings"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

// LowerModule lowers an entire module to `Let("$module", body, Object())`
// (spec §4.C.1). currentQual is the module's own qualified path (as
// produced by the collector), used to resolve any relative imports it
// contains; pass "" for a module with no meaningful qualified path (e.g.
// a standalone script).
func (t *Translator) LowerModule(mod pyast.Module, currentQual string) (ir.ThStmt, error) {
	t.currentQual = currentQual
	ref := srcRef(mod)
	exportPass := t.buildExportPass(mod.Body, ref)
	rest, err := t.visitBlock(mod.Body, exportPass)
	if err != nil {
		return nil, err
	}
	body := t.buildModulePrologue(currentQual, ref, rest)
	return ir.NewLet("$module", body, ir.NewObject(ref), ref), nil
}

// buildModulePrologue binds __name__ and __file__ on $module before any user
// statement runs, the way the original PyTea frontend's module prologue
// does, so bundled stub scripts can use `if __name__ == "__main__":` guards.
func (t *Translator) buildModulePrologue(currentQual string, ref ir.SourceRef, continuation ir.ThStmt) ir.ThStmt {
	dunderName := ir.NewExprStmt(ir.NewLibCall(ir.LCExportGlobal, []ir.KV{
		{Key: "$module", Expr: ir.NewName("$module", ref)},
		{Key: "__name__", Expr: ir.NewConst(ir.String, currentQual, ref)},
	}, ref), ref)
	dunderFile := ir.NewExprStmt(ir.NewLibCall(ir.LCExportGlobal, []ir.KV{
		{Key: "$module", Expr: ir.NewName("$module", ref)},
		{Key: "__file__", Expr: ir.NewConst(ir.String, currentQual, ref)},
	}, ref), ref)
	return ir.NewSeq(dunderName, ir.NewSeq(dunderFile, continuation, ref), ref)
}

// buildExportPass emits, for each name the module body defines that is not
// an import, a dunder, or the LibCall pseudo-module itself, a
// LibCall(exportGlobal, ...) call (spec §4.C.1). Names are sorted
// (nameutil.SortedKeys) so the pass is deterministic (P1) despite
// originating from Go map iteration.
func (t *Translator) buildExportPass(stmts []pyast.Node, ref ir.SourceRef) ir.ThStmt {
	locals := nameutil.ExtractLocalDef(stmts, nil)
	imported := nameutil.ExtractSingleImport(stmts)

	exported := map[string]bool{}
	for name := range locals {
		if imported[name] {
			continue
		}
		if strings.HasPrefix(name, "__") {
			continue
		}
		if name == "LibCall" {
			continue
		}
		exported[name] = true
	}

	names := nameutil.SortedKeys(exported)
	stmtsOut := make([]ir.ThStmt, 0, len(names))
	for _, name := range names {
		kvs := []ir.KV{
			{Key: "$module", Expr: ir.NewName("$module", ref)},
			{Key: name, Expr: ir.NewName(name, ref)},
		}
		stmtsOut = append(stmtsOut, ir.NewExprStmt(ir.NewLibCall(ir.LCExportGlobal, kvs, ref), ref))
	}
	return seqAll(stmtsOut)
}
