package lower

import (
	"strings"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/nameutil"
	"github.com/thir-lang/thir/pyast"
)

func lastSegment(qualPath string) string {
	if i := strings.LastIndexByte(qualPath, '.'); i >= 0 {
		return qualPath[i+1:]
	}
	return qualPath
}

// resolveQual turns a (possibly relative) module reference into its
// absolute qualified path, resolving leading dots against the module
// currently being lowered (nameutil.ScanQualPath, spec §4.B/P6).
func (t *Translator) resolveQual(dotsAndModule string) string {
	chain := nameutil.ScanQualPath(dotsAndModule, t.currentQual)
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1]
}

// lowerImport lowers a bare `import a.b.c` (spec §4.C.7).
func (t *Translator) lowerImport(imp pyast.Import) (ir.ThStmt, error) {
	ref := srcRef(imp)
	if lastSegment(imp.QualPath) == "LibCall" {
		return ir.NewPass(ref), nil
	}
	kvs := []ir.KV{{Key: "qualPath", Expr: ir.NewConst(ir.String, imp.QualPath, ref)}}
	return ir.NewExprStmt(ir.NewLibCall(ir.LCImportQualified, kvs, ref), ref), nil
}

// lowerImportAs lowers `import a.b.c as x` (spec §4.C.7).
func (t *Translator) lowerImportAs(imp pyast.ImportAs) (ir.ThStmt, error) {
	ref := srcRef(imp)
	if lastSegment(imp.QualPath) == "LibCall" {
		return ir.NewPass(ref), nil
	}
	kvs := []ir.KV{
		{Key: "qualPath", Expr: ir.NewConst(ir.String, imp.QualPath, ref)},
		{Key: "assignTo", Expr: ir.NewConst(ir.String, imp.AsName, ref)},
	}
	return ir.NewExprStmt(ir.NewLibCall(ir.LCImport, kvs, ref), ref), nil
}

// lowerImportFrom lowers `from m import x [as y], ...` and `from m import
// *`, one LibCall(import, ...) per imported name, resolving relative
// module references against the current module's qualified path (spec
// §4.C.7, scenario 4).
func (t *Translator) lowerImportFrom(imp pyast.ImportFrom) (ir.ThStmt, error) {
	ref := srcRef(imp)
	dotsAndModule := strings.Repeat(".", imp.Dots) + imp.Module
	modQual := t.resolveQual(dotsAndModule)

	if len(imp.Names) == 1 && imp.Names[0].Name == "*" {
		full := modQual + ".*"
		kvs := []ir.KV{{Key: "qualPath", Expr: ir.NewConst(ir.String, full, ref)}}
		return ir.NewExprStmt(ir.NewLibCall(ir.LCImport, kvs, ref), ref), nil
	}

	stmts := make([]ir.ThStmt, 0, len(imp.Names))
	for _, n := range imp.Names {
		full := modQual + "." + n.Name
		if lastSegment(full) == "LibCall" {
			stmts = append(stmts, ir.NewPass(ref))
			continue
		}
		assignTo := n.Name
		if n.AsName != "" {
			assignTo = n.AsName
		}
		kvs := []ir.KV{
			{Key: "qualPath", Expr: ir.NewConst(ir.String, full, ref)},
			{Key: "assignTo", Expr: ir.NewConst(ir.String, assignTo, ref)},
		}
		stmts = append(stmts, ir.NewExprStmt(ir.NewLibCall(ir.LCImport, kvs, ref), ref))
	}
	return seqAll(stmts), nil
}
