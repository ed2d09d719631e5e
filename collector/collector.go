// Package collector walks a project directory and a PyTea library
// directory, lowers every discovered Python module, and returns the two
// qualified-path-to-ThStmt maps spec.md §6.3 names as output. Grounded on
// the teacher's graph.Initialize directory walk (tree-sitter-driven project
// scanning) and its collector-level IO error handling ("logged and skipped
// per file", spec.md §7).
package collector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thir-lang/thir/internal/pyparse"
	"github.com/thir-lang/thir/internal/thlog"
	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/lower"
)

// skippedDirs are never descended into: virtualenvs and VCS metadata never
// contain project or library source the frontend should lower.
var skippedDirs = map[string]bool{
	".git": true, "venv": true, ".venv": true, "__pycache__": true,
	"node_modules": true, "site-packages": true,
}

// Result is the collector's output: spec.md §6.3's two qualified-path maps
// plus the entry module's qualified name and every diagnostic recorded
// along the way.
type Result struct {
	ProjectMap map[string]ir.ThStmt
	LibMap     map[string]ir.ThStmt
	EntryQual  string
	Findings   []lower.Finding
	Fatal      []FatalFile
	IOErrors   []IOError
}

// FatalFile records a file a MalformedASTError knocked out of the run.
type FatalFile struct {
	File string
	Err  *lower.MalformedASTError
}

// IOError records a directory or file the collector could not read or
// parse, or whose lowering failed with an error other than a
// MalformedASTError.
type IOError struct {
	File string
	Err  error
}

// Collect walks entryRoot (the project) and libRoot (PyteaLibPath),
// lowering every ".py" file found under each into the matching output map.
// entryPath names the file (absolute, or relative to the working
// directory, as filepath.Abs resolves it) whose
// qualified path becomes Result.EntryQual — the module the backend runs
// with __name__ == "__main__" (GLOSSARY, "Entry module"). ignoreAssert is
// threaded into every file's Translator per spec.md's Design Notes
// ("pass a configuration record into the translator's constructor").
func Collect(entryRoot, libRoot, entryPath string, ignoreAssert bool, log *thlog.Logger) (Result, error) {
	res := Result{ProjectMap: map[string]ir.ThStmt{}, LibMap: map[string]ir.ThStmt{}}

	absEntryRoot, err := filepath.Abs(entryRoot)
	if err != nil {
		return Result{}, err
	}
	absEntryPath, err := filepath.Abs(entryPath)
	if err != nil {
		return Result{}, err
	}
	res.EntryQual = qualPathFor(absEntryRoot, absEntryPath)

	stopWalk := log.StartTiming("walk+lower project")
	walkAndLower(absEntryRoot, absEntryRoot, ignoreAssert, res.ProjectMap, &res, log)
	stopWalk()

	if libRoot != "" {
		absLibRoot, err := filepath.Abs(libRoot)
		if err != nil {
			return Result{}, err
		}
		stopLib := log.StartTiming("walk+lower library")
		walkAndLower(absLibRoot, absLibRoot, ignoreAssert, res.LibMap, &res, log)
		stopLib()
	}

	log.Result("collected %d project module(s), %d library module(s); entry %s",
		len(res.ProjectMap), len(res.LibMap), res.EntryQual)
	return res, nil
}

func walkAndLower(root, dir string, ignoreAssert bool, out map[string]ir.ThStmt, res *Result, log *thlog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		res.IOErrors = append(res.IOErrors, IOError{File: dir, Err: err})
		log.Warning("skipping directory %s: %v", dir, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			if skippedDirs[name] {
				continue
			}
			walkAndLower(root, full, ignoreAssert, out, res, log)
			continue
		}
		if !strings.HasSuffix(name, ".py") || name == "LibCall.py" {
			continue
		}
		lowerFile(root, full, ignoreAssert, out, res, log)
	}
}

func lowerFile(root, file string, ignoreAssert bool, out map[string]ir.ThStmt, res *Result, log *thlog.Logger) {
	src, err := os.ReadFile(file)
	if err != nil {
		res.IOErrors = append(res.IOErrors, IOError{File: file, Err: err})
		log.Warning("could not read %s: %v", file, err)
		return
	}

	qual := qualPathFor(root, file)
	log.Progress("collecting %s", qual)

	mod, err := pyparse.Parse(file, src)
	if err != nil {
		res.IOErrors = append(res.IOErrors, IOError{File: file, Err: err})
		log.Warning("could not parse %s: %v", file, err)
		return
	}

	tr := lower.New(lower.Config{IgnoreAssert: ignoreAssert})
	stmt, err := tr.LowerModule(mod, qual)
	if err != nil {
		if malformed, ok := err.(*lower.MalformedASTError); ok {
			res.Fatal = append(res.Fatal, FatalFile{File: file, Err: malformed})
			log.Warning("malformed AST in %s: %s", file, malformed.Msg)
			return
		}
		res.IOErrors = append(res.IOErrors, IOError{File: file, Err: err})
		return
	}
	res.Findings = append(res.Findings, tr.Findings()...)
	out[qual] = stmt
}

// qualPathFor derives a dotted qualified path from a file's location
// relative to root. A package's "__init__.py" keeps the literal
// ".__init__" suffix in the map key (e.g. "pkg.__init__"); resolver.Resolve
// is what collapses it to the directory's own qualified name on lookup
// (spec.md §4.E, GLOSSARY "Qualified path ... __init__ files collapse to
// their directory name" describes that collapsing from the caller's side).
func qualPathFor(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	rel = strings.TrimSuffix(rel, ".py")
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return strings.Join(parts, ".")
}
