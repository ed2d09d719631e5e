// Package resolver implements the fixed-priority module lookup spec.md §4.E
// describes: given a qualified path, search project code before library
// code, and a bare module before its package-__init__ form. Grounded on the
// teacher's ImportMapCache (graph/callgraph/builder.go), which caches
// per-file import-extraction results for the same reason this resolver
// caches resolutions: the same qualified path is looked up repeatedly by
// the downstream backend.
package resolver

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thir-lang/thir/ir"
)

// Form records which of the two candidate shapes satisfied a lookup — the
// backend uses this to attach correct __path__ semantics to package
// __init__ modules (spec.md §4.E).
type Form int

const (
	FormMiss   Form = iota // no candidate matched
	FormPlain              // exact qualified path matched
	FormInit               // qualPath + ".__init__" matched
)

// Result is what Resolve returns: Found is false for a FormMiss, in which
// case Stmt is nil. This makes a miss a distinct, inspectable result rather
// than an error, per spec.md §4.E ("Misses are surfaced as a distinct
// result, not an error").
type Result struct {
	Stmt  ir.ThStmt
	Form  Form
	Found bool
}

// Resolver looks up lowered modules by qualified path across a project map
// and a library map, in the fixed priority order spec.md §4.E names.
type Resolver struct {
	projectMap map[string]ir.ThStmt
	libMap     map[string]ir.ThStmt
	cache      *lru.Cache[string, Result]
}

// New builds a Resolver over the collector's two output maps (spec.md §6.3),
// with an LRU cache of the given capacity bounding repeated-lookup memory.
func New(projectMap, libMap map[string]ir.ThStmt, cacheSize int) (*Resolver, error) {
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{projectMap: projectMap, libMap: libMap, cache: cache}, nil
}

// Resolve looks up qualPath in project q, project q.__init__, library q,
// library q.__init__ order (spec.md §4.E, P7: a project entry always wins
// over a library entry of the same qualified path).
func (r *Resolver) Resolve(qualPath string) Result {
	if cached, ok := r.cache.Get(qualPath); ok {
		return cached
	}

	result := r.lookup(qualPath)
	r.cache.Add(qualPath, result)
	return result
}

func (r *Resolver) lookup(qualPath string) Result {
	if stmt, ok := r.projectMap[qualPath]; ok {
		return Result{Stmt: stmt, Form: FormPlain, Found: true}
	}
	initPath := qualPath + ".__init__"
	if stmt, ok := r.projectMap[initPath]; ok {
		return Result{Stmt: stmt, Form: FormInit, Found: true}
	}
	if stmt, ok := r.libMap[qualPath]; ok {
		return Result{Stmt: stmt, Form: FormPlain, Found: true}
	}
	if stmt, ok := r.libMap[initPath]; ok {
		return Result{Stmt: stmt, Form: FormInit, Found: true}
	}
	return Result{Found: false}
}
