// Package nameutil implements the name-scanning utilities the lowering
// engine and the module resolver both depend on (spec §4.B): local-definition
// scanning, single-name import scanning, and relative-import path
// resolution. These are kept pure and side-effect free so both the frontend
// and a downstream backend can share them.
package nameutil

import (
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/thir-lang/thir/pyast"
)

// ExtractLocalDef traverses a statement list and returns the set of
// identifiers the block will assign to: targets of plain Assignment,
// AugmentedAssignment, For, and Function/Class declarations, minus excluded
// (typically the function's own parameters). Nonlocal/Global declarations
// remove names from the local set, including ones declared inside a nested
// If/While/With/For block rather than at this statement list's own level.
// Nested function/class bodies are not descended into.
func ExtractLocalDef(stmts []pyast.Node, excluded map[string]bool) map[string]bool {
	locals, removed := scanLocalDef(stmts)
	for n := range excluded {
		delete(locals, n)
	}
	for n := range removed {
		delete(locals, n)
	}
	return locals
}

// scanLocalDef is ExtractLocalDef's recursive core: it returns the locals
// and removed (nonlocal/global) sets separately so a nested block's removed
// names bubble up to the caller instead of only cancelling locals the
// nested block itself collected.
func scanLocalDef(stmts []pyast.Node) (map[string]bool, map[string]bool) {
	locals := map[string]bool{}
	removed := map[string]bool{}

	addTargets := func(target pyast.Node) {
		for _, name := range flattenAssignTargets(target) {
			locals[name] = true
		}
	}
	mergeNested := func(body []pyast.Node) {
		nestedLocals, nestedRemoved := scanLocalDef(body)
		mergeInto(locals, nestedLocals)
		mergeInto(removed, nestedRemoved)
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case pyast.Assignment:
			addTargets(s.Target)
		case pyast.AugmentedAssignment:
			addTargets(s.Target)
		case pyast.For:
			addTargets(s.Target)
			mergeNested(s.Body)
			mergeNested(s.Else)
		case pyast.Function:
			locals[s.Name] = true
		case pyast.Class:
			locals[s.Name] = true
		case pyast.Nonlocal:
			for _, n := range s.Names {
				removed[n] = true
			}
		case pyast.Global:
			for _, n := range s.Names {
				removed[n] = true
			}
		case pyast.If:
			mergeNested(s.Body)
			mergeNested(s.Else)
		case pyast.While:
			mergeNested(s.Body)
			mergeNested(s.Else)
		case pyast.With:
			for _, item := range s.Items {
				if item.OptionalVars != nil {
					addTargets(item.OptionalVars)
				}
			}
			mergeNested(s.Body)
		}
	}

	return locals, removed
}

// flattenAssignTargets returns every Name bound by target, recursing through
// Tuple/List destructuring so `a, (b, c) = ...` yields {a, b, c}.
func flattenAssignTargets(target pyast.Node) []string {
	switch t := target.(type) {
	case pyast.Name:
		return []string{t.Ident}
	case pyast.Tuple:
		var out []string
		for _, e := range t.Elems {
			out = append(out, flattenAssignTargets(e)...)
		}
		return out
	case pyast.List:
		var out []string
		for _, e := range t.Elems {
			out = append(out, flattenAssignTargets(e)...)
		}
		return out
	default:
		// Attr/Subscr targets bind no new local name.
		return nil
	}
}

func mergeInto(dst, src map[string]bool) {
	for k := range src {
		dst[k] = true
	}
}

// ExtractSingleImport returns the set of single-name imports (`import x`,
// `from m import x`) that already bind names in this scope, so the module
// export pass does not re-export them as globals.
func ExtractSingleImport(stmts []pyast.Node) map[string]bool {
	out := map[string]bool{}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case pyast.Import:
			out[topLevelSegment(s.QualPath)] = true
		case pyast.ImportAs:
			out[s.AsName] = true
		case pyast.ImportFrom:
			for _, n := range s.Names {
				if n.Name == "*" {
					continue
				}
				if n.AsName != "" {
					out[n.AsName] = true
				} else {
					out[n.Name] = true
				}
			}
		}
	}
	return out
}

func topLevelSegment(qualPath string) string {
	if i := strings.IndexByte(qualPath, '.'); i >= 0 {
		return qualPath[:i]
	}
	return qualPath
}

// ScanQualPath resolves relative-import syntax into the cumulative prefix
// list the resolver and the importQualified/import LibCall kinds need
// (spec §4.B, P6).
//
// qual may carry leading dots (e.g. "..pkg.mod"); d counts them and the
// remaining text is split on '.'. If d > 0 and currentQual is non-empty, d
// components are stripped from currentQual's own prefix list and the
// result is prepended to qual's tail; if currentQual is empty, the leading
// dots are preserved verbatim as a literal path segment.
func ScanQualPath(qual string, currentQual string) []string {
	d := 0
	for d < len(qual) && qual[d] == '.' {
		d++
	}
	tail := qual[d:]

	var tailParts []string
	if tail != "" {
		tailParts = strings.Split(tail, ".")
	}

	var prefix []string
	if d > 0 {
		if currentQual == "" {
			prefix = []string{strings.Repeat(".", d)}
		} else {
			curParts := strings.Split(currentQual, ".")
			if d <= len(curParts) {
				prefix = append(prefix, curParts[:len(curParts)-d]...)
			}
		}
	}

	all := append(prefix, tailParts...)
	return cumulativePrefixes(all)
}

// cumulativePrefixes turns ["a","b","c"] into ["a","a.b","a.b.c"].
func cumulativePrefixes(parts []string) []string {
	if len(parts) == 0 {
		return nil
	}
	out := make([]string, 0, len(parts))
	cur := parts[0]
	out = append(out, cur)
	for _, p := range parts[1:] {
		cur = cur + "." + p
		out = append(out, cur)
	}
	return out
}

// SortedKeys returns the keys of m in lexical order. Map iteration order is
// randomized by the Go runtime; the export pass (spec §4.C.1) must emit
// LibCall(exportGlobal, ...) statements in a fixed order for translator
// determinism (P1), so every caller that turns a name set built by this
// package into a Seq of statements must go through this function rather
// than ranging over the map directly.
func SortedKeys(m map[string]bool) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
