// Package diagnostics serializes the lowering engine's findings and fatal
// errors to SARIF, the format the backend's operators consume in CI.
// Grounded on sast-engine/output/sarif_formatter.go (a sibling package of
// the teacher's, in the same repository): one sarif.Run, one rule per
// distinct diagnostic kind, one result per occurrence with a physical
// location built from the lowering engine's SourceRef.
package diagnostics

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/thir-lang/thir/ir"
	"github.com/thir-lang/thir/lower"
)

const toolName = "thir"
const toolURI = "https://github.com/thir-lang/thir"

const (
	ruleUnsupportedConstruct = "unsupported-construct"
	ruleMalformedAST         = "malformed-ast"
	ruleCollectorIOError     = "collector-io-error"
)

// IOFailure records a file the collector skipped because it could not be
// read or parsed, per spec.md §7 ("Collector IO error: logged and skipped
// per file").
type IOFailure struct {
	File string
	Err  error
}

// Report accumulates findings across every file the collector processed,
// for a single end-of-run SARIF emission.
type Report struct {
	Findings   []lower.Finding
	Fatal      []FatalEntry
	IOFailures []IOFailure
}

// FatalEntry pairs a MalformedASTError with the file it aborted.
type FatalEntry struct {
	File string
	Err  *lower.MalformedASTError
}

// WriteSARIF serializes r as a SARIF 2.1.0 log to w.
func (r *Report) WriteSARIF(w io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI(toolName, toolURI)

	run.AddRule(ruleUnsupportedConstruct).
		WithDescription("A construct the lowering engine recognizes but cannot represent in ThIR was lowered to Pass/Const(None) or dropped.").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("note"))
	run.AddRule(ruleMalformedAST).
		WithDescription("A node appeared in a position the frontend cannot lower; the owning file was skipped.").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("error"))
	run.AddRule(ruleCollectorIOError).
		WithDescription("A file could not be read from disk or parsed and was skipped.").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("warning"))

	for _, f := range r.Findings {
		addResult(run, ruleUnsupportedConstruct, f.Message, f.Ref)
	}
	for _, e := range r.Fatal {
		addResult(run, ruleMalformedAST, e.Err.Msg, e.Err.Ref)
	}
	for _, io := range r.IOFailures {
		addResult(run, ruleCollectorIOError, io.Err.Error(), ir.SourceRef{File: io.File})
	}

	report.AddRun(run)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func addResult(run *sarif.Run, ruleID, message string, ref ir.SourceRef) {
	region := sarif.NewRegion().WithCharOffset(ref.Start).WithCharLength(ref.Length)
	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(ref.File)).
			WithRegion(region),
	)
	run.CreateResultForRule(ruleID).
		WithMessage(sarif.NewTextMessage(message)).
		WithLocations([]*sarif.Location{location})
}
