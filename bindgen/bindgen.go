// Package bindgen generates foreign-language headers from the exported
// declarations of a library.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic dispatch (generate.go) walks a syntax.Stream and hands
//     each item to a backend through a single exhaustive switch
//  2. Language-specific backends (c/) translate items and own all output state
//
// A backend is created once per run, receives every item in module order and
// is consumed exactly once by Finalise, which returns the complete set of
// files. Nothing is written to disk by a backend; WriteOutputs and
// CompareOutputs operate on the returned Outputs.
//
// # Design Decisions
//
//   - Items that are not exported (no linkage or layout marker) are an
//     Outcome, never an error
//   - Every failure is a Diagnostic and aborts the run; there is no partial output
//   - Output is deterministic (sorted maps) so CI can check headers with
//     `bindgen check`
//
// # Implementing a New Backend
//
//  1. Create package: bindgen/<lang>/
//  2. Implement the Lang interface (see below)
//  3. Add the backend to newBackend() in cmd/bindgen/cmd/generate.go
//  4. Add golden tests under bindgen/<lang>/testdata
package bindgen

import (
	"github.com/teranos/bindgen/syntax"
)

// Outcome is the non-failing result of translating one item.
type Outcome int

const (
	// Skipped means the item is not part of the exported surface.
	Skipped Outcome = iota
	// Emitted means the item was rendered into a header.
	Emitted
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Emitted:
		return "emitted"
	default:
		return "unknown"
	}
}

// Outputs maps a relative file path to its complete contents.
type Outputs map[string]string

// Lang is a target language backend. Each Parse method is only valid for
// its own item kind; calling it with another kind is a bug.
type Lang interface {
	// Language returns the backend name (e.g., "c")
	Language() string

	// ParseTy translates a type alias
	ParseTy(item *syntax.Item, module []string) (Outcome, error)

	// ParseEnum translates an enumeration
	ParseEnum(item *syntax.Item, module []string) (Outcome, error)

	// ParseStruct translates a record
	ParseStruct(item *syntax.Item, module []string) (Outcome, error)

	// ParseFn translates a function
	ParseFn(item *syntax.Item, module []string) (Outcome, error)

	// Finalise assembles and returns every output file. It may be called once.
	Finalise() (Outputs, error)
}
