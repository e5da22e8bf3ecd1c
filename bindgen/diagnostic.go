package bindgen

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/syntax"
)

// Level is the severity of a diagnostic
type Level string

const (
	LevelBug   Level = "bug"   // Internal contract violation, never user-fixable
	LevelError Level = "error" // Unsupported input rejected by a backend
)

// Kind categorizes diagnostics for programmatic handling
type Kind string

const (
	KindWrongItem      Kind = "wrong-item"       // Emitter invoked on another item kind
	KindGeneric        Kind = "generic"          // Parameterized declaration
	KindNonUnitVariant Kind = "non-unit-variant" // Enum variant carrying data
	KindTupleStruct    Kind = "tuple-struct"     // Tuple struct with more than one field
	KindUnsupportedTy  Kind = "unsupported-type" // Type shape with no C equivalent
	KindDiverging      Kind = "diverging"        // Return type `!`
	KindFnPointer      Kind = "fn-pointer"       // Function pointer without a declarator
	KindForeignModule  Kind = "foreign-module"   // Type path into an unrecognised module
	KindLifetime       Kind = "lifetime"         // Lifetime on a function pointer
	KindCycle          Kind = "dependency-cycle" // Headers include each other
	KindInvalidModule  Kind = "invalid-module"   // Module path that cannot name a header
	KindConsumed       Kind = "consumed"         // Backend used after Finalise
)

// Diagnostic is a structured failure raised while translating items.
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Span    syntax.Span
	Message string
	Hint    string
}

// Error implements error
func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s", d.Level, d.Message)
	if !d.Span.IsZero() {
		msg += fmt.Sprintf(" (at %s)", d.Span)
	}
	return msg
}

// FormatTerminal renders the diagnostic with colour for a terminal
func (d *Diagnostic) FormatTerminal() string {
	var head string
	switch d.Level {
	case LevelBug:
		head = pterm.Magenta("bug: ") + pterm.Magenta(d.Message)
	default:
		head = pterm.Red("error: ") + pterm.Red(d.Message)
	}

	if !d.Span.IsZero() {
		head += fmt.Sprintf("\n  %s %s", pterm.LightCyan("-->"), d.Span)
	}
	head += fmt.Sprintf("\n  %s %s", pterm.Yellow("kind:"), d.Kind)
	if d.Hint != "" {
		head += fmt.Sprintf("\n  %s %s", pterm.Green("hint:"), d.Hint)
	}
	return head
}

// IsBug reports whether the diagnostic is an internal contract violation
func (d *Diagnostic) IsBug() bool {
	return d.Level == LevelBug
}

// WithHint attaches a suggested fix
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

// NewError creates a user-facing diagnostic with a stack trace attached.
func NewError(kind Kind, span syntax.Span, format string, args ...interface{}) error {
	return errors.WithStack(&Diagnostic{
		Level:   LevelError,
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	})
}

// NewBug creates an internal diagnostic with a stack trace attached.
func NewBug(kind Kind, span syntax.Span, format string, args ...interface{}) error {
	return errors.WithStack(&Diagnostic{
		Level:   LevelBug,
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	})
}

// AsDiagnostic recovers a Diagnostic from a wrapped error chain.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if err != nil && errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// IsKind reports whether err carries a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	d, ok := AsDiagnostic(err)
	return ok && d.Kind == kind
}
