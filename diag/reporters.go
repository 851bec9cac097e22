package diag

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// severeAbort is the typed panic value used to unwind to the context
// boundary on a severe diagnostic.
type severeAbort struct{ Diagnostic Diagnostic }

// ConsoleReporter formats diagnostics as human-readable text to a writer
// (os.Stderr by default), matching the RI reference "print" handler.
type ConsoleReporter struct {
	Out interface {
		WriteString(string) (int, error)
	}
}

// NewConsoleReporter creates a ConsoleReporter writing to os.Stderr.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{Out: stderrWriter{}}
}

type stderrWriter struct{}

func (stderrWriter) WriteString(s string) (int, error) { return fmt.Fprint(os.Stderr, s) }

func (c *ConsoleReporter) HandleError(d Diagnostic) {
	c.Out.WriteString(d.String() + "\n")
}

// IgnoreReporter discards every diagnostic, matching the RI reference
// "ignore" handler.
type IgnoreReporter struct{}

func (IgnoreReporter) HandleError(Diagnostic) {}

// ZapReporter logs one structured event per diagnostic through a
// *zap.Logger. Severity maps onto zap's level methods.
type ZapReporter struct {
	Log *zap.Logger
}

// NewZapReporter wraps logger as a Reporter.
func NewZapReporter(logger *zap.Logger) *ZapReporter {
	return &ZapReporter{Log: logger}
}

func (z *ZapReporter) HandleError(d Diagnostic) {
	fields := []zap.Field{
		zap.Int("code", int(d.Code)),
		zap.Int("line", d.Line),
		zap.String("source", d.Source),
	}
	switch d.Severity {
	case SeverityInfo:
		z.Log.Info(d.Message, fields...)
	case SeverityWarning:
		z.Log.Warn(d.Message, fields...)
	case SeverityError:
		z.Log.Error(d.Message, fields...)
	case SeveritySevere:
		z.Log.Error(d.Message, fields...)
	}
}

// AbortReporter wraps another Reporter and, on a Severe diagnostic, panics
// with severeAbort after delegating the report -- implementing the
// RI abort-on-error handler. Recover it only at the
// render-context boundary; see Unwind.
type AbortReporter struct {
	Inner Reporter
}

// NewAbortReporter wraps inner with abort-on-severe semantics.
func NewAbortReporter(inner Reporter) *AbortReporter {
	return &AbortReporter{Inner: inner}
}

func (a *AbortReporter) HandleError(d Diagnostic) {
	if a.Inner != nil {
		a.Inner.HandleError(d)
	}
	if d.Severity == SeveritySevere {
		panic(severeAbort{Diagnostic: d})
	}
}

// AbortDiagnostic reports whether a recovered panic value r was raised by
// an AbortReporter, returning the causing diagnostic. Use it inside a
// deferred recover at a context boundary that also handles other cleanup;
// for the plain case, defer Unwind instead.
func AbortDiagnostic(r any) (Diagnostic, bool) {
	sa, ok := r.(severeAbort)
	return sa.Diagnostic, ok
}

// Unwind recovers a severeAbort panic raised by an AbortReporter, storing
// the causing diagnostic into *out and returning true if one was caught.
// Defer it at a render-context boundary (ri.Context.Process recovers
// through AbortDiagnostic instead); any other panic is re-raised.
func Unwind(out *Diagnostic) {
	if r := recover(); r != nil {
		if sa, ok := r.(severeAbort); ok {
			*out = sa.Diagnostic
			return
		}
		panic(r)
	}
}
