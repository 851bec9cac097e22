package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIgnoreReporterDiscards(t *testing.T) {
	var r IgnoreReporter
	r.HandleError(Diagnostic{Severity: SeveritySevere, Message: "boom"})
}

func TestAbortReporterPanicsOnSevere(t *testing.T) {
	a := NewAbortReporter(IgnoreReporter{})
	var caught Diagnostic
	func() {
		defer Unwind(&caught)
		a.HandleError(Diagnostic{Severity: SeveritySevere, Message: "fatal", Line: 7})
		t.Fatalf("expected panic to unwind before reaching here")
	}()
	require.Equal(t, "fatal", caught.Message)
	require.Equal(t, 7, caught.Line)
}

func TestAbortReporterDoesNotPanicOnError(t *testing.T) {
	a := NewAbortReporter(IgnoreReporter{})
	require.NotPanics(t, func() {
		a.HandleError(Diagnostic{Severity: SeverityError, Message: "recoverable"})
	})
}
