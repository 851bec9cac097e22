// Package ri processes the RenderMan Interface Bytestream (RIB).
//
// ri ingests RIB in both its ASCII and encoded-binary forms and drives a
// backend — anything implementing the one-method-per-request interface in
// the backend package — through a strictly ordered, state-validated
// sequence of graphics requests.
//
// The processing pipeline is:
//  1. Lex the octet stream to tokens (riblex)
//  2. Frame tokens into (request, arguments) pairs (ribparse)
//  3. Validate and dispatch each request (dispatch, guarded by state)
//
// Object and archive definitions are captured as replayable macros
// (macro) instead of being dispatched; ObjectInstance and ReadArchive
// replay them against the live backend with handles rebound (handle).
//
// Example usage:
//
//	ctx := ri.NewContext(myBackend, ri.DefaultOptions())
//	if err := ctx.Process("scene.rib", ribBytes); err != nil {
//	    log.Fatal(err)
//	}
//
// For lower-level access, Parse exposes the framed request stream without
// dispatching it.
package ri

import (
	"fmt"
	"os"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/dispatch"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/riblex"
	"github.com/rmanicore/ri/ribparse"
)

// Options configures a render context.
type Options struct {
	// Reporter receives every diagnostic (default: console output). Wrap
	// it in diag.NewAbortReporter to abort processing on any severe
	// diagnostic.
	Reporter diag.Reporter

	// SubstituteVars enables "$name" substitution inside strings.
	SubstituteVars bool

	// Vars is the variable table consulted by string substitution.
	Vars map[string]string

	// FileReader resolves a ReadArchive file reference to its contents
	// (default: os.ReadFile).
	FileReader func(path string) ([]byte, error)
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Reporter:   diag.NewConsoleReporter(),
		FileReader: os.ReadFile,
	}
}

// requestTable is the process-wide request-dispatch table: immutable after
// initialization and shared read-only across contexts.
var requestTable = dispatch.NewTable()

// Context is one render context: its own parser state, mode stack, macro
// store and handle maps. Two contexts may run in parallel threads; they
// share only the immutable request table and standard declarations.
type Context struct {
	opts Options
	dctx *dispatch.Context
}

// NewContext wires a render context around the given backend.
func NewContext(b backend.Backend, opts Options) *Context {
	if opts.Reporter == nil {
		opts.Reporter = diag.NewConsoleReporter()
	}
	dctx := dispatch.NewContext(b, opts.Reporter)
	if opts.FileReader != nil {
		dctx.FileReader = opts.FileReader
	}
	return &Context{opts: opts, dctx: dctx}
}

// Dictionary exposes the context's parameter-declaration dictionary so
// hosts can predeclare names before processing.
func (c *Context) Dictionary() *param.Dictionary { return c.dctx.Dict }

// Process lexes, parses and dispatches one RIB document (ASCII or
// encoded-binary octets). sourceName labels diagnostics. A severe
// diagnostic raised through an abort reporter unwinds to this boundary
// and is returned as the error; ordinary errors are reported per request
// and processing continues.
func (c *Context) Process(sourceName string, src []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d, ok := diag.AbortDiagnostic(r)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("ri: %s: aborted: %s", sourceName, d.Message)
		}
	}()

	requests, err := c.parse(sourceName, src)
	if err != nil {
		return err
	}
	for _, req := range requests {
		// Handlers report and degrade; a returned error has already
		// reached the reporter, so the stream continues.
		_ = requestTable.Dispatch(c.dctx, req)
		for _, cm := range req.Comments {
			kind := "comment"
			if cm.Structured {
				kind = "structure"
			}
			_ = dispatch.EmitComment(c.dctx, cm.Line, kind, cm.Text)
		}
	}
	return nil
}

// ProcessFile reads path through the context's file reader and processes
// it, labelling diagnostics with the path.
func (c *Context) ProcessFile(path string) error {
	read := c.opts.FileReader
	if read == nil {
		read = os.ReadFile
	}
	src, err := read(path)
	if err != nil {
		c.opts.Reporter.HandleError(diag.Diagnostic{
			Code: diag.CodeNoFile, Severity: diag.SeverityError,
			Source: path, Message: err.Error(),
		})
		return fmt.Errorf("ri: %w", err)
	}
	return c.Process(path, src)
}

func (c *Context) parse(sourceName string, src []byte) ([]ribparse.Request, error) {
	report := func(line int, msg string) {
		c.opts.Reporter.HandleError(diag.Diagnostic{
			Code: diag.CodeSyntax, Severity: diag.SeverityError,
			Line: line, Source: sourceName, Message: msg,
		})
	}

	lexer := riblex.NewLexer(src)
	lexer.OnDiagnostic(report)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("ri: %s: %w", sourceName, err)
	}

	parser := ribparse.New(tokens)
	parser.OnDiagnostic(report)
	parser.SubstituteVars = c.opts.SubstituteVars
	for k, v := range c.opts.Vars {
		parser.Vars[k] = v
	}
	requests, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("ri: %s: %w", sourceName, err)
	}
	return requests, nil
}

// Parse lexes and frames a RIB document without dispatching it, returning
// the request stream in source order.
func Parse(src []byte) ([]ribparse.Request, error) {
	tokens, err := riblex.NewLexer(src).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("ri: %w", err)
	}
	requests, err := ribparse.New(tokens).Parse()
	if err != nil {
		return nil, fmt.Errorf("ri: %w", err)
	}
	return requests, nil
}
