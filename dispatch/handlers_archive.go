package dispatch

import (
	"fmt"

	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/riblex"
	"github.com/rmanicore/ri/ribparse"
)

func registerArchiveHandlers(t *Table) {
	t.register("ReadArchive", readArchiveHandler(t))
}

// readArchiveHandler closes over the owning Table so a file-backed archive
// (one never captured in-process via ArchiveBegin) can be lexed, parsed and
// dispatched inline without threading the table through Context.
func readArchiveHandler(t *Table) Handler {
	return func(c *Context, req dispReq, args argSlice, pending paramList) error {
		name, err := argString(args, 0)
		if err != nil {
			return c.errorf(req.Line, 0, "ReadArchive: %v", err)
		}
		if c.recording != nil {
			c.recording.Append(req.Line, macro.ReadArchivePayload{Name: name})
			return nil
		}
		if m, ok := c.Store.Get(name); ok {
			if err := c.Store.ReplayArchive(m, c.Backend, c.Bindings, name, nil); err != nil {
				return c.errorf(req.Line, 0, "%v", err)
			}
			return nil
		}
		return readArchiveFile(t, c, req, name)
	}
}

func readArchiveFile(t *Table, c *Context, req dispReq, name string) error {
	if c.FileReader == nil {
		return c.errorf(req.Line, 0, "ReadArchive: %q is not a captured archive and no file reader is configured", name)
	}
	src, err := c.FileReader(name)
	if err != nil {
		return c.errorf(req.Line, 0, "ReadArchive: %v", err)
	}
	lexer := riblex.NewLexer(src)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return c.errorf(req.Line, 0, "ReadArchive: %q: %v", name, err)
	}
	parser := ribparse.New(tokens)
	parser.SubstituteVars = true
	requests, err := parser.Parse()
	if err != nil {
		return c.errorf(req.Line, 0, "ReadArchive: %q: %v", name, err)
	}
	prevArchive := c.archiveName
	c.archiveName = name
	c.Backend.SetCurrentArchiveName(name)
	defer func() {
		c.archiveName = prevArchive
		c.Backend.SetCurrentArchiveName(prevArchive)
	}()
	for _, r := range requests {
		if err := t.Dispatch(c, r); err != nil {
			return fmt.Errorf("ReadArchive: %q: %w", name, err)
		}
		for _, cm := range r.Comments {
			kind := "comment"
			if cm.Structured {
				kind = "structure"
			}
			if err := EmitComment(c, cm.Line, kind, cm.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// EmitComment records or forwards a deferred-comment record: the
// orchestrating layer calls this once per Comment attached to a
// parsed Request, outside the name-keyed dispatch table since comments
// never arrive as their own request token.
func EmitComment(c *Context, line int, kind, text string) error {
	p := macro.ArchiveRecordPayload{Kind: kind, Text: text}
	return c.emit(line, p, func() error { return c.Backend.ArchiveRecord(kind, text) })
}

func registerConditionalHandlers(t *Table) {
	t.register("IfBegin", handleIfBegin)
	t.register("ElseIf", handleElseIf)
	t.register("Else", handleElse)
	t.register("IfEnd", handleIfEnd)
}
