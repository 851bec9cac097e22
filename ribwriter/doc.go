// Package ribwriter serializes the request-dispatch interface back to
// ASCII RIB text. It is the inverse of the lexer/parser front end: driving
// a Writer with the same request sequence that was parsed reproduces an
// equivalent RIB document, which is also how captured macros are persisted
// as archives.
package ribwriter
