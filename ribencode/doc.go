// Package ribencode serializes the request-dispatch interface to
// encoded-binary RIB. Request names are interned into the encoded-request
// table on first use (a define record followed by the one-byte reference),
// numbers use the fixed-point and IEEE opcodes, and strings use the inline
// or length-prefixed forms. Decoding the output with riblex yields a token
// stream equivalent to the ASCII rendition of the same requests.
package ribencode
