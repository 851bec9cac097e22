package ribencode

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
)

// Binary opcodes from the RIB encoding convention, mirroring the decoder's
// table in riblex.
const (
	opFixedPointBase = 0200
	opInlineStrBase  = 0220
	opLongStrBase    = 0240
	opFloat64        = 0245
	opEncodedReq     = 0246
	opDefineReq      = 0314
)

// coder owns the low-level token emission and the encoded-request intern
// table shared by every Encoder method.
type coder struct {
	out io.Writer
	err error

	requests map[string]byte
	nextReq  int
}

func newCoder(out io.Writer) *coder {
	return &coder{out: out, requests: make(map[string]byte)}
}

func (c *coder) write(b []byte) {
	if c.err != nil {
		return
	}
	_, c.err = c.out.Write(b)
}

func (c *coder) writeByte(b byte) { c.write([]byte{b}) }

// request emits the encoded reference for name, interning it into the
// request table first if this is its first use. A full table falls back to
// the ASCII spelling, which remains valid in an encoded stream.
func (c *coder) request(name string) {
	idx, ok := c.requests[name]
	if !ok {
		if c.nextReq > 0xFF {
			c.write([]byte("\n" + name + " "))
			return
		}
		idx = byte(c.nextReq)
		c.nextReq++
		c.requests[name] = idx
		c.writeByte(opDefineReq)
		c.writeByte(idx)
		c.str(name)
	}
	c.writeByte(opEncodedReq)
	c.writeByte(idx)
}

// str emits a string token: the inline form for short strings, the
// length-prefixed form otherwise.
func (c *coder) str(s string) {
	n := len(s)
	switch {
	case n < 16:
		c.writeByte(opInlineStrBase | byte(n))
	case n <= 0xFF:
		c.writeByte(opLongStrBase)
		c.writeByte(byte(n))
	case n <= 0xFFFF:
		c.writeByte(opLongStrBase + 1)
		var lb [2]byte
		binary.BigEndian.PutUint16(lb[:], uint16(n))
		c.write(lb[:])
	default:
		c.writeByte(opLongStrBase + 3)
		var lb [4]byte
		binary.BigEndian.PutUint32(lb[:], uint32(n))
		c.write(lb[:])
	}
	c.write([]byte(s))
}

// integer emits n as a fixed-point number with no fractional bytes, in the
// fewest bytes that hold its signed value. Values outside 32 bits fall
// back to ASCII decimal, which remains valid in an encoded stream.
func (c *coder) integer(n int64) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		c.write([]byte(" " + strconv.FormatInt(n, 10) + " "))
		return
	}
	w := 0
	switch {
	case n >= -(1<<7) && n < 1<<7:
		w = 0
	case n >= -(1<<15) && n < 1<<15:
		w = 1
	case n >= -(1<<23) && n < 1<<23:
		w = 2
	default:
		w = 3
	}
	c.writeByte(opFixedPointBase + byte(w))
	for i := w; i >= 0; i-- {
		c.writeByte(byte(n >> (8 * i)))
	}
}

// float emits f, preferring the compact fixed-point form when f is an
// exact small integer and the IEEE double form otherwise.
func (c *coder) float(f float64) {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		c.integer(int64(f))
		return
	}
	c.writeByte(opFloat64)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	c.write(b[:])
}

// Arrays keep the ASCII bracket delimiters; the elements between them are
// encoded tokens.
func (c *coder) openArray()  { c.writeByte('[') }
func (c *coder) closeArray() { c.writeByte(']') }

func (c *coder) floatArray(vals []float64) {
	c.openArray()
	for _, f := range vals {
		c.float(f)
	}
	c.closeArray()
}

func (c *coder) intArray(vals []int) {
	c.openArray()
	for _, n := range vals {
		c.integer(int64(n))
	}
	c.closeArray()
}

func (c *coder) strArray(vals []string) {
	c.openArray()
	for _, s := range vals {
		c.str(s)
	}
	c.closeArray()
}
