// Package codegen lays out TinyBF variables on a Brainfuck tape and
// lowers a parsed statement list to a raw Brainfuck instruction stream.
// It owns three responsibilities that the spec keeps tightly coupled:
// tape layout & scratch allocation, the macro library (copy, transfer,
// multiply, divide, conditionals, decimal print), and statement lowering.
package codegen

import (
	"bytes"

	"github.com/rs/zerolog"
)

// Emitter holds all code-generation state threaded through every macro:
// the variable/scratch layout, the generator-time pointer position (not a
// runtime concept — purely bookkeeping for emitting minimal </> runs),
// and the append-only output buffer.
type Emitter struct {
	layout  *layout
	pointer int
	output  bytes.Buffer
	log     zerolog.Logger
}

// Option configures an Emitter. Every option that is not passed keeps its
// library default, so callers only set what they need to change.
type Option func(*Emitter)

// WithLogger attaches a structured logger for scratch-allocation
// diagnostics. The default is zerolog.Nop() — this package never writes
// to stdout/stderr unasked.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Emitter) { e.log = logger }
}

func newEmitter(opts ...Option) *Emitter {
	e := &Emitter{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.layout = newLayout(e.log)
	return e
}

// moveTo emits the minimal run of '<'/'>' to shift the logical pointer
// from its current position to c. All pointer arithmetic here is
// generator-time bookkeeping; no runtime work beyond the emitted bytes.
func (e *Emitter) moveTo(c int) {
	delta := c - e.pointer
	switch {
	case delta > 0:
		e.output.Write(bytes.Repeat([]byte{'>'}, delta))
	case delta < 0:
		e.output.Write(bytes.Repeat([]byte{'<'}, -delta))
	}
	e.pointer = c
}

// write appends one raw Brainfuck instruction byte at the current
// pointer position.
func (e *Emitter) write(b byte) {
	e.output.WriteByte(b)
}

// zeroCell moves to c and emits the `[-]` clear idiom.
func (e *Emitter) zeroCell(c int) {
	e.moveTo(c)
	e.write('[')
	e.write('-')
	e.write(']')
}

// runOnceIfNonZero consumes cell as a disposable flag: if its value is
// nonzero, then runs exactly once, for any starting value, and cell ends
// at zero; otherwise then never runs and cell (already zero) is
// untouched. This is the two-cell conditional idiom spec.md describes for
// `if`, generalized for reuse by the divide/multiply macros below.
// Callers that need to preserve the tested cell must pass a disposable
// copy. The cell is forced to zero at the end of the single pass through
// the loop body (rather than merely decremented), so then runs once no
// matter how large cell's value is on entry.
func (e *Emitter) runOnceIfNonZero(cell int, then func()) {
	e.moveTo(cell)
	e.write('[')
	then()
	e.zeroCell(cell)
	e.write(']')
}

// String returns the raw, unoptimized Brainfuck stream emitted so far.
func (e *Emitter) String() string {
	return e.output.String()
}
