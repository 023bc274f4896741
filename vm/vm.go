// Package vm is a Brainfuck interpreter: a bracket-matched tape machine
// with a streaming-run entry point (Run) and a pull-based step-at-a-time
// entry point (NewStepper/Stepper.Next) for debugger consumers.
package vm

import (
	"github.com/rs/zerolog"

	"github.com/tinybflang/tinybf/tinybferr"
)

const tapeSize = 30000

// Option configures a VM entry point (Run or NewStepper). Every option
// that is not passed keeps its library default.
type Option func(*config)

type config struct {
	memSize int
	log     zerolog.Logger
}

func newConfig(opts ...Option) config {
	c := config{memSize: tapeSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMemorySize overrides the tape length (default 30000).
func WithMemorySize(size int) Option {
	return func(c *config) { c.memSize = size }
}

// WithLogger attaches a structured logger. The default is zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.log = logger }
}

// buildJumpTable preflights code: a single left-to-right scan pushing '['
// indices and popping at ']', recording both directions. An unmatched
// bracket in either direction fails closed.
func buildJumpTable(code string) (map[int]int, error) {
	table := make(map[int]int, len(code)/2)
	var stack []int
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				return nil, &tinybferr.UnbalancedBrackets{Msg: "unmatched ']'", Offset: i}
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			table[start] = i
			table[i] = start
		}
	}
	if len(stack) > 0 {
		return nil, &tinybferr.UnbalancedBrackets{Msg: "unmatched '['", Offset: stack[len(stack)-1]}
	}
	return table, nil
}

// machine holds the tape/pointer/output/step-count state shared by Run
// and Stepper. Each call/value gets a fresh machine; there is no
// package-level mutable state.
type machine struct {
	code      string
	jumpTable map[int]int
	tape      []byte
	pointer   int
	pc        int
	step      uint64
	output    []byte
	input     []byte
	inputPos  int
	maxSteps  uint64
	log       zerolog.Logger
}

func newMachine(code string, input []byte, maxSteps uint64, c config) (*machine, error) {
	jumpTable, err := buildJumpTable(code)
	if err != nil {
		return nil, err
	}
	return &machine{
		code:      code,
		jumpTable: jumpTable,
		tape:      make([]byte, c.memSize),
		input:     input,
		maxSteps:  maxSteps,
		log:       c.log,
	}, nil
}

// execOne executes the instruction at m.pc, advances m.pc and the step
// counter, and returns an error for a pointer escape or an exhausted step
// budget. It is the single step primitive shared by Run's tight loop and
// Stepper.Next.
func (m *machine) execOne() error {
	switch m.code[m.pc] {
	case '>':
		m.pointer++
		if m.pointer >= len(m.tape) {
			m.log.Warn().Int("pointer", m.pointer).Msg("pointer out of range")
			return &tinybferr.PointerOutOfRange{Pointer: m.pointer, Direction: '>'}
		}
	case '<':
		m.pointer--
		if m.pointer < 0 {
			m.log.Warn().Int("pointer", m.pointer).Msg("pointer out of range")
			return &tinybferr.PointerOutOfRange{Pointer: m.pointer, Direction: '<'}
		}
	case '+':
		m.tape[m.pointer]++
	case '-':
		m.tape[m.pointer]--
	case '.':
		m.output = append(m.output, m.tape[m.pointer])
	case ',':
		if m.inputPos < len(m.input) {
			m.tape[m.pointer] = m.input[m.inputPos]
			m.inputPos++
		} else {
			m.tape[m.pointer] = 0
		}
	case '[':
		if m.tape[m.pointer] == 0 {
			m.pc = m.jumpTable[m.pc]
		}
	case ']':
		if m.tape[m.pointer] != 0 {
			m.pc = m.jumpTable[m.pc]
		}
	default:
		// non-command bytes are comments; ignored.
	}
	m.pc++
	m.step++
	if m.maxSteps != 0 && m.step > m.maxSteps {
		m.log.Warn().Uint64("limit", m.maxSteps).Msg("step limit exceeded")
		return &tinybferr.StepLimitExceeded{Limit: m.maxSteps}
	}
	return nil
}

// Run executes code to completion against input and returns everything
// written to stdout. maxSteps == 0 means unbounded; otherwise Run fails
// with tinybferr.StepLimitExceeded once the step counter would exceed
// it.
func Run(code string, input []byte, maxSteps uint64, opts ...Option) (string, error) {
	c := newConfig(opts...)
	m, err := newMachine(code, input, maxSteps, c)
	if err != nil {
		return "", err
	}
	for m.pc < len(m.code) {
		if err := m.execOne(); err != nil {
			return "", err
		}
	}
	m.log.Debug().Uint64("steps", m.step).Msg("run complete")
	return string(m.output), nil
}
