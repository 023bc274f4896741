// Package tinybf is the facade external collaborators import: a
// TinyBF-to-Brainfuck transpiler, a Brainfuck interpreter/stepper, and a
// debug session wrapper, reachable through three operations
// (Transpile, Run, Step) plus session construction.
package tinybf

import (
	"github.com/tinybflang/tinybf/codegen"
	"github.com/tinybflang/tinybf/debug"
	"github.com/tinybflang/tinybf/lexer"
	"github.com/tinybflang/tinybf/optimize"
	"github.com/tinybflang/tinybf/vm"
)

// Transpile lexes, lowers, and peephole-optimizes TinyBF source into a
// Brainfuck program.
func Transpile(source string) (string, error) {
	stmts, err := lexer.Parse(source)
	if err != nil {
		return "", err
	}
	raw, err := codegen.Generate(stmts)
	if err != nil {
		return "", err
	}
	return optimize.Run(raw), nil
}

// Run executes bf against input and returns everything written to
// stdout. maxSteps == 0 means unbounded.
func Run(bf string, input []byte, maxSteps uint64) (string, error) {
	return vm.Run(bf, input, maxSteps)
}

// Step returns a *vm.Stepper that yields one Snapshot per instruction,
// bounded on every side by a tape window of the given radius.
// maxSteps == 0 means unbounded.
func Step(bf string, input []byte, window uint32, maxSteps uint64) (*vm.Stepper, error) {
	return vm.NewStepper(bf, input, window, maxSteps)
}

// SessionConfig bundles everything NewSession needs to build a
// debug.Session: the program, its input, and the session's functional
// options (window, max steps, history limit, logger, ...).
type SessionConfig struct {
	Code    string
	Input   []byte
	Options []debug.Option
}

// NewSession builds a debug.Session from a SessionConfig.
func NewSession(cfg SessionConfig) (*debug.Session, error) {
	return debug.NewSession(cfg.Code, cfg.Input, cfg.Options...)
}
