// Package debug wraps a *vm.Stepper with breakpoints, bounded history,
// and restart — the state an interactive debugger (out of scope for
// this module) needs without reaching into stepper internals.
package debug

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tinybflang/tinybf/vm"
)

// Option configures a Session. Every option that is not passed keeps its
// library default.
type Option func(*sessionConfig)

type sessionConfig struct {
	window       uint32
	maxSteps     uint64
	historyLimit int
	log          zerolog.Logger
	vmOpts       []vm.Option
}

// WithWindow sets the tape window radius every Snapshot carries (default 10).
func WithWindow(window uint32) Option {
	return func(c *sessionConfig) { c.window = window }
}

// WithMaxSteps sets the step budget passed to the underlying stepper
// (default 0, meaning unbounded).
func WithMaxSteps(maxSteps uint64) Option {
	return func(c *sessionConfig) { c.maxSteps = maxSteps }
}

// WithHistoryLimit sets the capacity of the history ring (default 100).
func WithHistoryLimit(limit int) Option {
	return func(c *sessionConfig) { c.historyLimit = limit }
}

// WithLogger attaches a structured logger. The default is zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(c *sessionConfig) { c.log = logger }
}

// WithVMOptions forwards additional options to every vm.NewStepper call
// this session makes (including on restart).
func WithVMOptions(opts ...vm.Option) Option {
	return func(c *sessionConfig) { c.vmOpts = opts }
}

func newSessionConfig(opts ...Option) sessionConfig {
	c := sessionConfig{window: 10, historyLimit: 100, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Session owns a *vm.Stepper plus the state a debugger needs across
// stepping calls: breakpoints, bounded history, and the last snapshot.
// Its exported methods lock internally, so callers serializing through
// them get safe concurrent access without managing a lock themselves.
type Session struct {
	mu sync.Mutex

	ID uuid.UUID

	code     string
	input    []byte
	cfg      sessionConfig
	stepper  *vm.Stepper

	breakpoints   map[int]struct{}
	history       []vm.Snapshot
	last          vm.Snapshot
	hasLast       bool
	finished      bool
	hitBreakpoint *int
}

// NewSession builds a session around a fresh stepper for code/input.
func NewSession(code string, input []byte, opts ...Option) (*Session, error) {
	cfg := newSessionConfig(opts...)
	stepper, err := vm.NewStepper(code, input, cfg.window, cfg.maxSteps, cfg.vmOpts...)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:          uuid.New(),
		code:        code,
		input:       input,
		cfg:         cfg,
		stepper:     stepper,
		breakpoints: make(map[int]struct{}),
	}
	return s, nil
}

// LastState returns the most recent snapshot taken and whether any
// stepping has happened yet.
func (s *Session) LastState() (vm.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Finished reports whether the underlying stepper has yielded its
// terminal snapshot.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// HitBreakpoint returns the pc the session last halted at due to a
// breakpoint, or false if the most recent step_forward didn't hit one.
func (s *Session) HitBreakpoint() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hitBreakpoint == nil {
		return 0, false
	}
	return *s.hitBreakpoint, true
}

// History returns a copy of the bounded snapshot ring, oldest first.
func (s *Session) History() []vm.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vm.Snapshot, len(s.history))
	copy(out, s.history)
	return out
}

// StepForward pulls up to n snapshots, stopping early if the stepper
// finishes or a produced snapshot's pc is a breakpoint. It returns the
// snapshots actually taken. n == 0 takes no steps and clears no state.
func (s *Session) StepForward(n int) ([]vm.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		return nil, nil
	}

	s.hitBreakpoint = nil
	taken := make([]vm.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snap, ok, err := s.stepper.Next()
		if err != nil {
			s.cfg.log.Warn().Err(err).Msg("step_forward failed")
			return taken, err
		}
		if !ok {
			s.finished = true
			break
		}
		s.recordSnapshot(snap)
		taken = append(taken, snap)

		if _, isBreak := s.breakpoints[snap.PC]; isBreak {
			pc := snap.PC
			s.hitBreakpoint = &pc
			break
		}
		if snap.Command == nil {
			s.finished = true
			break
		}
	}
	return taken, nil
}

func (s *Session) recordSnapshot(snap vm.Snapshot) {
	s.last = snap
	s.hasLast = true
	s.history = append(s.history, snap)
	if over := len(s.history) - s.cfg.historyLimit; over > 0 {
		s.history = s.history[over:]
	}
}

// RunUntilBreak repeatedly steps one instruction at a time until
// finished, a breakpoint is hit, or limit steps have run (limit == 0
// means unbounded). A StepLimitExceeded from the underlying stepper
// propagates to the caller.
func (s *Session) RunUntilBreak(limit int) ([]vm.Snapshot, error) {
	var taken []vm.Snapshot
	for limit == 0 || len(taken) < limit {
		step, err := s.StepForward(1)
		if err != nil {
			return taken, err
		}
		taken = append(taken, step...)

		s.mu.Lock()
		finished := s.finished
		_, hit := s.hitBreakpoint, s.hitBreakpoint != nil
		s.mu.Unlock()
		if finished || hit {
			break
		}
		if len(step) == 0 {
			break
		}
	}
	return taken, nil
}

// Restart builds a fresh stepper over the same code/input/window/
// max_steps, clears history down to the new initial state, and resets
// finished/hit_breakpoint. Breakpoints are preserved.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stepper, err := vm.NewStepper(s.code, s.input, s.cfg.window, s.cfg.maxSteps, s.cfg.vmOpts...)
	if err != nil {
		return err
	}
	s.stepper = stepper
	s.history = nil
	s.last = vm.Snapshot{}
	s.hasLast = false
	s.finished = false
	s.hitBreakpoint = nil
	return nil
}

// AddBreakpoint registers pc as a breakpoint.
func (s *Session) AddBreakpoint(pc int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints[pc] = struct{}{}
}

// RemoveBreakpoint unregisters pc, reporting whether it was present.
func (s *Session) RemoveBreakpoint(pc int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.breakpoints[pc]; !ok {
		return false
	}
	delete(s.breakpoints, pc)
	return true
}

// ClearBreakpoints removes every registered breakpoint.
func (s *Session) ClearBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints = make(map[int]struct{})
}

// ListBreakpoints returns every registered breakpoint pc, sorted ascending.
func (s *Session) ListBreakpoints() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.breakpoints))
	for pc := range s.breakpoints {
		out = append(out, pc)
	}
	sort.Ints(out)
	return out
}
