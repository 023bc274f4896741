package vm

// Snapshot is an immutable record of interpreter state taken after a
// single executed instruction (or, for the one terminal snapshot, after
// the last instruction). Field names are a stable wire contract for an
// out-of-scope HTTP/JSON debug server.
type Snapshot struct {
	Step       uint64 `json:"step"`
	PC         int    `json:"pc"`
	Command    *byte  `json:"command"`
	Pointer    int    `json:"pointer"`
	TapeStart  int    `json:"tape_start"`
	Tape       []byte `json:"tape"`
	Output     []byte `json:"output"`
	CodeLength int    `json:"code_length"`
}

// Stepper is a pull-based, single-pass iterator over a program's
// execution, one Snapshot per instruction. It follows the bufio.Scanner
// protocol: call Next until it returns (_, false, nil). A Stepper is not
// restartable; construct a new one to run again.
type Stepper struct {
	m      *machine
	window uint32
	done   bool
}

// NewStepper preflights code (building its jump table) and returns a
// Stepper ready to yield its first Snapshot. window bounds how many
// tape cells surround the pointer in every Snapshot.Tape slice.
func NewStepper(code string, input []byte, window uint32, maxSteps uint64, opts ...Option) (*Stepper, error) {
	c := newConfig(opts...)
	m, err := newMachine(code, input, maxSteps, c)
	if err != nil {
		return nil, err
	}
	return &Stepper{m: m, window: window}, nil
}

// Next executes one instruction and returns the resulting Snapshot. The
// second return value is false once the sequence is exhausted — after
// the one terminal snapshot (command == nil, pc == code length) has
// already been returned. An empty program yields only that terminal
// snapshot. Next never re-executes; call it again only while it keeps
// returning true.
func (s *Stepper) Next() (Snapshot, bool, error) {
	if s.done {
		return Snapshot{}, false, nil
	}

	if s.m.pc >= len(s.m.code) {
		snap := s.snapshot(nil)
		s.done = true
		return snap, true, nil
	}

	cmd := s.m.code[s.m.pc]
	if err := s.m.execOne(); err != nil {
		s.done = true
		return Snapshot{}, false, err
	}
	return s.snapshot(&cmd), true, nil
}

func (s *Stepper) snapshot(cmd *byte) Snapshot {
	start, window := s.tapeWindow()
	var command *byte
	if cmd != nil {
		c := *cmd
		command = &c
	}
	return Snapshot{
		Step:       s.m.step,
		PC:         s.m.pc,
		Command:    command,
		Pointer:    s.m.pointer,
		TapeStart:  start,
		Tape:       window,
		Output:     append([]byte(nil), s.m.output...),
		CodeLength: len(s.m.code),
	}
}

func (s *Stepper) tapeWindow() (int, []byte) {
	radius := int(s.window)
	start := s.m.pointer - radius
	if start < 0 {
		start = 0
	}
	end := s.m.pointer + radius + 1
	if end > len(s.m.tape) {
		end = len(s.m.tape)
	}
	return start, append([]byte(nil), s.m.tape[start:end]...)
}
