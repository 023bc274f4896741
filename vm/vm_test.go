package vm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybflang/tinybf/tinybferr"
)

func TestRun_HelloWorld(t *testing.T) {
	// A well-known compact Hello World! program.
	bf := `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	out, err := Run(bf, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", out)
}

func TestRun_WrappingArithmetic(t *testing.T) {
	out, err := Run("+.", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, string([]byte{1}), out)

	out, err = Run("-.", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, string([]byte{255}), out)
}

func TestRun_InputEOFDefaultsToZero(t *testing.T) {
	out, err := Run(",.", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0}), out)
}

func TestRun_UnmatchedBracket(t *testing.T) {
	_, err := Run("[+", nil, 0)
	require.Error(t, err)
	var unbalanced *tinybferr.UnbalancedBrackets
	assert.ErrorAs(t, err, &unbalanced)
}

func TestRun_PointerOutOfRange(t *testing.T) {
	_, err := Run("<", nil, 0, WithMemorySize(10))
	require.Error(t, err)
	var oob *tinybferr.PointerOutOfRange
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, byte('<'), oob.Direction)
}

func TestRun_StepLimitExceeded(t *testing.T) {
	_, err := Run("+[]", nil, 10)
	require.Error(t, err)
	var limit *tinybferr.StepLimitExceeded
	assert.ErrorAs(t, err, &limit)
}

func TestStepper_TerminalSnapshotOnEmptyProgram(t *testing.T) {
	s, err := NewStepper("", nil, 5, 0)
	require.NoError(t, err)
	snap, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, snap.Command)
	assert.Equal(t, 0, snap.PC)
	assert.Equal(t, 0, snap.CodeLength)

	_, ok, err = s.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStepper_OneSnapshotPerInstructionPlusTerminal(t *testing.T) {
	s, err := NewStepper("+.", nil, 2, 0)
	require.NoError(t, err)

	var snaps []Snapshot
	for {
		snap, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		snaps = append(snaps, snap)
	}

	require.Len(t, snaps, 3)
	assert.Equal(t, byte('+'), *snaps[0].Command)
	assert.Equal(t, byte('.'), *snaps[1].Command)
	assert.Nil(t, snaps[2].Command)
	assert.Equal(t, 2, snaps[2].PC)
	assert.Equal(t, []byte{1}, snaps[2].Output)
}

func TestStepper_TapeWindowBounded(t *testing.T) {
	s, err := NewStepper("+", nil, 1, 0)
	require.NoError(t, err)
	snap, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, snap.TapeStart)
	assert.True(t, len(snap.Tape) <= 3)
}

func TestStepper_NotRestartable(t *testing.T) {
	s, err := NewStepper(".", nil, 0, 0)
	require.NoError(t, err)
	for {
		_, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	snap, ok, err := s.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, cmp.Equal(Snapshot{}, snap))
}
