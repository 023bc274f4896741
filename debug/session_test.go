package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StepForwardStopsAtBreakpoint(t *testing.T) {
	s, err := NewSession("+.+.+.", nil, WithWindow(1))
	require.NoError(t, err)
	s.AddBreakpoint(3)

	snaps, err := s.StepForward(10)
	require.NoError(t, err)
	require.NotEmpty(t, snaps)

	pc, hit := s.HitBreakpoint()
	require.True(t, hit)
	assert.Equal(t, 3, pc)
	assert.False(t, s.Finished())
}

func TestSession_StepForwardZeroIsNoOp(t *testing.T) {
	s, err := NewSession("+.", nil)
	require.NoError(t, err)
	snaps, err := s.StepForward(0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	_, hasLast := s.LastState()
	assert.False(t, hasLast)
}

func TestSession_RunUntilBreakRunsToCompletion(t *testing.T) {
	s, err := NewSession("+.+.", nil)
	require.NoError(t, err)
	_, err = s.RunUntilBreak(0)
	require.NoError(t, err)
	assert.True(t, s.Finished())
}

func TestSession_HistoryIsBounded(t *testing.T) {
	s, err := NewSession("+++++.", nil, WithHistoryLimit(2))
	require.NoError(t, err)
	_, err = s.StepForward(6)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(s.History()), 2)
}

func TestSession_Restart(t *testing.T) {
	s, err := NewSession("+.", nil)
	require.NoError(t, err)
	_, err = s.RunUntilBreak(0)
	require.NoError(t, err)
	require.True(t, s.Finished())

	require.NoError(t, s.Restart())
	assert.False(t, s.Finished())
	_, hasLast := s.LastState()
	assert.False(t, hasLast)
}

func TestSession_BreakpointManagement(t *testing.T) {
	s, err := NewSession("+.", nil)
	require.NoError(t, err)

	s.AddBreakpoint(5)
	s.AddBreakpoint(1)
	assert.Equal(t, []int{1, 5}, s.ListBreakpoints())

	assert.True(t, s.RemoveBreakpoint(1))
	assert.False(t, s.RemoveBreakpoint(1))
	assert.Equal(t, []int{5}, s.ListBreakpoints())

	s.ClearBreakpoints()
	assert.Empty(t, s.ListBreakpoints())
}

func TestSession_UnbalancedBracketsFailsConstruction(t *testing.T) {
	_, err := NewSession("[", nil)
	assert.Error(t, err)
}

func TestSession_HasStableID(t *testing.T) {
	s, err := NewSession("+.", nil)
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, [16]byte(s.ID))
}
