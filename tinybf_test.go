package tinybf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybflang/tinybf/config"
	"github.com/tinybflang/tinybf/debug"
)

func TestTranspileRunRoundTrip(t *testing.T) {
	bf, err := Transpile(`
		let num a = 3
		let num b = 4
		mul a b
		print_dec a
	`)
	require.NoError(t, err)

	out, err := Run(bf, nil, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, "12", out)
}

func TestTranspile_CompiledOutputIsBalancedAndPure(t *testing.T) {
	bf, err := Transpile(`
		let num a = 200
		div a 3
		print_dec a
	`)
	require.NoError(t, err)

	depth := 0
	for _, c := range []byte(bf) {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case '+', '-', '<', '>', '.', ',':
			// allowed
		default:
			t.Fatalf("unexpected character %q in compiled output", c)
		}
		require.GreaterOrEqual(t, depth, 0)
	}
	assert.Zero(t, depth)
}

func TestStep_YieldsSnapshotsAndTerminal(t *testing.T) {
	bf, err := Transpile(`
		let char c = 'x'
		print_char c
	`)
	require.NoError(t, err)

	stepper, err := Step(bf, nil, 5, 0)
	require.NoError(t, err)

	count := 0
	sawTerminal := false
	for {
		snap, ok, err := stepper.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
		if snap.Command == nil {
			sawTerminal = true
		}
	}
	assert.True(t, count > 0)
	assert.True(t, sawTerminal)
}

func TestNewSession_FromFacadeConfig(t *testing.T) {
	bf, err := Transpile(`
		let char c = 'x'
		print_char c
	`)
	require.NoError(t, err)

	sess, err := NewSession(SessionConfig{
		Code:    bf,
		Input:   nil,
		Options: []debug.Option{debug.WithWindow(3)},
	})
	require.NoError(t, err)

	_, err = sess.RunUntilBreak(0)
	require.NoError(t, err)
	assert.True(t, sess.Finished())
}

func TestNewSessionFromPreset(t *testing.T) {
	preset, err := config.Load("ci")
	require.NoError(t, err)

	bf, err := Transpile(`
		let char c = 'x'
		print_char c
	`)
	require.NoError(t, err)

	sess, err := debug.NewSessionFromPreset(bf, nil, preset)
	require.NoError(t, err)
	_, err = sess.RunUntilBreak(0)
	require.NoError(t, err)
	assert.True(t, sess.Finished())
}
