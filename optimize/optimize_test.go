package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinybflang/tinybf/vm"
)

func TestRun_CollapsesCancelingRuns(t *testing.T) {
	assert.Equal(t, "", Run("+-"))
	assert.Equal(t, "", Run("-+"))
	assert.Equal(t, "", Run("><"))
	assert.Equal(t, "", Run("<>"))
	assert.Equal(t, "+", Run("+++--"))
	assert.Equal(t, ">", Run(">>><<"))
}

func TestRun_LeavesNonRunsAlone(t *testing.T) {
	assert.Equal(t, "[-].,", Run("[-].,"))
}

func TestRun_DedupsAdjacentClearLoops(t *testing.T) {
	assert.Equal(t, "[-]", Run("[-][-][-]"))
	assert.Equal(t, "[-]x[-]", Run("[-]x[-]"))
}

func TestRun_DedupsAdjacentGeneralClearLoops(t *testing.T) {
	assert.Equal(t, "[-<+>]", Run("[-<+>][-<+>]"))
}

func TestRun_DoesNotTreatPureIncrementLoopAsClear(t *testing.T) {
	assert.Equal(t, "[+][+]", Run("[+][+]"))
}

func TestRun_DedupsTransferAndClearLoop(t *testing.T) {
	assert.Equal(t, "[->+<]", Run("[->+<][->+<]"))
}

func TestRun_DoesNotTreatUnbalancedPointerLoopAsClear(t *testing.T) {
	assert.Equal(t, "[->+]x[->+]", Run("[->+]x[->+]"))
}

func TestRun_PreservesSemantics(t *testing.T) {
	tests := []string{
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
		"+++++[>+++++<-]>++.",
		"+[-]+.",
	}
	for _, code := range tests {
		before, err := vm.Run(code, nil, 1_000_000)
		if err != nil {
			continue
		}
		after, err := vm.Run(Run(code), nil, 1_000_000)
		if assert.NoError(t, err) {
			assert.Equal(t, before, after)
		}
	}
}
