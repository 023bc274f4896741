package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_KnownPresets(t *testing.T) {
	tests := []struct {
		name string
		want Preset
	}{
		{"interactive", Preset{Window: 10, HistoryLimit: 200, MaxSteps: 0}},
		{"batch", Preset{Window: 0, HistoryLimit: 1, MaxSteps: 0}},
		{"ci", Preset{Window: 5, HistoryLimit: 20, MaxSteps: 2_000_000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Load(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestLoad_UnknownPreset(t *testing.T) {
	_, err := Load("nonexistent")
	assert.Error(t, err)
}
