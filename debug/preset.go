package debug

import "github.com/tinybflang/tinybf/config"

// NewSessionFromPreset builds a session using a named config.Preset's
// window/history/step-budget defaults instead of individual functional
// options. Additional options still apply on top of the preset.
func NewSessionFromPreset(code string, input []byte, preset config.Preset, opts ...Option) (*Session, error) {
	base := []Option{
		WithWindow(preset.Window),
		WithHistoryLimit(preset.HistoryLimit),
		WithMaxSteps(preset.MaxSteps),
	}
	return NewSession(code, input, append(base, opts...)...)
}
