// Package config loads named presets of interpreter/session defaults —
// window radius, history ring capacity, step budget — for a caller that
// wants one of a small fixed set of operating profiles instead of
// wiring every functional option by hand. There is no live file
// watching, no env var binding, and no flag parsing here; that belongs
// to the out-of-scope CLI front-end.
package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tinybflang/tinybf/tinybferr"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset bundles the defaults a debug.Session (or a bare vm.NewStepper
// call) needs for one named operating profile.
type Preset struct {
	Window       uint32 `yaml:"window"`
	HistoryLimit int    `yaml:"history_limit"`
	MaxSteps     uint64 `yaml:"max_steps"`
}

var presets = loadPresets()

func loadPresets() map[string]Preset {
	var m map[string]Preset
	if err := yaml.Unmarshal(presetsYAML, &m); err != nil {
		panic(fmt.Sprintf("config: embedded presets.yaml is malformed: %v", err))
	}
	return m
}

// Load returns the named preset ("interactive", "batch", "ci", ...). An
// unknown name is a tinybferr.SemanticError wrapping the lookup failure
// — there is nothing position-specific to report, so Line is left 0.
func Load(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, &tinybferr.SemanticError{Msg: fmt.Sprintf("config: unknown preset %q", name)}
	}
	return p, nil
}
