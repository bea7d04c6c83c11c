// Package mappingstore (de)serializes a Mapping - a Source plus a Mode
// configuration - to and from disk as gzipped JSON, exactly the way the
// teacher's internal/storage package persisted its save file: jsoniter
// configured for standard-library compatibility, gzip-compressed on disk.
// A Mapping here plays the role the teacher's SaveData struct played:
// the one serializable record the host round-trips across runs.
package mappingstore

import (
	"compress/gzip"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/ctlmap/internal/mode"
	"github.com/schollz/ctlmap/internal/pressduration"
	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/schollz/ctlmap/internal/source"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SourceConfig is the JSON-serializable description of a source.Source.
// Fields unused by Kind are simply omitted; nil means "wildcard", matching
// source.Source's own nil-is-wildcard filter convention (spec.md §3).
type SourceConfig struct {
	Kind             string `json:"kind"`
	Channel          *uint8 `json:"channel,omitempty"`
	KeyNumber        *uint8 `json:"key_number,omitempty"`
	ControllerNumber *uint8 `json:"controller_number,omitempty"`
	Character        string `json:"character,omitempty"`
	Is14Bit          *bool  `json:"is_14_bit,omitempty"`
	IsRegistered     *bool  `json:"is_registered,omitempty"`
	Transport        string `json:"transport,omitempty"`
}

var characterByName = map[string]source.Character{
	"range":    source.CharacterRange,
	"switch":   source.CharacterSwitch,
	"encoder1": source.CharacterEncoder1,
	"encoder2": source.CharacterEncoder2,
	"encoder3": source.CharacterEncoder3,
}

var transportByName = map[string]source.TransportKind{
	"start":    source.TransportStart,
	"continue": source.TransportContinue,
	"stop":     source.TransportStop,
}

// Build constructs a runtime source.Source from the configuration.
func (c SourceConfig) Build() (source.Source, error) {
	switch c.Kind {
	case "note_velocity":
		return source.NewNoteVelocity(c.Channel, c.KeyNumber), nil
	case "note_key_number":
		return source.NewNoteKeyNumber(c.Channel), nil
	case "polyphonic_key_pressure":
		return source.NewPolyphonicKeyPressure(c.Channel, c.KeyNumber), nil
	case "control_change_7":
		character, ok := characterByName[c.Character]
		if c.Character != "" && !ok {
			return source.Source{}, fmt.Errorf("mappingstore: unknown character %q", c.Character)
		}
		return source.NewControlChange7(c.Channel, c.ControllerNumber, character), nil
	case "program_change":
		return source.NewProgramChange(c.Channel), nil
	case "channel_pressure":
		return source.NewChannelPressure(c.Channel), nil
	case "pitch_bend":
		return source.NewPitchBend(c.Channel), nil
	case "control_change_14_bit":
		return source.NewControlChange14Bit(c.Channel, c.ControllerNumber), nil
	case "parameter_number":
		return source.NewParameterNumber(c.Channel, c.ControllerNumber, c.Is14Bit, c.IsRegistered), nil
	case "clock_tempo":
		return source.NewClockTempo(), nil
	case "clock_transport":
		kind, ok := transportByName[c.Transport]
		if !ok {
			return source.Source{}, fmt.Errorf("mappingstore: unknown transport %q", c.Transport)
		}
		return source.NewClockTransport(kind), nil
	}
	return source.Source{}, fmt.Errorf("mappingstore: unknown source kind %q", c.Kind)
}

// ModeConfig is the JSON-serializable mirror of mode.Config. Intervals are
// stored as plain float64 bounds rather than primitives.Interval, since the
// latter panics on min>max and JSON input is untrusted until Build.
type ModeConfig struct {
	SourceMin float64 `json:"source_min,omitempty"`
	SourceMax float64 `json:"source_max,omitempty"`
	TargetMin float64 `json:"target_min,omitempty"`
	TargetMax float64 `json:"target_max,omitempty"`

	OutOfRangeBehavior string `json:"out_of_range_behavior,omitempty"`
	Reverse            bool   `json:"reverse,omitempty"`
	RoundTargetValue   bool   `json:"round_target_value,omitempty"`

	JumpMin      float64 `json:"jump_min,omitempty"`
	JumpMax      float64 `json:"jump_max,omitempty"`
	TakeoverMode string  `json:"takeover_mode,omitempty"`

	AbsoluteMode string `json:"absolute_mode,omitempty"`

	StepCountMin int     `json:"step_count_min,omitempty"`
	StepCountMax int     `json:"step_count_max,omitempty"`
	StepSizeMin  float64 `json:"step_size_min,omitempty"`
	StepSizeMax  float64 `json:"step_size_max,omitempty"`

	Rotate bool `json:"rotate,omitempty"`

	ButtonUsage  string `json:"button_usage,omitempty"`
	EncoderUsage string `json:"encoder_usage,omitempty"`

	UseDiscreteProcessing     bool `json:"use_discrete_processing,omitempty"`
	ConvertRelativeToAbsolute bool `json:"convert_relative_to_absolute,omitempty"`

	MinPressDurationMS int    `json:"min_press_duration_ms,omitempty"`
	MaxPressDurationMS int    `json:"max_press_duration_ms,omitempty"`
	TurboPeriodMS      int    `json:"turbo_period_ms,omitempty"`
	FireOn             string `json:"fire_on,omitempty"`
}

var outOfRangeByName = map[string]mode.OutOfRangeBehavior{
	"min_or_max": mode.OutOfRangeMinOrMax,
	"min":        mode.OutOfRangeMin,
	"ignore":     mode.OutOfRangeIgnore,
}

var takeoverByName = map[string]mode.TakeoverMode{
	"pickup":           mode.TakeoverPickup,
	"parallel":         mode.TakeoverParallel,
	"long_time_no_see": mode.TakeoverLongTimeNoSee,
	"catch_up":         mode.TakeoverCatchUp,
}

var absoluteModeByName = map[string]mode.AbsoluteSubMode{
	"normal":             mode.AbsoluteNormal,
	"incremental_buttons": mode.AbsoluteIncrementalButtons,
	"toggle_buttons":     mode.AbsoluteToggleButtons,
}

var buttonUsageByName = map[string]mode.ButtonUsage{
	"both":         mode.ButtonBoth,
	"press_only":   mode.ButtonPressOnly,
	"release_only": mode.ButtonReleaseOnly,
}

var encoderUsageByName = map[string]mode.EncoderUsage{
	"both":           mode.EncoderBoth,
	"increment_only": mode.EncoderIncrementOnly,
	"decrement_only": mode.EncoderDecrementOnly,
}

var fireOnByName = map[string]pressduration.FireOn{
	"":          pressduration.FireOnPassthrough,
	"press":     pressduration.FireOnPress,
	"release":   pressduration.FireOnRelease,
	"both":      pressduration.FireOnBoth,
	"after_min": pressduration.FireOnAfterMin,
	"turbo":     pressduration.FireOnTurbo,
}

func lookup[V any](table map[string]V, key, field string) (V, error) {
	v, ok := table[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("mappingstore: unknown %s %q", field, key)
	}
	return v, nil
}

// Build constructs a runtime mode.Config from the configuration, starting
// from mode.DefaultConfig so omitted JSON fields keep their spec-mandated
// defaults (full intervals, step size 0.01/0.01, step count [+1,+1]) per
// spec.md §9 rather than zero-valuing them.
func (c ModeConfig) Build() (mode.Config, error) {
	cfg := mode.DefaultConfig()

	if c.SourceMax > 0 || c.SourceMin > 0 {
		cfg.SourceInterval = primitives.NewInterval(primitives.NewUnit(c.SourceMin), primitives.NewUnit(valueOr(c.SourceMax, 1)))
	}
	if c.TargetMax > 0 || c.TargetMin > 0 {
		cfg.TargetInterval = primitives.NewInterval(primitives.NewUnit(c.TargetMin), primitives.NewUnit(valueOr(c.TargetMax, 1)))
	}
	if c.JumpMax > 0 || c.JumpMin > 0 {
		cfg.JumpInterval = primitives.NewInterval(primitives.NewUnit(c.JumpMin), primitives.NewUnit(c.JumpMax))
	}
	if c.StepSizeMin > 0 || c.StepSizeMax > 0 {
		min := c.StepSizeMin
		max := c.StepSizeMax
		if max == 0 {
			max = min
		}
		cfg.StepSizeInterval = primitives.NewInterval(primitives.NewUnit(min), primitives.NewUnit(max))
	}
	if c.StepCountMin != 0 || c.StepCountMax != 0 {
		cfg.StepCountInterval = mode.StepCountInterval{Min: c.StepCountMin, Max: c.StepCountMax}
	}

	cfg.Reverse = c.Reverse
	cfg.RoundTargetValue = c.RoundTargetValue
	cfg.Rotate = c.Rotate
	cfg.UseDiscreteProcessing = c.UseDiscreteProcessing
	cfg.ConvertRelativeToAbsolute = c.ConvertRelativeToAbsolute

	var err error
	if c.OutOfRangeBehavior != "" {
		if cfg.OutOfRangeBehavior, err = lookup(outOfRangeByName, c.OutOfRangeBehavior, "out_of_range_behavior"); err != nil {
			return mode.Config{}, err
		}
	}
	if c.TakeoverMode != "" {
		if cfg.TakeoverMode, err = lookup(takeoverByName, c.TakeoverMode, "takeover_mode"); err != nil {
			return mode.Config{}, err
		}
	}
	if c.AbsoluteMode != "" {
		if cfg.AbsoluteMode, err = lookup(absoluteModeByName, c.AbsoluteMode, "absolute_mode"); err != nil {
			return mode.Config{}, err
		}
	}
	if c.ButtonUsage != "" {
		if cfg.ButtonUsage, err = lookup(buttonUsageByName, c.ButtonUsage, "button_usage"); err != nil {
			return mode.Config{}, err
		}
	}
	if c.EncoderUsage != "" {
		if cfg.EncoderUsage, err = lookup(encoderUsageByName, c.EncoderUsage, "encoder_usage"); err != nil {
			return mode.Config{}, err
		}
	}
	fireOn, err := lookup(fireOnByName, c.FireOn, "fire_on")
	if err != nil {
		return mode.Config{}, err
	}
	cfg.PressDuration = pressduration.Config{
		MinPressDuration: msToDuration(c.MinPressDurationMS),
		MaxPressDuration: msToDuration(c.MaxPressDurationMS),
		TurboPeriod:      msToDuration(c.TurboPeriodMS),
		FireOn:           fireOn,
	}

	return cfg, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func valueOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

// TargetConfig is the JSON-serializable description of the capability
// snapshot a host-owned mode.Target reports (mode.ControlType). ctlmap's own
// host (cmd/ctlmap watch) has no real application parameter to drive, so it
// builds an in-memory target from this config purely to exercise the mode
// pipeline end to end.
type TargetConfig struct {
	Kind         string  `json:"kind,omitempty"`
	RoundingStep float64 `json:"rounding_step,omitempty"`
	AtomicStep   float64 `json:"atomic_step,omitempty"`
}

var targetKindByName = map[string]mode.ControlTypeKind{
	"":                         mode.ControlTypeAbsoluteContinuous,
	"continuous":               mode.ControlTypeAbsoluteContinuous,
	"continuous_roundable":     mode.ControlTypeAbsoluteContinuousRoundable,
	"continuous_retriggerable": mode.ControlTypeAbsoluteContinuousRetriggerable,
	"discrete":                 mode.ControlTypeAbsoluteDiscrete,
	"relative":                 mode.ControlTypeRelative,
	"virtual_multi":            mode.ControlTypeVirtualMulti,
	"virtual_button":           mode.ControlTypeVirtualButton,
}

// Build constructs the mode.ControlType this target reports itself as.
func (c TargetConfig) Build() (mode.ControlType, error) {
	kind, ok := targetKindByName[c.Kind]
	if !ok {
		return mode.ControlType{}, fmt.Errorf("mappingstore: unknown target kind %q", c.Kind)
	}
	return mode.ControlType{Kind: kind, RoundingStep: c.RoundingStep, AtomicStep: c.AtomicStep}, nil
}

// Mapping is one named Source+Mode pair, the unit this package persists.
type Mapping struct {
	Name   string       `json:"name"`
	Source SourceConfig `json:"source"`
	Mode   ModeConfig   `json:"mode"`
	Target TargetConfig `json:"target,omitempty"`
}

// Set is the full collection of mappings a mapping file holds.
type Set struct {
	Mappings []Mapping `json:"mappings"`
}

// Save gzip-compresses Set as JSON to path, mirroring storage.DoSave's
// gzip.NewWriter-over-os.Create pattern.
func Save(path string, set Set) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mappingstore: create %s: %w", path, err)
	}
	defer file.Close()

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("mappingstore: marshal: %w", err)
	}

	gzWriter := gzip.NewWriter(file)
	if _, err := gzWriter.Write(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("mappingstore: write: %w", err)
	}
	return gzWriter.Close()
}

// Load reads and decompresses a Set previously written by Save.
func Load(path string) (Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("mappingstore: open %s: %w", path, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return Set{}, fmt.Errorf("mappingstore: gzip reader: %w", err)
	}
	defer gzReader.Close()

	var set Set
	dec := json.NewDecoder(gzReader)
	if err := dec.Decode(&set); err != nil {
		return Set{}, fmt.Errorf("mappingstore: decode: %w", err)
	}
	return set, nil
}
