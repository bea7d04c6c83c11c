package mappingstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/ctlmap/internal/primitives"
	"github.com/schollz/ctlmap/internal/source"
)

func TestSaveLoadRoundTrips(t *testing.T) {
	ch := uint8(3)
	cc := uint8(21)
	set := Set{Mappings: []Mapping{
		{
			Name: "filter cutoff",
			Source: SourceConfig{
				Kind:             "control_change_7",
				Channel:          &ch,
				ControllerNumber: &cc,
			},
			Mode: ModeConfig{
				TargetMin:    0.2,
				TargetMax:    0.8,
				Reverse:      true,
				AbsoluteMode: "normal",
			},
		},
	}}

	path := filepath.Join(t.TempDir(), "mapping.json.gz")
	require.NoError(t, Save(path, set))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, set, loaded)
}

func TestSourceConfigBuildUnknownKind(t *testing.T) {
	_, err := SourceConfig{Kind: "bogus"}.Build()
	assert.Error(t, err)
}

func TestSourceConfigBuildControlChange7(t *testing.T) {
	ch := uint8(1)
	cc := uint8(74)
	s, err := SourceConfig{Kind: "control_change_7", Channel: &ch, ControllerNumber: &cc}.Build()
	require.NoError(t, err)
	assert.Equal(t, source.KindControlChange7, s.Kind())
}

func TestModeConfigBuildDefaultsWhenEmpty(t *testing.T) {
	cfg, err := ModeConfig{}.Build()
	require.NoError(t, err)
	assert.True(t, primitives.IsFullUnit(cfg.SourceInterval))
	assert.True(t, primitives.IsFullUnit(cfg.TargetInterval))
	assert.Equal(t, 1, cfg.StepCountInterval.Min)
	assert.Equal(t, 1, cfg.StepCountInterval.Max)
}

func TestModeConfigBuildUnknownEnum(t *testing.T) {
	_, err := ModeConfig{TakeoverMode: "bogus"}.Build()
	assert.Error(t, err)
}
