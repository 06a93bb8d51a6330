package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/glowfield/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "glowfield "+Version+"\n", out)
}

func TestRootCmd_NoArgs(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Mouse-reactive particle background")
	assert.Contains(t, out, "simulate")
}

func TestSeedFlagUsage(t *testing.T) {
	f := newRootCmd().PersistentFlags().Lookup("seed")
	require.NotNil(t, f)
	assert.Equal(t, "0", f.DefValue)
	assert.Contains(t, f.Usage, "run picks a random seed")
	assert.Contains(t, f.Usage, fmt.Sprintf("simulate uses %d", defaultSeed))
}

func TestRootCmd_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glowfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0o644))

	_, err := execute(t, "--config", path, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestRootCmd_InvalidFlagValue(t *testing.T) {
	_, err := execute(t, "--width", "-10", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunCmd_MissingScript(t *testing.T) {
	_, err := execute(t, "run", "--script", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read test script")
}

func TestRunCmd_BadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"steps":[{"action":"explode"}]}`), 0o644))

	_, err := execute(t, "run", "--script", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestFieldConfig(t *testing.T) {
	a := &app{cfg: config.NewDefaultConfig(), log: zap.NewNop()}
	a.cfg.Field.Particles = 4
	a.cfg.Field.Seed = 9
	a.cfg.Field.FadeIn = 0

	cfg := a.fieldConfig(true, false, nil)
	assert.Equal(t, 4, cfg.ParticleCount)
	assert.True(t, cfg.LowPower)
	assert.False(t, cfg.ReducedMotion)
	assert.Less(t, cfg.FadeIn, 0.0, "zero fade in the file disables the fade")
	assert.NotNil(t, cfg.Spawn.Rand)
	assert.Equal(t, a.cfg.Field.PointerInterval, cfg.PointerInterval)
}

func TestLowPowerOverride(t *testing.T) {
	a := &app{cfg: config.NewDefaultConfig()}

	a.cfg.Field.DetectDevice = false
	assert.False(t, a.lowPower(1))

	a.cfg.Field.LowPower = true
	assert.True(t, a.lowPower(3))

	a.cfg.Field.LowPower = false
	a.cfg.Field.DetectDevice = true
	assert.True(t, a.lowPower(1), "scale 1 counts as low power")
}
