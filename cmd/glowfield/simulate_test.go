package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func decodeResult(t *testing.T, out string) simulateResult {
	t.Helper()
	var res simulateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), "output should be JSON: %s", out)
	return res
}

func TestSimulateCmd(t *testing.T) {
	out, err := execute(t, "simulate", "--frames", "120", "--seed", "7", "--particles", "4",
		"--width", "400", "--height", "300")
	require.NoError(t, err)

	res := decodeResult(t, out)
	assert.Equal(t, uint64(7), res.Seed)
	assert.Equal(t, uint64(120), res.Frames)
	assert.InDelta(t, 0.24, res.Clock, 1e-9)
	assert.Equal(t, 400, res.Width)
	require.Len(t, res.Particles, 4)
	for i, p := range res.Particles {
		assert.GreaterOrEqual(t, p.X, 0.0, "particle %d", i)
		assert.Less(t, p.X, 400.0, "particle %d", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d", i)
		assert.Less(t, p.Y, 300.0, "particle %d", i)
		assert.GreaterOrEqual(t, p.Size, 0.5, "particle %d", i)
		assert.Less(t, p.Size, 2.0, "particle %d", i)
	}
}

func TestSimulateCmdDeterministic(t *testing.T) {
	args := []string{"simulate", "--frames", "300", "--seed", "42", "--pointer-x", "0.9", "--pointer-y", "0.1"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := execute(t, "simulate", "--frames", "300", "--seed", "43")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSimulateCmdDefaults(t *testing.T) {
	out, err := execute(t, "simulate", "--frames", "1")
	require.NoError(t, err)

	res := decodeResult(t, out)
	assert.Equal(t, uint64(defaultSeed), res.Seed)
	assert.Equal(t, 1280, res.Width)
	assert.Equal(t, 0.5, res.Pointer.X)
	assert.Contains(t, []int{3, 5}, len(res.Particles))
}

func TestSimulateCmdPointerApplied(t *testing.T) {
	out, err := execute(t, "simulate", "--frames", "1", "--pointer-x", "1", "--pointer-y", "0")
	require.NoError(t, err)

	res := decodeResult(t, out)
	assert.Equal(t, 1.0, res.Pointer.X)
	assert.Equal(t, 0.0, res.Pointer.Y)
}

func TestSimulateCmdPaced(t *testing.T) {
	defer goleak.VerifyNone(t)

	out, err := execute(t, "simulate", "--frames", "5", "--fps", "500", "--particles", "2")
	require.NoError(t, err)

	res := decodeResult(t, out)
	assert.Equal(t, uint64(5), res.Frames)
	assert.Len(t, res.Particles, 2)
}

func TestSimulateCmdZeroFrames(t *testing.T) {
	out, err := execute(t, "simulate", "--frames", "0", "--fps", "60")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), decodeResult(t, out).Frames)
}
