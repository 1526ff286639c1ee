package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sirsim/internal/dynamo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunStreamsRows(t *testing.T) {
	out, err := execute(t, "run", "--time", "5", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.InDelta(t, 5, len(lines), 1)
	for _, line := range lines {
		assert.Len(t, strings.Split(line, "\t"), 4)
	}
	assert.True(t, strings.HasPrefix(lines[0], "1.0"), lines[0])
}

func TestRunPrecision(t *testing.T) {
	out, err := execute(t, "run", "--time", "2", "--precision", "3", "--log-level", "error")
	require.NoError(t, err)

	for _, field := range strings.Fields(out) {
		assert.LessOrEqual(t, len(strings.TrimLeft(field, "-")), len("1.23e-06"), field)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := execute(t, "run", "--beta", "-1", "--log-level", "error")
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameters)

	_, err = execute(t, "run", "--beta", "0.3", "--gamma", "0.1", "--log-level", "error")
	assert.ErrorIs(t, err, dynamo.ErrDegenerateConfiguration)

	_, err = execute(t, "run", "--preset", "nope", "--log-level", "error")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "run", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestRunLayering(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("name: file\nmax_time: 3\n"), 0644))

	out, err := execute(t, "run", "--config", cfgPath, "--set", "max_time=2", "--log-level", "error")
	require.NoError(t, err)
	assert.InDelta(t, 2, len(strings.Split(strings.TrimSpace(out), "\n")), 1)
}

func TestRunPresetUnderConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("name: layered\n"), 0644))

	out, err := execute(t, "run", "--preset", "fast", "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	assert.InDelta(t, 40, len(strings.Split(strings.TrimSpace(out), "\n")), 1)
}

func TestRunRejectsZeroSchedule(t *testing.T) {
	_, err := execute(t, "run", "--step", "0", "--log-level", "error")
	assert.ErrorIs(t, err, dynamo.ErrDegenerateConfiguration)

	_, err = execute(t, "run", "--every", "0", "--log-level", "error")
	assert.ErrorIs(t, err, dynamo.ErrDegenerateConfiguration)
}

func TestSaveListExport(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", "--time", "10", "--save", "--data", dir, "--log-level", "error")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runID := entries[0].Name()

	out, err := execute(t, "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, runID)

	out, err = execute(t, "export-csv", runID, "--data", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "time,s,i,r\n"))

	out, err = execute(t, "export-json", runID, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"samples"`)

	out, err = execute(t, "plot", runID, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "peak_prevalence")
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)

	for _, name := range []string{"default", "fast", "slow", "recovery-only"} {
		assert.Contains(t, out, name)
	}
}

func TestCompareAndSweep(t *testing.T) {
	out, err := execute(t, "compare", "rk4", "euler", "--time", "20", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "rk4")
	assert.Contains(t, out, "euler")

	_, err = execute(t, "compare", "midpoint", "--log-level", "error")
	assert.ErrorContains(t, err, "unknown integrator")

	out, err = execute(t, "sweep", "beta", "1.5", "3", "--time", "20", "--plot", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "beta=1.5")

	_, err = execute(t, "sweep", "beta", "abc", "--log-level", "error")
	assert.Error(t, err)
}
