package sweep

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpark/mpint/timestep"
	"github.com/stretchr/testify/assert"
)

func TestRunSweepsAllCounts(t *testing.T) {
	var calls []int
	rs := Run("test", 0, 1, []int{1, 10, 100}, func(n int) ([]float64, timestep.Stats, error) {
		calls = append(calls, n)
		return []float64{float64(n)}, timestep.Stats{Steps: n}, nil
	})
	assert.Equal(t, []int{1, 10, 100}, calls)
	assert.Equal(t, 3, len(rs.Results))
	assert.Equal(t, 0.1, rs.Results[1].Dt)
	assert.Equal(t, []float64{10}, rs.Results[1].Final)
}

func TestRunContinuesPastFailure(t *testing.T) {
	rs := Run("test", 0, 1, []int{1, 10, 100}, func(n int) ([]float64, timestep.Stats, error) {
		if n == 10 {
			return nil, timestep.Stats{}, fmt.Errorf("boom")
		}
		return []float64{1}, timestep.Stats{}, nil
	})
	assert.Equal(t, 3, len(rs.Results))
	assert.Error(t, rs.Results[1].Err)
	assert.NoError(t, rs.Results[2].Err)
}

func TestWriteResults(t *testing.T) {
	rs := ResultSet{
		TEnd: 1,
		Results: []Result{
			{Steps: 10, Dt: 0.1, Final: []float64{1.5, -2.5}},
			{Steps: 100, Dt: 0.01, Final: []float64{1.25, -0.5}},
			{Steps: 1000, Err: fmt.Errorf("poisoned")},
		},
	}
	path := filepath.Join(t.TempDir(), "sol.txt")
	assert.NoError(t, WriteResults(path, rs))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 2, len(lines)) // failed run skipped
	fields := strings.Split(lines[0], ",")
	assert.Equal(t, 3, len(fields))
	assert.Contains(t, fields[0], "1.0")
}

func TestWriteTrajectoryTabDelimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	traj := [][]float64{{2, 0}, {1.9, -0.2}}
	assert.NoError(t, WriteTrajectory(path, traj))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, 2, len(strings.Split(lines[0], "\t")))
}

func TestWriteResultsBadPath(t *testing.T) {
	rs := ResultSet{Results: []Result{{Steps: 1, Dt: 1, Final: []float64{0}}}}
	assert.Error(t, WriteResults(filepath.Join(t.TempDir(), "missing", "sol.txt"), rs))
}

func TestPlotWaveform(t *testing.T) {
	var (
		n = 32
		x = make([]float64, n)
		u = make([]float64, n)
	)
	for i := range x {
		x[i] = float64(i) / float64(n)
		u[i] = math.Sin(2 * math.Pi * x[i])
	}
	path := filepath.Join(t.TempDir(), "wave.png")
	assert.NoError(t, PlotWaveform(path, "waveform", x, u))
	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotPhase(t *testing.T) {
	traj := [][]float64{{2, 0}, {1.8, -0.4}, {1.5, -0.6}}
	path := filepath.Join(t.TempDir(), "phase.svg")
	assert.NoError(t, PlotPhase(path, "phase portrait", traj))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
