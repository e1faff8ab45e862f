// Package sweep runs a model problem across an ordered list of step
// counts, timing each run, and hands the collected results to the output
// and plot writers. Runs are strictly sequential and share no mutable
// state; a run that goes non-finite still records its result and the sweep
// continues.
package sweep

import (
	"fmt"
	"time"

	"github.com/mpark/mpint/timestep"
)

// Runner executes one integration at the given step count and returns the
// final full precision state.
type Runner func(nsteps int) (final []float64, stats timestep.Stats, err error)

type Result struct {
	Steps   int
	Dt      float64
	Final   []float64
	Elapsed time.Duration
	Stats   timestep.Stats
	Err     error
}

type ResultSet struct {
	Label    string
	T0, TEnd float64
	Results  []Result
}

// Run sweeps the step counts in order. Each run owns its own buffers; the
// Runner is expected to allocate per call.
func Run(label string, t0, tEnd float64, stepCounts []int, run Runner) (rs ResultSet) {
	rs = ResultSet{Label: label, T0: t0, TEnd: tEnd}
	for _, n := range stepCounts {
		var (
			start          = time.Now()
			final, st, err = run(n)
		)
		r := Result{
			Steps:   n,
			Dt:      (tEnd - t0) / float64(n),
			Final:   final,
			Elapsed: time.Since(start),
			Stats:   st,
			Err:     err,
		}
		rs.Results = append(rs.Results, r)
		if err != nil {
			fmt.Printf("N = %8d failed: %v\n", n, err)
			continue
		}
		fmt.Printf("N = %8d, dt = %12.6e, iters = %6d, non-converged = %4d, elapsed = %v\n",
			n, r.Dt, st.TotalIterations, st.NonConverged, r.Elapsed)
	}
	return
}
