/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/mpark/mpint/model_problems/VanDerPol"
	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/sweep"
	"github.com/mpark/mpint/timestep"
	"github.com/spf13/cobra"
)

// VanDerPolCmd represents the vanderpol command
var VanDerPolCmd = &cobra.Command{
	Use:   "vanderpol <full-type> <reduced-type> <steps>",
	Short: "Van der Pol oscillator with mixed precision implicit midpoint",
	Long: `
Integrates the Van der Pol oscillator from [2, 0] with an implicit scheme,
solving each step's nonlinear system in the reduced precision and sweeping
the given step counts,

mpint vanderpol float64 float32 1,10,100,1000 `,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		paramFile, _ := cmd.Flags().GetString("paramFile")
		params, err := loadParams(paramFile)
		if err != nil {
			return err
		}
		ra, err := parseRunArgs(args, params)
		if err != nil {
			return err
		}
		alpha, _ := cmd.Flags().GetFloat64("alpha")
		if !cmd.Flags().Changed("alpha") && params.Alpha != 0 {
			alpha = params.Alpha
		}
		finalTime, _ := cmd.Flags().GetFloat64("finalTime")
		if !cmd.Flags().Changed("finalTime") && params.FinalTime != 0 {
			finalTime = params.FinalTime
		}
		c := VanDerPol.New(alpha, finalTime)
		if err := applyCommonFlags(cmd, params, &c.Scheme, &c.Method, &c.Tol, &c.MaxIter); err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("output")
		plotPath, _ := cmd.Flags().GetString("plot")
		trajPath, _ := cmd.Flags().GetString("trajectory")
		if outPath == "" {
			outPath = params.OutputFile
		}
		if plotPath == "" {
			plotPath = params.PlotFile
		}

		runner, err := vdpRunner(c, ra.Full, ra.Reduced)
		if err != nil {
			return err
		}
		fmt.Printf("Van der Pol: alpha = %g, finalTime = %g, %s/%s, %s -> %s\n",
			alpha, finalTime, c.Scheme, c.Method, ra.Full, ra.Reduced)

		if p := maybeProfile(); p != nil {
			defer p.Stop()
		}
		rs := sweep.Run("vanderpol", 0, finalTime, ra.StepCounts, runner)
		if outPath != "" {
			if err := sweep.WriteResults(outPath, rs); err != nil {
				return err
			}
		}
		if plotPath != "" || trajPath != "" {
			traj, err := vdpTrajectory(c, ra.Full, ra.Reduced, ra.StepCounts[len(ra.StepCounts)-1])
			if err != nil {
				return err
			}
			if trajPath != "" {
				if err := sweep.WriteTrajectory(trajPath, traj); err != nil {
					return err
				}
			}
			if plotPath != "" {
				title := fmt.Sprintf("Van der Pol phase portrait, alpha = %g", alpha)
				if err := sweep.PlotPhase(plotPath, title, traj); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(VanDerPolCmd)
	VanDerPolCmd.Flags().Float64P("alpha", "a", 1.0, "nonlinearity parameter of the oscillator")
	VanDerPolCmd.Flags().Float64("finalTime", 1.0, "FinalTime - the target end time for the integration")
	addCommonFlags(VanDerPolCmd)
}

// vdpRunner dispatches the generic instantiation for the requested
// precision pair. The reduced type can never be wider than the full type.
func vdpRunner(c *VanDerPol.VanDerPol, full, reduced precision.Kind) (sweep.Runner, error) {
	switch {
	case full == precision.Float64 && reduced == precision.Float64:
		return func(n int) ([]float64, timestep.Stats, error) {
			return VanDerPol.Integrate[float64, float64](c, n, nil, nil)
		}, nil
	case full == precision.Float64 && reduced == precision.Float32:
		return func(n int) ([]float64, timestep.Stats, error) {
			return VanDerPol.Integrate[float64, float32](c, n, nil, nil)
		}, nil
	case full == precision.Float64 && reduced == precision.BFloat16:
		return func(n int) ([]float64, timestep.Stats, error) {
			return VanDerPol.Integrate[float64, float32](c, n, precision.TruncateSliceBF16, nil)
		}, nil
	case full == precision.Float32 && reduced == precision.Float32:
		return func(n int) ([]float64, timestep.Stats, error) {
			y, st, err := VanDerPol.Integrate[float32, float32](c, n, nil, nil)
			return widenFinal(y), st, err
		}, nil
	case full == precision.Float32 && reduced == precision.BFloat16:
		return func(n int) ([]float64, timestep.Stats, error) {
			y, st, err := VanDerPol.Integrate[float32, float32](c, n, precision.TruncateSliceBF16, nil)
			return widenFinal(y), st, err
		}, nil
	default:
		return nil, fmt.Errorf("unsupported precision pair %s -> %s: reduced type must not be wider than full type", full, reduced)
	}
}

// vdpTrajectory reruns one step count with a sink recording every state,
// for the trajectory file and phase plot. Determinism makes the rerun
// bit-identical to the swept run.
func vdpTrajectory(c *VanDerPol.VanDerPol, full, reduced precision.Kind, nsteps int) (traj [][]float64, err error) {
	sink64 := func(t float64, y []float64) {
		traj = append(traj, append([]float64{}, y...))
	}
	sink32 := func(t float64, y []float32) {
		traj = append(traj, widenFinal(y))
	}
	switch {
	case full == precision.Float64 && reduced == precision.Float64:
		_, _, err = VanDerPol.Integrate[float64, float64](c, nsteps, nil, sink64)
	case full == precision.Float64 && reduced == precision.Float32:
		_, _, err = VanDerPol.Integrate[float64, float32](c, nsteps, nil, sink64)
	case full == precision.Float64 && reduced == precision.BFloat16:
		_, _, err = VanDerPol.Integrate[float64, float32](c, nsteps, precision.TruncateSliceBF16, sink64)
	case full == precision.Float32 && reduced == precision.Float32:
		_, _, err = VanDerPol.Integrate[float32, float32](c, nsteps, nil, sink32)
	case full == precision.Float32 && reduced == precision.BFloat16:
		_, _, err = VanDerPol.Integrate[float32, float32](c, nsteps, precision.TruncateSliceBF16, sink32)
	default:
		err = fmt.Errorf("unsupported precision pair %s -> %s", full, reduced)
	}
	return
}

func widenFinal(y []float32) (out []float64) {
	out = make([]float64, len(y))
	precision.Widen(y, out)
	return
}
