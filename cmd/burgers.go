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
	"math"

	"github.com/mpark/mpint/model_problems/Burgers1D"
	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/sweep"
	"github.com/mpark/mpint/timestep"
	"github.com/spf13/cobra"
)

// BurgersCmd represents the burgers command
var BurgersCmd = &cobra.Command{
	Use:   "burgers <full-type> <reduced-type> <steps>",
	Short: "Burgers' equation with mixed precision implicit stepping",
	Long: `
Integrates the inviscid Burgers' equation from u0 = sin(x) on a periodic
grid, differentiating in space with the dense spectral operator and solving
each implicit step's nonlinear system in the reduced precision,

mpint burgers float64 float32 100,1000 --nx 101 `,
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
		nx, _ := cmd.Flags().GetInt("nx")
		if !cmd.Flags().Changed("nx") && params.Nx != 0 {
			nx = params.Nx
		}
		xmin, _ := cmd.Flags().GetFloat64("xmin")
		xmax, _ := cmd.Flags().GetFloat64("xmax")
		if !cmd.Flags().Changed("xmax") && params.XMax != 0 {
			xmin, xmax = params.XMin, params.XMax
		}
		finalTime, _ := cmd.Flags().GetFloat64("finalTime")
		if !cmd.Flags().Changed("finalTime") && params.FinalTime != 0 {
			finalTime = params.FinalTime
		}
		c, err := Burgers1D.New(nx, xmin, xmax, finalTime)
		if err != nil {
			return err
		}
		if err := applyCommonFlags(cmd, params, &c.Scheme, &c.Method, &c.Tol, &c.MaxIter); err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("output")
		plotPath, _ := cmd.Flags().GetString("plot")
		if outPath == "" {
			outPath = params.OutputFile
		}
		if plotPath == "" {
			plotPath = params.PlotFile
		}

		runner, err := burgersRunner(c, ra.Full, ra.Reduced)
		if err != nil {
			return err
		}
		fmt.Printf("Burgers: Nx = %d on [%g, %g), finalTime = %g, %s/%s, %s -> %s\n",
			nx, xmin, xmax, finalTime, c.Scheme, c.Method, ra.Full, ra.Reduced)

		if p := maybeProfile(); p != nil {
			defer p.Stop()
		}
		rs := sweep.Run("burgers", 0, finalTime, ra.StepCounts, runner)
		if outPath != "" {
			if err := sweep.WriteResults(outPath, rs); err != nil {
				return err
			}
		}
		if plotPath != "" {
			last := rs.Results[len(rs.Results)-1]
			if last.Err != nil || last.Final == nil {
				return fmt.Errorf("no completed run to plot")
			}
			title := fmt.Sprintf("Burgers' waveform, t = %g, N = %d", finalTime, last.Steps)
			if err := sweep.PlotWaveform(plotPath, title, c.X.Data(), last.Final); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(BurgersCmd)
	BurgersCmd.Flags().IntP("nx", "n", 101, "grid point count, must be odd")
	BurgersCmd.Flags().Float64("xmin", 0, "left edge of the periodic domain")
	BurgersCmd.Flags().Float64("xmax", 2*math.Pi, "right edge of the periodic domain (excluded)")
	BurgersCmd.Flags().Float64("finalTime", 1.75, "FinalTime - the target end time for the integration")
	addCommonFlags(BurgersCmd)
}

func burgersRunner(c *Burgers1D.Burgers, full, reduced precision.Kind) (sweep.Runner, error) {
	switch {
	case full == precision.Float64 && reduced == precision.Float64:
		return func(n int) ([]float64, timestep.Stats, error) {
			return Burgers1D.Integrate[float64, float64](c, n, nil, nil)
		}, nil
	case full == precision.Float64 && reduced == precision.Float32:
		return func(n int) ([]float64, timestep.Stats, error) {
			return Burgers1D.Integrate[float64, float32](c, n, nil, nil)
		}, nil
	case full == precision.Float64 && reduced == precision.BFloat16:
		return func(n int) ([]float64, timestep.Stats, error) {
			return Burgers1D.Integrate[float64, float32](c, n, precision.TruncateSliceBF16, nil)
		}, nil
	case full == precision.Float32 && reduced == precision.Float32:
		return func(n int) ([]float64, timestep.Stats, error) {
			y, st, err := Burgers1D.Integrate[float32, float32](c, n, nil, nil)
			return widenFinal(y), st, err
		}, nil
	case full == precision.Float32 && reduced == precision.BFloat16:
		return func(n int) ([]float64, timestep.Stats, error) {
			y, st, err := Burgers1D.Integrate[float32, float32](c, n, precision.TruncateSliceBF16, nil)
			return widenFinal(y), st, err
		}, nil
	default:
		return nil, fmt.Errorf("unsupported precision pair %s -> %s: reduced type must not be wider than full type", full, reduced)
	}
}
