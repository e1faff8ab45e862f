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
	"os"
	"strconv"
	"strings"

	"github.com/mpark/mpint/InputParameters"
	"github.com/mpark/mpint/precision"
	"github.com/mpark/mpint/timestep"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runArgs is the surface shared by both model commands: the positional
// datatype/step-count arguments plus the common flags, all validated
// before any compute begins.
type runArgs struct {
	Full, Reduced precision.Kind
	StepCounts    []int
}

// parseRunArgs validates the three positional arguments:
// <full-type> <reduced-type> <steps>, with steps a scalar or comma list.
func parseRunArgs(args []string, params *InputParameters.RunParameters) (ra runArgs, err error) {
	fullName, reducedName := params.FullPrecision, params.ReducedPrecision
	stepsArg := ""
	if len(args) >= 1 {
		fullName = args[0]
	}
	if len(args) >= 2 {
		reducedName = args[1]
	}
	if len(args) >= 3 {
		stepsArg = args[2]
	}
	if fullName == "" || reducedName == "" {
		err = fmt.Errorf("missing datatype arguments: want <full-type> <reduced-type> <steps>")
		return
	}
	if ra.Full, err = precision.ParseKind(fullName); err != nil {
		return
	}
	if ra.Reduced, err = precision.ParseKind(reducedName); err != nil {
		return
	}
	if stepsArg != "" {
		if ra.StepCounts, err = parseStepCounts(stepsArg); err != nil {
			return
		}
	} else {
		ra.StepCounts = params.StepCounts
	}
	if len(ra.StepCounts) == 0 {
		err = fmt.Errorf("no step counts given")
	}
	return
}

func parseStepCounts(arg string) (counts []int, err error) {
	for _, tok := range strings.Split(arg, ",") {
		n, convErr := strconv.Atoi(strings.TrimSpace(tok))
		if convErr != nil || n < 1 {
			err = fmt.Errorf("bad step count %q: want a positive integer or comma list", tok)
			return
		}
		counts = append(counts, n)
	}
	return
}

// loadParams reads the optional YAML parameters file named by the -f flag.
func loadParams(path string) (params *InputParameters.RunParameters, err error) {
	params = &InputParameters.RunParameters{}
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading parameters file %q: %w", path, err)
		return
	}
	if err = params.Parse(data); err != nil {
		err = fmt.Errorf("parsing parameters file %q: %w", path, err)
		return
	}
	params.Print()
	return
}

// addCommonFlags registers the flags both model commands share.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("scheme", "", "time stepping scheme: backward-euler or implicit-midpoint")
	cmd.Flags().String("method", "", "nonlinear solver: newton or broyden")
	cmd.Flags().Float64("tol", 0, "inner solve convergence tolerance on the residual infinity norm")
	cmd.Flags().Int("maxIter", 0, "inner iteration cap (default 20)")
	cmd.Flags().StringP("output", "o", "", "write per-step-count results [dt, final...] to this file")
	cmd.Flags().StringP("plot", "p", "", "render the solution to this image file (format by extension)")
	cmd.Flags().String("trajectory", "", "write the largest run's per-step trajectory to this file")
	cmd.Flags().StringP("paramFile", "f", "", "YAML run parameters file; flags override its fields")
}

// applyCommonFlags resolves scheme/method/tolerance settings against the
// parameters file, leaving the model's defaults in place when neither
// names a value.
func applyCommonFlags(cmd *cobra.Command, params *InputParameters.RunParameters,
	scheme *timestep.Scheme, method *timestep.Method, tol *float64, maxIter *int) (err error) {
	schemeName, _ := cmd.Flags().GetString("scheme")
	if schemeName == "" {
		schemeName = params.Scheme
	}
	if schemeName != "" {
		if *scheme, err = timestep.ParseScheme(schemeName); err != nil {
			return
		}
	}
	methodName, _ := cmd.Flags().GetString("method")
	if methodName == "" {
		methodName = params.Method
	}
	if methodName != "" {
		if *method, err = timestep.ParseMethod(methodName); err != nil {
			return
		}
	}
	*tol, _ = cmd.Flags().GetFloat64("tol")
	if *tol == 0 {
		*tol = params.Tolerance
	}
	*maxIter, _ = cmd.Flags().GetInt("maxIter")
	if *maxIter == 0 {
		*maxIter = params.MaxIterations
	}
	return
}

// maybeProfile starts CPU profiling when --profile is set; the caller
// stops it after the sweep.
func maybeProfile() interface{ Stop() } {
	if viper.GetBool("profile") {
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}
	return nil
}
