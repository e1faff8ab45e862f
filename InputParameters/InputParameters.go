package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// RunParameters obtained from the YAML input file. Command line flags
// override any field set here.
type RunParameters struct {
	Title            string  `yaml:"Title"`
	Problem          string  `yaml:"Problem"` // burgers | vanderpol
	FullPrecision    string  `yaml:"FullPrecision"`
	ReducedPrecision string  `yaml:"ReducedPrecision"`
	Scheme           string  `yaml:"Scheme"` // backward-euler | implicit-midpoint
	Method           string  `yaml:"Method"` // newton | broyden
	StepCounts       []int   `yaml:"StepCounts"`
	FinalTime        float64 `yaml:"FinalTime"`
	Alpha            float64 `yaml:"Alpha"`
	Nx               int     `yaml:"Nx"`
	XMin             float64 `yaml:"XMin"`
	XMax             float64 `yaml:"XMax"`
	Tolerance        float64 `yaml:"Tolerance"`
	MaxIterations    int     `yaml:"MaxIterations"`
	OutputFile       string  `yaml:"OutputFile"`
	PlotFile         string  `yaml:"PlotFile"`
}

func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t\t= Problem\n", rp.Problem)
	fmt.Printf("[%s -> %s]\t= Precision (full -> reduced)\n", rp.FullPrecision, rp.ReducedPrecision)
	fmt.Printf("[%s / %s]\t= Scheme / Method\n", rp.Scheme, rp.Method)
	fmt.Printf("%v\t\t= StepCounts\n", rp.StepCounts)
	fmt.Printf("%8.5f\t\t= FinalTime\n", rp.FinalTime)
	if rp.Problem == "vanderpol" {
		fmt.Printf("%8.5f\t\t= Alpha\n", rp.Alpha)
	} else {
		fmt.Printf("[%d] on [%g, %g)\t= Grid\n", rp.Nx, rp.XMin, rp.XMax)
	}
}
