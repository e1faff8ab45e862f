package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	doc := `
Title: vdp mixed precision study
Problem: vanderpol
FullPrecision: float64
ReducedPrecision: float32
Scheme: implicit-midpoint
Method: newton
StepCounts: [1, 10, 100, 1000]
FinalTime: 1.0
Alpha: 1.0
OutputFile: 64_32_sol.txt
`
	var rp RunParameters
	assert.NoError(t, rp.Parse([]byte(doc)))
	assert.Equal(t, "vanderpol", rp.Problem)
	assert.Equal(t, "float32", rp.ReducedPrecision)
	assert.Equal(t, []int{1, 10, 100, 1000}, rp.StepCounts)
	assert.Equal(t, 1.0, rp.FinalTime)
	assert.Equal(t, "64_32_sol.txt", rp.OutputFile)
}

func TestParseBadDocument(t *testing.T) {
	var rp RunParameters
	assert.Error(t, rp.Parse([]byte("StepCounts: notalist")))
}
