package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	homedir "github.com/mitchellh/go-homedir"
)

// WriteResults writes one row per step count: [dt, final components...],
// comma delimited, the *_sol.txt layout the error study scripts consume.
// Failed runs are skipped; numerical values are written as-is, including
// NaN/Inf from a poisoned run.
func WriteResults(path string, rs ResultSet) error {
	return writeRows(path, ',', resultRows(rs))
}

func resultRows(rs ResultSet) (rows [][]float64) {
	for _, r := range rs.Results {
		if r.Err != nil {
			continue
		}
		row := make([]float64, 0, len(r.Final)+1)
		row = append(row, r.Dt)
		row = append(row, r.Final...)
		rows = append(rows, row)
	}
	return
}

// WriteTrajectory writes the per-step states of a single run, tab
// delimited, the output.txt layout.
func WriteTrajectory(path string, traj [][]float64) error {
	return writeRows(path, '\t', traj)
}

func writeRows(path string, delim rune, rows [][]float64) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding output path %q: %w", path, err)
	}
	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", expanded, err)
	}
	w := csv.NewWriter(f)
	w.Comma = delim
	record := []string{}
	for _, row := range rows {
		record = record[:0]
		for _, val := range row {
			record = append(record, strconv.FormatFloat(val, 'e', 17, 64))
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("writing output file %q: %w", expanded, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing output file %q: %w", expanded, err)
	}
	return f.Close()
}
