package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/BarCut/internal/model"
)

var csvHeader = []string{"diameter", "bar", "identifier", "length", "start", "end", "remaining", "utilization"}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// WriteCSV writes one row per cut.
func WriteCSV(w io.Writer, result model.OptimizeResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range result.CuttingPlan {
		for _, c := range b.Cuts {
			record := []string{
				strconv.Itoa(b.Diameter),
				strconv.Itoa(b.ID),
				c.Identifier,
				formatFloat(c.Length, 3),
				formatFloat(c.Start, 3),
				formatFloat(c.End, 3),
				formatFloat(b.Remaining, 3),
				formatFloat(b.Utilization, 2),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the cutting plan as CSV to path.
func ExportCSV(path string, result model.OptimizeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRequirementsCSV writes a schedule in the column order the importer
// reads back.
func WriteRequirementsCSV(w io.Writer, reqs []model.Requirement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Bar Mark", "Diameter (mm)", "Cut Length (m)", "Quantity", "Note"}); err != nil {
		return err
	}
	for _, r := range reqs {
		if err := cw.Write([]string{r.Identifier, strconv.Itoa(r.Diameter), strconv.FormatFloat(r.Length, 'f', -1, 64),
			strconv.Itoa(r.Quantity), r.Note}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
