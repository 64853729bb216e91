// Package export writes production plans in file formats consumed by
// external tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/powerplan/core/model"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Write writes plan to w in the given format.
func Write(w io.Writer, format string, plan model.Plan) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, plan)
	case FormatCSV:
		return WriteCSV(w, plan)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes the plan to w as an indented JSON array.
func WriteJSON(w io.Writer, plan model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes the plan to w in CSV format, one row per plant.
func WriteCSV(w io.Writer, plan model.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "p"}); err != nil {
		return err
	}
	for _, it := range plan {
		rec := []string{
			it.Name,
			strconv.FormatFloat(it.Power, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
