package loader

import (
	"encoding/csv"
	"fmt"
	"os"
)

// readCSV returns every record of a delimited text file.
func readCSV(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if comma != 0 {
		r.Comma = comma
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("malformed csv: %v", err)}
	}
	return rows, nil
}
