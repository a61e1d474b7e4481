package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook returns the raw cell text of one worksheet. Cells are read
// unformatted so a failure rate stored as 0.02 is not rendered as "2%".
func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if i, err := f.GetSheetIndex(sheet); err != nil || i < 0 {
		return nil, &SchemaError{Reason: fmt.Sprintf("worksheet %q not found", sheet)}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	return rows, nil
}
