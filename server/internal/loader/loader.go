package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// Options tunes how a source is read.
type Options struct {
	// Sheet names the worksheet to read from a workbook. Empty selects the
	// first sheet. Ignored for CSV sources.
	Sheet string

	// Comma is the CSV field delimiter. Zero means ','.
	Comma rune
}

// Load reads every production record from the source at path, in row order.
func Load(path string, opts Options) ([]types.ProductionRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loader: %q: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("loader: stat %q: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path, opts.Sheet)
	case ".csv":
		rows, err = readCSV(path, opts.Comma)
	default:
		return nil, fmt.Errorf("loader: %q: %w", path,
			&SchemaError{Reason: fmt.Sprintf("unsupported file type %q: want .xlsx, .xlsm or .csv", ext)})
	}
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}

	recs, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}

	slog.Info("loader: source loaded", "path", path, "records", len(recs))
	return recs, nil
}
