package loader

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// columnIndex maps each required header to its position in the header row.
type columnIndex map[string]int

// indexHeader locates every required column in header.
func indexHeader(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	idx := make(columnIndex, len(types.RequiredColumns))
	for _, col := range types.RequiredColumns {
		i, ok := pos[col]
		if !ok {
			return nil, &SchemaError{Column: col, Reason: "required column missing"}
		}
		idx[col] = i
	}
	return idx, nil
}

// parseRows converts raw rows (header first) into records.
// Fully blank rows are skipped; any other malformed row fails the parse.
func parseRows(rows [][]string) ([]types.ProductionRecord, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Reason: "source has no header row"}
	}
	idx, err := indexHeader(rows[0])
	if err != nil {
		return nil, err
	}

	recs := make([]types.ProductionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := parseRecord(idx, row, i+2)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseRecord(idx columnIndex, row []string, line int) (types.ProductionRecord, error) {
	p := rowParser{idx: idx, row: row, line: line}
	rec := types.ProductionRecord{
		Step:                    p.text(types.ColSteps),
		RunningStatus:           p.text(types.ColRunningStatus),
		CurrentLotNumber:        p.text(types.ColCurrentLotNumber),
		MaterialUsedKG:          p.number(types.ColMaterialUsed),
		WasteMaterialsKG:        p.number(types.ColWasteMaterials),
		CurrentLotRunTimeHours:  p.number(types.ColCurrentLotRunTime),
		ExpectedLotRunTimeHours: p.number(types.ColExpectedLotRunTime),
		ProcessDownTimeHours:    p.number(types.ColProcessDownTime),
		FailureRate:             p.number(types.ColFailureRate),
		UnitsProduced:           p.integer(types.ColUnitsProduced),
	}
	if p.err != nil {
		return types.ProductionRecord{}, p.err
	}
	if rec.Step == "" {
		return types.ProductionRecord{}, &SchemaError{Row: line, Column: types.ColSteps, Reason: "step identifier is empty"}
	}
	if rec.FailureRate < 0 || rec.FailureRate > 1 {
		slog.Warn("loader: failure rate outside [0,1], quality will be clamped",
			"row", line, "step", rec.Step, "failure_rate", rec.FailureRate)
	}
	return rec, nil
}

// rowParser extracts typed cells from one row, keeping the first error.
type rowParser struct {
	idx  columnIndex
	row  []string
	line int
	err  error
}

func (p *rowParser) cell(col string) string {
	i := p.idx[col]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) text(col string) string {
	return p.cell(col)
}

func (p *rowParser) number(col string) float64 {
	if p.err != nil {
		return 0
	}
	raw := p.cell(col)
	if raw == "" {
		p.fail(col, raw, "numeric value is empty")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, raw, "not a finite number")
		return 0
	}
	return v
}

func (p *rowParser) integer(col string) int64 {
	if p.err != nil {
		return 0
	}
	raw := p.cell(col)
	if raw == "" {
		p.fail(col, raw, "integer value is empty")
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	// Spreadsheets store every number as a float; accept 120.0 but not 120.5.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		p.fail(col, raw, "not an integer")
		return 0
	}
	return int64(f)
}

func (p *rowParser) fail(col, raw, reason string) {
	p.err = &SchemaError{Row: p.line, Column: col, Value: raw, Reason: reason}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

