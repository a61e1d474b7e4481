package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/oeeboard/oeeboard/pkg/types"
)

const header = "Steps,Running Status,Current lot Number,Material Used (KG),Waste Materials (KG)," +
	"Current Lot Run Time (Hours),Expected Lot Run Time (Hours),Process Down time,Failure Rate,Units produced\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// writeWorkbook saves rows (header first) to a new .xlsx in a temp dir.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("SetSheetName: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "line.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return p
}

func headerRow() []interface{} {
	out := make([]interface{}, len(types.RequiredColumns))
	for i, c := range types.RequiredColumns {
		out[i] = c
	}
	return out
}

// --- CSV --------------------------------------------------------------------

func TestLoad_CSV(t *testing.T) {
	p := writeFile(t, "line.csv", header+
		"1,Running,L-100,120.5,3.5,8,10,1,0.02,500\n"+
		"2,Stopped,L-101,80,4,0,0,0,0.1,0\n")

	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	want := types.ProductionRecord{
		Step:                    "1",
		RunningStatus:           "Running",
		CurrentLotNumber:        "L-100",
		MaterialUsedKG:          120.5,
		WasteMaterialsKG:        3.5,
		CurrentLotRunTimeHours:  8,
		ExpectedLotRunTimeHours: 10,
		ProcessDownTimeHours:    1,
		FailureRate:             0.02,
		UnitsProduced:           500,
	}
	if recs[0] != want {
		t.Errorf("recs[0] = %+v, want %+v", recs[0], want)
	}
	if recs[1].Step != "2" || recs[1].RunningStatus != "Stopped" {
		t.Errorf("recs[1] = %+v, want step 2 Stopped", recs[1])
	}
}

func TestLoad_CSV_ColumnOrderAndExtras(t *testing.T) {
	p := writeFile(t, "line.csv",
		"Units produced,Notes,Failure Rate,Process Down time,Expected Lot Run Time (Hours),"+
			"Current Lot Run Time (Hours),Waste Materials (KG),Material Used (KG),Current lot Number,Running Status,Steps\n"+
			"42,ignored,0.5,2,4,3,1,10,L-9,Idle,S9\n")

	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 1 || recs[0].Step != "S9" || recs[0].UnitsProduced != 42 || recs[0].FailureRate != 0.5 {
		t.Errorf("recs = %+v", recs)
	}
}

func TestLoad_CSV_SemicolonDelimiter(t *testing.T) {
	p := writeFile(t, "line.csv", strings.ReplaceAll(header, ",", ";")+
		"1;Running;L-1;1;0;1;1;0;0;1\n")
	recs, err := Load(p, Options{Comma: ';'})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len = %d, want 1", len(recs))
	}
}

func TestLoad_HeaderOnly_EmptyTable(t *testing.T) {
	p := writeFile(t, "line.csv", header)
	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}

func TestLoad_SkipsBlankRows(t *testing.T) {
	p := writeFile(t, "line.csv", header+
		"1,Running,L-1,1,0,1,1,0,0,1\n"+
		",,,,,,,,,\n")
	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len = %d, want 1", len(recs))
	}
}

func TestLoad_UnitsAsWholeFloat(t *testing.T) {
	p := writeFile(t, "line.csv", header+"1,Running,L-1,1,0,1,1,0,0,120.0\n")
	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if recs[0].UnitsProduced != 120 {
		t.Errorf("UnitsProduced = %d, want 120", recs[0].UnitsProduced)
	}
}

// --- failures ---------------------------------------------------------------

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	p := writeFile(t, "line.csv", strings.Replace(header, "Failure Rate", "Fail Rate", 1)+
		"1,Running,L-1,1,0,1,1,0,0,1\n")

	_, err := Load(p, Options{})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || se.Column != types.ColFailureRate {
		t.Errorf("SchemaError = %+v, want column %q", se, types.ColFailureRate)
	}
}

func TestLoad_ColumnNameIsCaseSensitive(t *testing.T) {
	p := writeFile(t, "line.csv", strings.Replace(header, "Process Down time", "Process Down Time", 1))
	if _, err := Load(p, Options{}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoad_NonNumericCell_FailsWholeLoad(t *testing.T) {
	p := writeFile(t, "line.csv", header+
		"1,Running,L-1,1,0,1,1,0,0,1\n"+
		"2,Running,L-2,abc,0,1,1,0,0,1\n")

	recs, err := Load(p, Options{})
	if recs != nil {
		t.Errorf("recs = %+v, want nil on failure", recs)
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if se.Row != 3 || se.Column != types.ColMaterialUsed || se.Value != "abc" {
		t.Errorf("SchemaError = %+v, want row 3 %q value abc", se, types.ColMaterialUsed)
	}
}

func TestLoad_RejectsBadCells(t *testing.T) {
	tests := []struct {
		name string
		row  string
		col  string
	}{
		{"empty number", "1,Running,L-1,,0,1,1,0,0,1\n", types.ColMaterialUsed},
		{"NaN", "1,Running,L-1,1,0,NaN,1,0,0,1\n", types.ColCurrentLotRunTime},
		{"Inf", "1,Running,L-1,1,0,1,Inf,0,0,1\n", types.ColExpectedLotRunTime},
		{"fractional units", "1,Running,L-1,1,0,1,1,0,0,12.5\n", types.ColUnitsProduced},
		{"text units", "1,Running,L-1,1,0,1,1,0,0,many\n", types.ColUnitsProduced},
		{"empty step", ",Running,L-1,1,0,1,1,0,0,1\n", types.ColSteps},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, "line.csv", header+tc.row)
			_, err := Load(p, Options{})
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *SchemaError", err)
			}
			if se.Column != tc.col {
				t.Errorf("column = %q, want %q", se.Column, tc.col)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	p := writeFile(t, "line.json", "{}")
	if _, err := Load(p, Options{}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	p := writeFile(t, "line.csv", "")
	if _, err := Load(p, Options{}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

// --- XLSX -------------------------------------------------------------------

func TestLoad_Workbook(t *testing.T) {
	p := writeWorkbook(t, "Sheet1", [][]interface{}{
		headerRow(),
		{1, "Running", "L-100", 120.5, 3.5, 8, 10, 1, 0.02, 500},
		{2, "Stopped", "L-101", 80, 4, 12, 10, 0, 0, 250},
	})

	recs, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Step != "1" || recs[0].FailureRate != 0.02 || recs[0].MaterialUsedKG != 120.5 {
		t.Errorf("recs[0] = %+v", recs[0])
	}
	if recs[1].CurrentLotRunTimeHours != 12 || recs[1].UnitsProduced != 250 {
		t.Errorf("recs[1] = %+v", recs[1])
	}
}

func TestLoad_Workbook_NamedSheet(t *testing.T) {
	p := writeWorkbook(t, "AS2 5001", [][]interface{}{
		headerRow(),
		{"A", "Running", "L-1", 1, 0, 1, 1, 0, 0, 1},
	})

	recs, err := Load(p, Options{Sheet: "AS2 5001"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 1 || recs[0].Step != "A" {
		t.Errorf("recs = %+v", recs)
	}

	if _, err := Load(p, Options{Sheet: "Missing"}); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("missing sheet err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoad_Workbook_MissingColumn(t *testing.T) {
	hdr := headerRow()[:9] // drop "Units produced"
	p := writeWorkbook(t, "Sheet1", [][]interface{}{
		hdr,
		{1, "Running", "L-1", 1, 0, 1, 1, 0, 0},
	})
	_, err := Load(p, Options{})
	var se *SchemaError
	if !errors.As(err, &se) || se.Column != types.ColUnitsProduced {
		t.Fatalf("err = %v, want missing %q", err, types.ColUnitsProduced)
	}
}

func TestLoad_Workbook_Corrupt(t *testing.T) {
	p := writeFile(t, "line.xlsx", "not a zip archive")
	if _, err := Load(p, Options{}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoad_Deterministic(t *testing.T) {
	p := writeFile(t, "line.csv", header+
		"1,Running,L-1,10,1,8,10,1,0.02,500\n"+
		"2,Idle,L-2,5,0.5,3,4,0.5,0.01,90\n")
	a, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
