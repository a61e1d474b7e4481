package types

// Source column headers. Matching is exact and case-sensitive.
const (
	ColSteps              = "Steps"
	ColRunningStatus      = "Running Status"
	ColCurrentLotNumber   = "Current lot Number"
	ColMaterialUsed       = "Material Used (KG)"
	ColWasteMaterials     = "Waste Materials (KG)"
	ColCurrentLotRunTime  = "Current Lot Run Time (Hours)"
	ColExpectedLotRunTime = "Expected Lot Run Time (Hours)"
	ColProcessDownTime    = "Process Down time"
	ColFailureRate        = "Failure Rate"
	ColUnitsProduced      = "Units produced"
)

// RequiredColumns lists every header a source must carry, in display order.
var RequiredColumns = []string{
	ColSteps,
	ColRunningStatus,
	ColCurrentLotNumber,
	ColMaterialUsed,
	ColWasteMaterials,
	ColCurrentLotRunTime,
	ColExpectedLotRunTime,
	ColProcessDownTime,
	ColFailureRate,
	ColUnitsProduced,
}

// ProductionRecord is one production step as read from the source.
type ProductionRecord struct {
	Step                    string  `json:"step"`
	RunningStatus           string  `json:"running_status"`
	CurrentLotNumber        string  `json:"current_lot_number"`
	MaterialUsedKG          float64 `json:"material_used_kg"`
	WasteMaterialsKG        float64 `json:"waste_materials_kg"`
	CurrentLotRunTimeHours  float64 `json:"current_lot_run_time_hours"`
	ExpectedLotRunTimeHours float64 `json:"expected_lot_run_time_hours"`
	ProcessDownTimeHours    float64 `json:"process_down_time_hours"`
	FailureRate             float64 `json:"failure_rate"`
	UnitsProduced           int64   `json:"units_produced"`
}

// Metrics holds the derived OEE components for one record.
// Every field is in the range 0–1.
type Metrics struct {
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`
}

// Row is a ProductionRecord together with its derived Metrics.
type Row struct {
	ProductionRecord
	Metrics
}

// Table is the computed dataset in source row order.
// Callers must treat a Table as read-only once it has been built.
type Table []Row
