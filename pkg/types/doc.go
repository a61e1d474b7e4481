// Package types defines the shared Go types for production-line data.
// ProductionRecord mirrors one row of the source spreadsheet; Row pairs it
// with the derived OEE metrics and Table is the ordered, read-only dataset
// handed to the API layer.
package types
