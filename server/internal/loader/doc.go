// Package loader reads the production-line spreadsheet into typed records.
//
// Load(path, opts) picks a reader by file extension (.xlsx/.xlsm via
// excelize, .csv via encoding/csv), locates the required columns by exact
// header name and parses every data row. Loading is all-or-nothing: a
// missing column or an unparseable cell aborts the whole load with a
// *SchemaError, and a path that does not exist returns ErrSourceNotFound.
package loader
