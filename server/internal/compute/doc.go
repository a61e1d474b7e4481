// Package compute derives Overall Equipment Effectiveness metrics from
// production records and answers the read-only queries the dashboard needs.
//
// oee.go provides the pure Compute(Input) function: availability,
// performance and quality are each clamped to 0–1 and multiplied into OEE.
// A ratio with a zero denominator is undefined and contributes 0, so a step
// with no expected run time always reports OEE 0.
//
// engine.go applies Compute to every record of a table, sequentially or on a
// bounded worker pool. Both paths produce identical tables.
//
// query.go filters a computed table by running status and minimum OEE and
// computes means, sums and best/worst steps. Aggregates over an empty subset
// are reported as invalid rather than 0.
//
// OEE classes: world class ≥85%, typical 60–84%, low <60%.
package compute
