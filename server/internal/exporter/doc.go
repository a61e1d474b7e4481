// Package exporter exposes the computed OEE table in the Prometheus text
// format, so plant dashboards built on Prometheus/Grafana can scrape the
// same figures the web UI shows.
//
// Handler(provider, targets) serves GET /metrics. Per-step gauges carry
// step, status and row labels; row is the 1-based position in the source
// so repeated step identifiers stay distinct series.
package exporter
