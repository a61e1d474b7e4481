// Package alerts evaluates threshold rules such as "oee < 0.6" or
// "status == Stopped" against every step of a computed dataset.
package alerts
