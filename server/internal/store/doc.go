// Package store holds computed datasets for the lifetime of the process.
// Entries are keyed by source identity (the cleaned absolute path) and are
// never evicted; GetOrLoad runs the load function at most once per key even
// under concurrent callers.
package store
