// Package aggregate reduces the four financial record collections into a
// Snapshot of derived metrics. Aggregation is all-or-nothing: a failed read or
// a malformed record yields a *common.DataError and no snapshot.
package aggregate
