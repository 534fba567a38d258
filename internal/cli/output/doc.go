// Package output renders command results for xpconnect-host.
//
// Results are flattened into dotted key/value settings and written as an
// aligned table, JSON or YAML.
package output
