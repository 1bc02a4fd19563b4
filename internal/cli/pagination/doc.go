// Package pagination applies --limit and --offset to projected user lists
// and describes the slice that was returned.
package pagination
