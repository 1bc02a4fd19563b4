// Package listview provides a scrolling list for Bubble Tea that only renders
// the rows in view and survives its items being replaced.
package listview
