// Package stats implements the statistics engine: pixel neighborhoods, line
// profiles, histograms and row/column projections over TypedImages.
//
// Every scalar summary uses the population standard deviation (divide by N)
// and the midpoint median (the mean of the two middle values for even N).
package stats
