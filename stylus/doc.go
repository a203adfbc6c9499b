// Package stylus maps stylus pose samples to image filter parameters.
//
// A [Sample] carries the azimuth and altitude angles reported by a stylus.
// While a filter [Mode] is selected and the stylus touches the surface, each
// sample updates two of the six [Parameters] fields; the other four keep
// their last values, so switching between modes never resets earlier
// adjustments.
//
// The [Controller] owns the parameters and the current mode. It is driven
// from a single goroutine and is not safe for concurrent use.
package stylus
