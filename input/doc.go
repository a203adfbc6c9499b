// Package input turns stylus hardware, recordings and browser pointer events
// into [stylus.Event] values.
//
// All sources share one JSON message format:
//
//	{"type":"press","mode":"gamma-exposure"}
//	{"type":"release"}
//	{"type":"lift"}
//	{"type":"sample","azimuth":0.5,"altitude":1.2,"active":true,"x":0.4,"y":0.6}
//	{"type":"sample","tilt_x":30,"tilt_y":-10,"active":true}
//
// Angles are radians; tilt_x and tilt_y are degrees in [-90, 90] and replace
// azimuth and altitude when present.
package input
