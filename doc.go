// Package pencil drives image filters with a stylus.
//
// The stylus pose (azimuth and altitude) is mapped onto a pair of filter
// parameters selected by a held filter button: hue and saturation,
// brightness and contrast, or gamma and exposure. An [App] applies the
// parameters to a source image and shows the result, with a status line and
// a pose indicator, on a display.
package pencil
