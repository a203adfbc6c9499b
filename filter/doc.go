// Package filter implements the color filter chain driven by stylus parameters.
//
// The chain applies, in order: hue rotation, saturation/brightness/contrast
// adjustment, exposure adjustment and gamma adjustment. All stages operate on
// straight (non-premultiplied) color values in the image's own encoding; no
// color management or linearization takes place.
//
// The first three stages are affine and are folded into a single [Matrix],
// which yields the same result as running them one after the other because
// intermediate values are never clamped.
package filter
