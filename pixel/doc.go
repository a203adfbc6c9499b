// Package pixel implements packed color models and images for TFT panels and
// framebuffers.
//
// The types are compatible with Go's native [color.Color], [image.Image] and
// [draw.Image] interfaces, so filtered frames can be drawn onto a panel's
// memory with the standard library's draw routines.
package pixel
