package stylus

import "math"

// Sample is a single stylus pose reading.
type Sample struct {
	// Azimuth is the heading of the stylus projected onto the surface, in radians.
	Azimuth float64 `json:"azimuth"`

	// Altitude is the angle between stylus and surface, in radians: 0 is flat,
	// π/2 is upright. Input sources clamp it to [0, π/2].
	Altitude float64 `json:"altitude"`

	// Active is set while the stylus contacts the surface.
	Active bool `json:"active"`

	// X and Y locate the contact point in surface coordinates, both in [0, 1].
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tilt is the normalized tilt magnitude in [0, 1]: 0 upright, 1 flat.
func (s Sample) Tilt() float64 {
	return (math.Pi/2 - s.Altitude) / (math.Pi / 2)
}

// Heading returns the azimuth unit vector.
func (s Sample) Heading() (ux, uy float64) {
	return math.Cos(s.Azimuth), math.Sin(s.Azimuth)
}

// FromTilt converts a tilt angle pair (degrees, each in [-90, 90]) to azimuth
// and altitude in radians. Azimuth is returned in [0, 2π), altitude in [0, π/2].
//
// Tilt X is the angle between the Y-Z plane and the plane containing the
// stylus and the Y axis, tilt Y likewise for the X-Z plane.
func FromTilt(tiltX, tiltY float64) (azimuth, altitude float64) {
	tx := tiltX * math.Pi / 180
	ty := tiltY * math.Pi / 180

	switch {
	case tiltX == 0 && tiltY == 0:
		return 0, math.Pi / 2
	case math.Abs(tiltX) >= 90 || math.Abs(tiltY) >= 90:
		altitude = 0
	case tiltX == 0:
		altitude = math.Pi/2 - math.Abs(ty)
	case tiltY == 0:
		altitude = math.Pi/2 - math.Abs(tx)
	default:
		altitude = math.Atan(1 / math.Hypot(math.Tan(tx), math.Tan(ty)))
	}

	switch {
	case tiltX == 0 && tiltY > 0:
		azimuth = math.Pi / 2
	case tiltX == 0 && tiltY < 0:
		azimuth = 3 * math.Pi / 2
	case tiltY == 0 && tiltX < 0:
		azimuth = math.Pi
	case tiltY == 0:
		azimuth = 0
	case math.Abs(tiltX) >= 90 || math.Abs(tiltY) >= 90:
		azimuth = 0
	default:
		azimuth = math.Atan2(math.Tan(ty), math.Tan(tx))
		if azimuth < 0 {
			azimuth += 2 * math.Pi
		}
	}

	return azimuth, math.Max(0, math.Min(math.Pi/2, altitude))
}
