// Package lighting provides the directional sun used to shade the terrain.
package lighting

import "math"

// Sun places a directional light by compass angle and height above the
// horizon, both in degrees. Azimuth 0 points down +Z and 90 down +X.
type Sun struct {
	Azimuth   float32
	Elevation float32
}

// ToSun returns the normalized vector pointing from the ground towards the sun.
func (s Sun) ToSun() [3]float32 {
	az := float64(s.Azimuth) * math.Pi / 180
	el := float64(s.Elevation) * math.Pi / 180

	return [3]float32{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Direction returns the direction the light travels, the form the terrain
// shader expects.
func (s Sun) Direction() [3]float32 {
	d := s.ToSun()
	return [3]float32{-d[0], -d[1], -d[2]}
}
