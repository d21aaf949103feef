package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// SonarConfig is the fixed, immutable mounting geometry of one sonar: its
// id, mount position, and inward-pointing mount bearing. Sweep half-width
// is fixed at SonarSweepHalfWidthDeg for every sonar.
type SonarConfig struct {
	ID          string
	Mount       simmath.Vector2
	MountAngle  float64 // degrees, absolute bearing the sector is centered on
}

// AbsMin and AbsMax return the sector's absolute angle bounds.
func (c SonarConfig) AbsMin() float64 { return c.MountAngle - SonarSweepHalfWidthDeg }
func (c SonarConfig) AbsMax() float64 { return c.MountAngle + SonarSweepHalfWidthDeg }

// DefaultSonarConfigs returns the four corner-mounted sonars used by both
// engines, per spec §3: "Four sonars are placed at the four corners with
// mount angles pointing inward."
func DefaultSonarConfigs() []SonarConfig {
	return []SonarConfig{
		{ID: "sonar-sw", Mount: simmath.Vector2{X: 0, Y: 0}, MountAngle: 45},
		{ID: "sonar-se", Mount: simmath.Vector2{X: PoolWidth, Y: 0}, MountAngle: 135},
		{ID: "sonar-ne", Mount: simmath.Vector2{X: PoolWidth, Y: PoolLength}, MountAngle: 225},
		{ID: "sonar-nw", Mount: simmath.Vector2{X: 0, Y: PoolLength}, MountAngle: 315},
	}
}

// BearingFrom returns the absolute bearing in degrees, and the distance in
// meters, from this sonar's mount to point p.
func (c SonarConfig) BearingFrom(p simmath.Vector2) (bearingDeg, dist float64) {
	d := p.Sub(c.Mount)
	return d.Angle(), d.Norm()
}

// RelativeBearing returns the signed bearing of p relative to the mount
// angle, in (-180, 180].
func (c SonarConfig) RelativeBearing(p simmath.Vector2) float64 {
	abs, _ := c.BearingFrom(p)
	return simmath.SignedDeltaDeg(abs, c.MountAngle)
}

// InSector reports whether p's bearing from the mount falls inside the
// sonar's 90-degree sector.
func (c SonarConfig) InSector(p simmath.Vector2) bool {
	rel := c.RelativeBearing(p)
	return rel >= -SonarSweepHalfWidthDeg && rel <= SonarSweepHalfWidthDeg
}
