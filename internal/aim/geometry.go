package aim

import "math"

// Window is the screen rectangle the character is centered in.
type Window struct {
	X, Y          float64
	Width, Height float64
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a stick direction in math convention (Y up).
type Vector struct {
	X, Y float64
}

// Radii are the circle radii in pixels.
type Radii struct {
	Walk  float64
	Close float64
	Mid   float64
	Far   float64
}

// Geometry maps stick angles to screen positions around the character.
type Geometry struct {
	Radii       Radii
	OffsetX     float64
	OffsetY     float64
	Sensitivity float64
}

// RadialPosition returns the point radius pixels from the character along
// angle. Screen Y grows downward, so the angle's Y component is subtracted.
func (g Geometry) RadialPosition(radius, angle float64, win Window) Point {
	dx := math.Cos(angle) * radius
	dy := math.Sin(angle) * radius
	return Point{
		X: win.Width/2 + dx + g.OffsetX + win.X,
		Y: win.Height/2 - dy - g.OffsetY + win.Y,
	}
}

// Distance returns the radius for a tier. TierNone uses the walk circle.
func (g Geometry) Distance(t Tier) float64 {
	switch t {
	case TierClose:
		return g.Radii.Close
	case TierMid:
		return g.Radii.Mid
	case TierFar:
		return g.Radii.Far
	}
	return g.Radii.Walk
}

// FreeAim nudges the cursor along dir. Without a known cursor position the
// result is the origin.
func (g Geometry) FreeAim(dir Vector, cur Point, ok bool) Point {
	if !ok {
		return Point{}
	}
	return Point{
		X: cur.X + dir.X*g.Sensitivity,
		Y: cur.Y - dir.Y*g.Sensitivity,
	}
}

// ClampToWindow keeps p inside the client area of win.
func ClampToWindow(p Point, win Window, in Insets) Point {
	minX, maxX := win.X+in.Shadow, win.X+win.Width-in.Shadow
	minY, maxY := win.Y+in.TitleBar, win.Y+win.Height-in.Shadow
	return Point{
		X: clamp(p.X, minX, maxX),
		Y: clamp(p.Y, minY, maxY),
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
