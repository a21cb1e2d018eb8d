package scene

// Zoom scale bounds for the whole scene. Translation is unconstrained.
const (
	MinScale = 0.3
	MaxScale = 3.0
)

// Viewport is the uniform scene transform: screen = scene*Scale + T.
type Viewport struct {
	Scale  float64
	TX, TY float64
}

// NewViewport returns an identity viewport.
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

// ZoomAt scales the view by factor about the screen point (px, py), keeping
// the scene point under the pointer fixed. The resulting scale is clamped to
// [MinScale, MaxScale].
func (v *Viewport) ZoomAt(factor, px, py float64) {
	scale := clampScale(v.Scale * factor)
	if scale == v.Scale {
		return
	}

	sx, sy := v.ToScene(px, py)
	v.Scale = scale
	v.TX = px - sx*scale
	v.TY = py - sy*scale
}

// PanBy translates the view by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.TX += dx
	v.TY += dy
}

// ToScene converts screen coordinates to scene coordinates.
func (v Viewport) ToScene(px, py float64) (x, y float64) {
	return (px - v.TX) / v.Scale, (py - v.TY) / v.Scale
}

// ToScreen converts scene coordinates to screen coordinates.
func (v Viewport) ToScreen(x, y float64) (px, py float64) {
	return x*v.Scale + v.TX, y*v.Scale + v.TY
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
