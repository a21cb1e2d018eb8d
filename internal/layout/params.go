// Package layout positions a flattened insight graph with an iterative force
// simulation: link springs, many-body repulsion, centering, and collision
// separation, integrated with velocity damping under an exponentially
// cooling activity budget.
package layout

// Params tunes the simulation forces and cooling schedule.
type Params struct {
	// LinkDistanceRoot is the target separation for edges incident to the
	// root; LinkDistance applies to deeper edges. The two tiers produce the
	// radial hierarchy.
	LinkDistanceRoot float64
	LinkDistance     float64
	LinkStrength     float64

	// ChargeStrength is the many-body repulsion, negative to spread
	// unrelated branches apart.
	ChargeStrength float64

	// CenterStrength pulls the node ensemble toward the canvas center.
	CenterStrength float64

	// Visual radii; collision enforces radius + CollidePadding separation.
	RootRadius     float64
	ChildRadius    float64
	CollidePadding float64

	// Cooling schedule. The simulation is quiescent once alpha drops below
	// AlphaMin while AlphaTarget is also below it.
	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64

	// ReheatAlpha is the activity restored when a drag gesture starts or a
	// pin is released during cooling.
	ReheatAlpha float64

	// CollideIterations controls how many relaxation passes the collision
	// constraint runs per tick.
	CollideIterations int
}

// DefaultParams returns the standard force tuning.
func DefaultParams() Params {
	return Params{
		LinkDistanceRoot:  250,
		LinkDistance:      160,
		LinkStrength:      1.2,
		ChargeStrength:    -1200,
		CenterStrength:    1.0,
		RootRadius:        120,
		ChildRadius:       70,
		CollidePadding:    10,
		AlphaMin:          0.001,
		AlphaDecay:        0.0228, // 1 - pow(AlphaMin, 1/300)
		VelocityDecay:     0.4,
		ReheatAlpha:       0.3,
		CollideIterations: 3,
	}
}

// DefaultWidth and DefaultHeight size the canvas when the caller has no
// viewport of its own.
const (
	DefaultWidth  = 1200
	DefaultHeight = 880
)
