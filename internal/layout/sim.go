package layout

import (
	"iter"
	"math"
	"math/rand/v2"

	"github.com/bubbledive/sparkmap/internal/graph"
)

// Position is one node's placement at a tick. A snapshot of Positions is
// safe to hold across later ticks.
type Position struct {
	ID     string
	Label  string
	X, Y   float64
	Radius float64
	IsRoot bool
}

// simNode carries the mutable simulation state for one graph node.
type simNode struct {
	id     string
	label  string
	isRoot bool
	radius float64

	x, y   float64
	vx, vy float64

	// Pin target; nil when the node simulates freely.
	fx, fy *float64
}

// simLink is a spring between two node indices.
type simLink struct {
	source, target int
	distance       float64
	bias           float64
}

// Simulation steps a force layout toward quiescence. It is single-threaded
// by design: ticks and pin mutations must come from one event loop.
type Simulation struct {
	params Params
	nodes  []simNode
	links  []simLink
	index  map[string]int

	width, height float64
	alpha         float64
	alphaTarget   float64

	rng *rand.Rand
}

// initialAngle spreads initial placements in a phyllotaxis spiral so no two
// nodes start coincident.
const initialAngle = math.Pi * (3 - 2.2360679774997896) // π(3-√5)

// New builds a simulation for the graph on a width×height canvas.
func New(g *graph.Graph, width, height float64, params Params) *Simulation {
	s := &Simulation{
		params: params,
		width:  width,
		height: height,
		alpha:  1,
		index:  make(map[string]int, len(g.Nodes)),
		rng:    rand.New(rand.NewPCG(0x5bd1e995, uint64(len(g.Nodes)))),
	}

	cx, cy := width/2, height/2
	for i, n := range g.Nodes {
		radius := params.ChildRadius
		if n.IsRoot {
			radius = params.RootRadius
		}
		r := 60 * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.nodes = append(s.nodes, simNode{
			id:     n.ID,
			label:  n.Label,
			isRoot: n.IsRoot,
			radius: radius,
			x:      cx + r*math.Cos(a),
			y:      cy + r*math.Sin(a),
		})
		s.index[n.ID] = i
	}

	degree := make([]int, len(s.nodes))
	for _, e := range g.Edges {
		si, oks := s.index[e.Source]
		ti, okt := s.index[e.Target]
		if !oks || !okt {
			continue
		}
		degree[si]++
		degree[ti]++
	}
	for _, e := range g.Edges {
		si, oks := s.index[e.Source]
		ti, okt := s.index[e.Target]
		if !oks || !okt {
			continue
		}
		distance := params.LinkDistance
		if s.nodes[si].isRoot || s.nodes[ti].isRoot {
			distance = params.LinkDistanceRoot
		}
		s.links = append(s.links, simLink{
			source:   si,
			target:   ti,
			distance: distance,
			bias:     float64(degree[si]) / float64(degree[si]+degree[ti]),
		})
	}

	return s
}

// Tick advances the simulation one step: cool alpha, accumulate forces into
// velocities, then integrate with damping. Pinned nodes are forced to their
// pin target with zero velocity.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay

	s.applyLinkForce()
	s.applyChargeForce()
	s.applyCenterForce()
	for range s.params.CollideIterations {
		s.applyCollideForce()
	}

	damp := 1 - s.params.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.fx != nil {
			n.x, n.vx = *n.fx, 0
		} else {
			n.vx *= damp
			n.x += n.vx
		}
		if n.fy != nil {
			n.y, n.vy = *n.fy, 0
		} else {
			n.vy *= damp
			n.y += n.vy
		}
	}
}

// Converged reports quiescence: the activity budget has decayed below the
// floor and nothing is holding it up.
func (s *Simulation) Converged() bool {
	return s.alpha < s.params.AlphaMin && s.alphaTarget < s.params.AlphaMin
}

// Run ticks until convergence or maxTicks, returning the tick count.
func (s *Simulation) Run(maxTicks int) int {
	ticks := 0
	for !s.Converged() && ticks < maxTicks {
		s.Tick()
		ticks++
	}
	return ticks
}

// Snapshots returns a lazy sequence of per-tick position snapshots. The
// sequence ends at convergence; iterating again after a reheat resumes from
// the current state.
func (s *Simulation) Snapshots() iter.Seq[[]Position] {
	return func(yield func([]Position) bool) {
		for !s.Converged() {
			s.Tick()
			if !yield(s.Positions()) {
				return
			}
		}
	}
}

// Positions returns the current placement of every node in graph order.
func (s *Simulation) Positions() []Position {
	out := make([]Position, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = Position{
			ID:     n.id,
			Label:  n.label,
			X:      n.x,
			Y:      n.y,
			Radius: n.radius,
			IsRoot: n.isRoot,
		}
	}
	return out
}

// Pin fixes a node at (x, y) until Unpin. Unknown IDs are ignored.
func (s *Simulation) Pin(id string, x, y float64) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	px, py := x, y
	s.nodes[i].fx, s.nodes[i].fy = &px, &py
}

// Unpin releases a pinned node back into free simulation.
func (s *Simulation) Unpin(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.nodes[i].fx, s.nodes[i].fy = nil, nil
}

// SetAlphaTarget sets the cooling target; a positive target keeps the
// simulation live while a gesture is in progress.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = target
}

// Reheat restores activity so the layout re-settles, used when a drag starts
// or a pin is released after the simulation has cooled.
func (s *Simulation) Reheat() {
	if s.alpha < s.params.ReheatAlpha {
		s.alpha = s.params.ReheatAlpha
	}
}

// Alpha exposes the current activity level.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Size returns the canvas dimensions the simulation centers on.
func (s *Simulation) Size() (width, height float64) {
	return s.width, s.height
}

// jiggle breaks exact coincidence between two nodes with a tiny deterministic
// offset, as a zero distance would make force directions undefined.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
