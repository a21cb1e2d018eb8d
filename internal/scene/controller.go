package scene

import (
	"math"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/layout"
)

// clickSlop is the screen-space movement (in pointer units) above which a
// press-move-release gesture counts as a drag rather than a click.
const clickSlop = 3.0

// Hover describes the floating tooltip to display while the pointer rests on
// a node with a tooltip.
type Hover struct {
	NodeID  string
	Label   string
	Tooltip string
	// Screen anchor, offset right of the pointer like the original tooltip.
	X, Y float64
}

// Controller runs the diagram's pointer state machine. All methods must be
// called from the same event loop that ticks the simulation.
type Controller struct {
	sim      *layout.Simulation
	graph    *graph.Graph
	view     Viewport
	diveOpts dive.Options

	dragID         string
	dragMoved      bool
	downX, downY   float64
	panning        bool
	lastPX, lastPY float64

	hasHover bool
	hoverVal Hover
}

// NewController wires a controller to a graph and its running simulation.
func NewController(g *graph.Graph, sim *layout.Simulation, opts dive.Options) *Controller {
	return &Controller{
		sim:      sim,
		graph:    g,
		view:     NewViewport(),
		diveOpts: opts,
	}
}

// Viewport returns the current scene transform.
func (c *Controller) Viewport() Viewport {
	return c.view
}

// ZoomBy scales the view about a screen point; scale stays within
// [MinScale, MaxScale].
func (c *Controller) ZoomBy(factor, px, py float64) {
	c.view.ZoomAt(factor, px, py)
}

// PointerDown starts a gesture: on a node it begins a drag pin, elsewhere it
// begins a pan.
func (c *Controller) PointerDown(px, py float64) {
	c.downX, c.downY = px, py
	c.lastPX, c.lastPY = px, py
	c.dragMoved = false

	if hit := c.HitTest(px, py); hit != nil {
		c.dragID = hit.ID
		sx, sy := c.view.ToScene(px, py)
		c.sim.Pin(c.dragID, sx, sy)
		c.sim.SetAlphaTarget(0.3)
		c.sim.Reheat()
		return
	}
	c.panning = true
}

// PointerMove updates an in-flight gesture, or the hover tooltip when no
// button is held.
func (c *Controller) PointerMove(px, py float64) {
	defer func() { c.lastPX, c.lastPY = px, py }()

	if c.dragID != "" {
		if math.Hypot(px-c.downX, py-c.downY) > clickSlop {
			c.dragMoved = true
		}
		sx, sy := c.view.ToScene(px, py)
		c.sim.Pin(c.dragID, sx, sy)
		return
	}

	if c.panning {
		c.view.PanBy(px-c.lastPX, py-c.lastPY)
		return
	}

	c.updateHover(px, py)
}

// PointerUp ends the gesture. A press-release on a non-root node without
// drag movement is a click, and returns the dive context to navigate with;
// clicking the root is a no-op. All other gestures return nil.
func (c *Controller) PointerUp(px, py float64) *dive.Context {
	if c.panning {
		c.panning = false
		return nil
	}
	if c.dragID == "" {
		return nil
	}

	id := c.dragID
	c.dragID = ""
	c.sim.Unpin(id)
	c.sim.SetAlphaTarget(0)
	c.sim.Reheat()

	if c.dragMoved {
		return nil
	}

	clicked := c.graph.ByID(id)
	if clicked == nil || clicked.IsRoot {
		return nil
	}

	ctx, err := dive.Build(*clicked, c.graph.Nodes, c.diveOpts)
	if err != nil {
		return nil
	}
	return &ctx
}

// Hover returns the current tooltip state, if any.
func (c *Controller) Hover() (Hover, bool) {
	return c.hoverVal, c.hasHover
}

// updateHover shows the tooltip for the node under the pointer, tracking the
// pointer while it stays on a node with a non-empty tooltip.
func (c *Controller) updateHover(px, py float64) {
	hit := c.HitTest(px, py)
	if hit == nil || hit.Tooltip == "" {
		c.hasHover = false
		return
	}
	c.hoverVal = Hover{
		NodeID:  hit.ID,
		Label:   hit.Label,
		Tooltip: hit.Tooltip,
		X:       px + 15,
		Y:       py,
	}
	c.hasHover = true
}

// HitTest returns the topmost node whose bubble contains the screen point,
// or nil. Later nodes draw on top, so the scan runs in reverse order.
func (c *Controller) HitTest(px, py float64) *graph.Node {
	sx, sy := c.view.ToScene(px, py)
	pos := c.sim.Positions()
	for i := len(pos) - 1; i >= 0; i-- {
		p := pos[i]
		if math.Hypot(sx-p.X, sy-p.Y) <= p.Radius {
			return c.graph.ByID(p.ID)
		}
	}
	return nil
}
