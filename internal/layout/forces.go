package layout

import "math"

// applyLinkForce pulls each edge's endpoints toward the link's target
// separation. The correction is split between the endpoints by degree bias
// so well-connected nodes move less.
func (s *Simulation) applyLinkForce() {
	for _, l := range s.links {
		src := &s.nodes[l.source]
		tgt := &s.nodes[l.target]

		dx := tgt.x + tgt.vx - src.x - src.vx
		dy := tgt.y + tgt.vy - src.y - src.vy
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}

		dist := math.Sqrt(dx*dx + dy*dy)
		k := (dist - l.distance) / dist * s.alpha * s.params.LinkStrength
		dx *= k
		dy *= k

		tgt.vx -= dx * l.bias
		tgt.vy -= dy * l.bias
		src.vx += dx * (1 - l.bias)
		src.vy += dy * (1 - l.bias)
	}
}

// applyChargeForce repels every node pair with an inverse-square falloff.
func (s *Simulation) applyChargeForce() {
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			a := &s.nodes[i]
			b := &s.nodes[j]

			dx := b.x - a.x
			dy := b.y - a.y
			if dx == 0 {
				dx = s.jiggle()
			}
			if dy == 0 {
				dy = s.jiggle()
			}

			l2 := dx*dx + dy*dy
			if l2 < 1 {
				l2 = 1
			}

			w := s.params.ChargeStrength * s.alpha / l2
			a.vx += dx * w
			a.vy += dy * w
			b.vx -= dx * w
			b.vy -= dy * w
		}
	}
}

// applyCenterForce shifts the ensemble so its mean sits on the canvas
// center, preventing runaway drift without affecting relative geometry.
func (s *Simulation) applyCenterForce() {
	if len(s.nodes) == 0 {
		return
	}

	var sx, sy float64
	for i := range s.nodes {
		sx += s.nodes[i].x
		sy += s.nodes[i].y
	}
	sx = (sx/float64(len(s.nodes)) - s.width/2) * s.params.CenterStrength
	sy = (sy/float64(len(s.nodes)) - s.height/2) * s.params.CenterStrength

	for i := range s.nodes {
		s.nodes[i].x -= sx
		s.nodes[i].y -= sy
	}
}

// applyCollideForce separates overlapping nodes. Each node's collision
// radius is its visual radius plus the configured padding; overlap is
// resolved by pushing both nodes apart, weighted by the other node's area.
func (s *Simulation) applyCollideForce() {
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			a := &s.nodes[i]
			b := &s.nodes[j]

			ra := a.radius + s.params.CollidePadding
			rb := b.radius + s.params.CollidePadding
			r := ra + rb

			dx := b.x + b.vx - a.x - a.vx
			dy := b.y + b.vy - a.y - a.vy
			l2 := dx*dx + dy*dy
			if l2 >= r*r {
				continue
			}

			if dx == 0 {
				dx = s.jiggle()
				l2 += dx * dx
			}
			if dy == 0 {
				dy = s.jiggle()
				l2 += dy * dy
			}

			dist := math.Sqrt(l2)
			overlap := (r - dist) / dist
			wb := rb * rb / (ra*ra + rb*rb)

			a.vx -= dx * overlap * wb
			a.vy -= dy * overlap * wb
			b.vx += dx * overlap * (1 - wb)
			b.vy += dy * overlap * (1 - wb)
		}
	}
}
