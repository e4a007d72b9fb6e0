package cam

import (
	"errors"
	"math"
)

// Lead placement attaches tangent entry/exit arcs to a closed cut so the
// torch pierces in scrap material and ramps onto the contour smoothly. For a
// hole the scrap is the hole's interior; for a shell it is the region outside
// the boundary. Placement is validated with the exact ray cast: a lead whose
// pierce or exit point lands in kept material is rejected.

// ErrNoLeadPlacement is returned when neither side of the contour admits a
// valid lead at the configured radius.
var ErrNoLeadPlacement = errors.New("cam: no valid lead placement found")

const (
	defaultLeadRadius = 2.0
	defaultLeadSweep  = math.Pi / 2
)

// LeadConfig holds the lead geometry parameters.
type LeadConfig struct {
	// Radius of the lead-in/lead-out arcs.
	Radius float64
	// Sweep is the angular extent of each lead arc in radians.
	Sweep float64
}

// LeadOption configures lead placement.
type LeadOption func(*LeadConfig)

// WithLeadRadius sets the lead arc radius.
func WithLeadRadius(r float64) LeadOption {
	return func(c *LeadConfig) {
		if r > 0 {
			c.Radius = r
		}
	}
}

// WithLeadSweep sets the lead arc sweep angle in radians.
func WithLeadSweep(a float64) LeadOption {
	return func(c *LeadConfig) {
		if a > 0 {
			c.Sweep = a
		}
	}
}

// Lead is a placed entry/exit pair for one contour.
type Lead struct {
	// In is the arc ending at the contour start, tangent to it.
	In Shape
	// Out is the arc starting at the contour end, tangent to it.
	Out Shape
	// Pierce is the torch pierce location (start of the lead-in).
	Pierce Point
	// Exit is the end of the lead-out.
	Exit Point
}

// PlaceLeads computes tangent lead arcs for a closed chain. isHole selects
// which region counts as scrap: the interior for holes, the exterior for
// shells. The side suggested by the chain's winding is tried first; if its
// pierce or exit point fails the ray-cast validation the other side is tried
// before giving up.
func PlaceLeads(c *Chain, isHole bool, opts ...LeadOption) (Lead, error) {
	cfg := LeadConfig{Radius: defaultLeadRadius, Sweep: defaultLeadSweep}
	for _, o := range opts {
		o(&cfg)
	}
	if c.Len() == 0 {
		return Lead{}, ErrNoLeadPlacement
	}

	shapes := c.Shapes()
	first, last := shapes[0], shapes[len(shapes)-1]

	// Counter-clockwise traversal keeps the interior on the left, so a hole
	// lead curls left and a shell lead curls right; flipped for clockwise.
	interiorLeft := c.Winding() != WindingClockwise
	preferLeft := interiorLeft == isHole

	for _, left := range [2]bool{preferLeft, !preferLeft} {
		in := leadInArc(first, cfg, left)
		out := leadOutArc(last, cfg, left)
		pierce := in.Start()
		exit := out.End()
		if IsPointInsideChainExact(pierce, c) == isHole &&
			IsPointInsideChainExact(exit, c) == isHole {
			return Lead{In: in, Out: out, Pierce: pierce, Exit: exit}, nil
		}
		Logger().Debug("lead side rejected", "chain", c.ID, "left", left, "hole", isHole)
	}
	return Lead{}, ErrNoLeadPlacement
}

// leadInArc builds the arc that ends at the shape's start point with matching
// tangent, curling toward the requested side.
func leadInArc(s Shape, cfg LeadConfig, left bool) Shape {
	p := s.Start()
	t := s.Geom.TangentAt(0)
	center, endAngle := leadCenter(p, t, cfg.Radius, left)
	a := Arc{Center: center, Radius: cfg.Radius, EndAngle: endAngle}
	if left {
		a.StartAngle = endAngle - cfg.Sweep
	} else {
		a.Clockwise = true
		a.StartAngle = endAngle + cfg.Sweep
	}
	return NewShape(a)
}

// leadOutArc builds the arc that starts at the shape's end point with matching
// tangent, curling toward the requested side.
func leadOutArc(s Shape, cfg LeadConfig, left bool) Shape {
	p := s.End()
	t := s.Geom.TangentAt(1)
	center, startAngle := leadCenter(p, t, cfg.Radius, left)
	a := Arc{Center: center, Radius: cfg.Radius, StartAngle: startAngle}
	if left {
		a.EndAngle = startAngle + cfg.Sweep
	} else {
		a.Clockwise = true
		a.EndAngle = startAngle - cfg.Sweep
	}
	return NewShape(a)
}

// leadCenter places the lead arc center one radius off the contour on the
// requested side of the tangent and returns the angle of the attachment point
// as seen from that center. A center on the left pairs with counter-clockwise
// traversal to produce a matching tangent at the attachment point; a center
// on the right pairs with clockwise.
func leadCenter(p, tangent Point, radius float64, left bool) (Point, float64) {
	n := tangent.Normalize().Perp()
	if !left {
		n = n.Neg()
	}
	center := p.Add(n.Mul(radius))
	return center, p.Sub(center).Atan2()
}
