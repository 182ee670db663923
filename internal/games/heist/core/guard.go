package core

// landSlack absorbs float error when a step ends exactly on a waypoint.
const landSlack = 1e-9

// Guard walks a cyclic waypoint path at constant speed and watches a cone
// in the direction of travel. Guards never react to the alert level.
type Guard struct {
	Pos       Vec
	Facing    float64
	Path      []Vec
	Speed     float64 // world units per normalized frame
	HalfAngle float64
	Range     float64

	next      int
	arrive    float64
	detecting bool
}

// NewGuard places a guard on the first waypoint, heading for the second.
// path must not be empty.
func NewGuard(path []Vec, speed, facing, halfAngle, viewRange, arrive float64) *Guard {
	p := make([]Vec, len(path))
	copy(p, path)
	return &Guard{
		Pos:       p[0],
		Facing:    facing,
		Path:      p,
		Speed:     speed,
		HalfAngle: halfAngle,
		Range:     viewRange,
		next:      1 % len(p),
		arrive:    arrive,
	}
}

func (g *Guard) Kind() ThreatKind { return ThreatGuard }
func (g *Guard) sealed()          {}

// NextWaypoint returns the index of the waypoint the guard is walking to.
func (g *Guard) NextWaypoint() int { return g.next }

// Detecting reports the result of the last Evaluate.
func (g *Guard) Detecting() bool { return g.detecting }

// Observer returns the guard's current vision cone.
func (g *Guard) Observer() Observer {
	return Observer{Pos: g.Pos, Facing: g.Facing, HalfAngle: g.HalfAngle, Range: g.Range}
}

// Advance spends speed*dt of travel. Reaching a waypoint retargets to the next
// one and the leftover distance carries into the new leg, so the guard never
// overshoots and always stays on the polyline.
func (g *Guard) Advance(dt float64) {
	budget := g.Speed * dt
	for hop := 0; hop <= len(g.Path); hop++ {
		target := g.Path[g.next]
		d := g.Pos.Dist(target)
		if d < g.arrive || d <= budget+landSlack {
			g.Pos = target
			budget -= d
			g.next = (g.next + 1) % len(g.Path)
			if budget <= 0 {
				return
			}
			continue
		}
		g.Facing = g.Pos.AngleTo(target)
		g.Pos = g.Pos.Add(target.Sub(g.Pos).Scale(budget / d))
		return
	}
}

// Evaluate tests the target against the guard's cone.
func (g *Guard) Evaluate(grid *TileGrid, target Body) Sighting {
	s := evaluateCone(grid, g.Observer(), target)
	g.detecting = s.Detecting
	return s
}
