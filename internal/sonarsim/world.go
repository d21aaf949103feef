package sonarsim

import (
	"math"

	"github.com/PH-19/sonarscan-sim/internal/rng"
	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// Swimmer is a moving point-like target in the pool. Position and
// velocity are in meters and meters/second respectively.
type Swimmer struct {
	ID        string
	Position  simmath.Vector2
	Velocity  simmath.Vector2
	EnteredAt float64 // sim seconds

	maneuver maneuverParams
}

// maneuverParams are the per-swimmer sinusoidal turn-rate parameters drawn
// once, at add-time, from a stream keyed by (seed, "maneuver", id).
type maneuverParams struct {
	omega float64
	phi   float64
	amp   float64
}

// newManeuverParams draws (omega, phi, amp) for swimmer id from the
// per-engine seed, per spec §3's Swimmer data model.
func newManeuverParams(seed uint32, id string) maneuverParams {
	s := rng.NewKeyed(seed, "maneuver", id)
	return maneuverParams{
		omega: 0.2 + s.Float64()*0.6,            // rad/s, mild
		phi:   s.Float64() * 2 * math.Pi,        // phase
		amp:   0.15 + s.Float64()*0.35,          // rad/s turn-rate amplitude
	}
}

// World owns the pool bounds and the set of swimmers currently in play.
type World struct {
	Width, Length float64
	seed          uint32
	swimmers      map[string]*Swimmer
	order         []string // stable insertion order for deterministic iteration
}

// NewWorld creates a World sized per spec §6 (POOL_WIDTH x POOL_LENGTH).
func NewWorld(seed uint32) *World {
	return &World{
		Width:    PoolWidth,
		Length:   PoolLength,
		seed:     seed,
		swimmers: make(map[string]*Swimmer),
	}
}

// AddSwimmer inserts a swimmer with the given id, position, and velocity,
// drawing its maneuver parameters from the world's seed. Callers must
// supply a non-empty, unique id; Engine.AddSwimmer passes its own caller's
// id through, and nothing in the package generates swimmer ids.
func (w *World) AddSwimmer(id string, pos, vel simmath.Vector2, enteredAt float64) *Swimmer {
	s := &Swimmer{
		ID:        id,
		Position:  pos.Clamp(w.Width, w.Length),
		Velocity:  vel,
		EnteredAt: enteredAt,
		maneuver:  newManeuverParams(w.seed, id),
	}
	w.swimmers[id] = s
	w.order = append(w.order, id)
	return s
}

// RemoveByID removes the swimmer with the given id. Returns false if no
// such swimmer exists.
func (w *World) RemoveByID(id string) bool {
	if _, ok := w.swimmers[id]; !ok {
		return false
	}
	delete(w.swimmers, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Swimmers returns the current swimmers in stable insertion order.
func (w *World) Swimmers() []*Swimmer {
	out := make([]*Swimmer, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.swimmers[id])
	}
	return out
}

// Get returns the swimmer with the given id, or nil.
func (w *World) Get(id string) *Swimmer {
	return w.swimmers[id]
}

// Step advances every swimmer by dt seconds, per spec §4.1: rotate
// velocity by the sinusoidal turn rate, advance position, bounce at
// walls. Swimmers are independent of each other; iteration order does not
// affect the result. dt <= 0 is a no-op.
func (w *World) Step(t, dt float64) {
	if dt <= 0 {
		return
	}
	for _, id := range w.order {
		s := w.swimmers[id]
		stepSwimmer(s, w.Width, w.Length, t, dt)
	}
}

// stepSwimmer applies one tick of spec §4.1's kinematics to s in place.
func stepSwimmer(s *Swimmer, width, length, t, dt float64) {
	dtheta := s.maneuver.amp * math.Sin(s.maneuver.omega*(t+s.maneuver.phi)) * dt
	cos, sin := math.Cos(dtheta), math.Sin(dtheta)
	vx := s.Velocity.X*cos - s.Velocity.Y*sin
	vy := s.Velocity.X*sin + s.Velocity.Y*cos
	s.Velocity = simmath.Vector2{X: vx, Y: vy}

	s.Position.X += s.Velocity.X * dt
	s.Position.Y += s.Velocity.Y * dt

	if s.Position.X <= 0 {
		s.Position.X = 0
		s.Velocity.X = -s.Velocity.X
	} else if s.Position.X >= width {
		s.Position.X = width
		s.Velocity.X = -s.Velocity.X
	}

	if s.Position.Y <= 0 {
		s.Position.Y = 0
		s.Velocity.Y = -s.Velocity.Y
	} else if s.Position.Y >= length {
		s.Position.Y = length
		s.Velocity.Y = -s.Velocity.Y
	}
}
