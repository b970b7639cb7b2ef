package scene

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Animator mutates a node once per tick. The return value reports whether
// the node actually changed; it feeds the scene-changed redraw signal, so
// an animator that settled must return false.
type Animator interface {
	Animate(n Node, now time.Time) bool
}

// AnimatorFunc adapts a function to the Animator interface.
type AnimatorFunc func(n Node, now time.Time) bool

func (f AnimatorFunc) Animate(n Node, now time.Time) bool { return f(n, now) }

// RotationAnimator spins a node at a constant rate, degrees per second per
// axis.
type RotationAnimator struct {
	Speed math.Vec3

	last time.Time
}

func (a *RotationAnimator) Animate(n Node, now time.Time) bool {
	if a.last.IsZero() {
		a.last = now
		return false
	}
	dt := float32(now.Sub(a.last).Seconds())
	a.last = now
	if dt <= 0 || a.Speed == (math.Vec3{}) {
		return false
	}
	r := n.Rotation()
	n.SetRotation(math.Vec3{
		X: r.X + a.Speed.X*dt,
		Y: r.Y + a.Speed.Y*dt,
		Z: r.Z + a.Speed.Z*dt,
	})
	return true
}

// FlyCircleAnimator moves a node along a horizontal circle around a center
// point. Phase advances with wall-clock time so the motion survives pauses
// without jumping.
type FlyCircleAnimator struct {
	Center math.Vec3
	Radius float32
	// Speed is angular velocity in radians per second.
	Speed float32

	start time.Time
}

func (a *FlyCircleAnimator) Animate(n Node, now time.Time) bool {
	if a.start.IsZero() {
		a.start = now
	}
	if a.Radius == 0 || a.Speed == 0 {
		return false
	}
	t := float32(now.Sub(a.start).Seconds()) * a.Speed
	n.SetPosition(math.Vec3{
		X: a.Center.X + math32.Cos(t)*a.Radius,
		Y: a.Center.Y,
		Z: a.Center.Z + math32.Sin(t)*a.Radius,
	})
	return true
}
