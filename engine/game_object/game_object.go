package game_object

import (
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// Bob amplitude in world units and drift amplitude in radians.
const (
	BobAmplitude   float32 = 0.1
	DriftAmplitude float32 = 0.01
)

// MinPeriod and PeriodSpread bound the random animation period to [MinPeriod, MinPeriod+PeriodSpread).
const (
	MinPeriod    float32 = 2.0
	PeriodSpread float32 = 2.0
)

type gameObject struct {
	slot    int
	enabled atomic.Bool
	mdl     model.Node

	baseY  float32
	period float32
	phase  float32

	// rotationY accumulates drift frame over frame; it is never derived from elapsed time alone.
	rotationY float32
}

// GameObject is a loaded, placed, animated model bound to a placement slot.
// The object owns its model; nothing else mutates the model's transform once registered.
type GameObject interface {
	// Slot returns the placement index the object was loaded for.
	//
	// Returns:
	//   - int: the slot index
	Slot() int

	// Enabled returns whether this object is animated and rendered.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the owned model hierarchy.
	//
	// Returns:
	//   - model.Node: the model root
	Model() model.Node

	// BaseY returns the resting height the bob oscillates around.
	BaseY() float32

	// Period returns the animation period in seconds.
	Period() float32

	// Phase returns the bob phase offset in radians.
	Phase() float32

	// RotationY returns the accumulated rotation about the vertical axis.
	RotationY() float32

	// Animate advances the object to elapsed seconds since start: the height is set
	// from the bob formula and the drift increment is added to the stored rotation.
	//
	// Parameters:
	//   - elapsed: seconds since the scene started
	Animate(elapsed float32)

	// SetEnabled sets whether the object is animated and rendered.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject owning m. BaseY and the initial rotation are taken
// from the model's current transform; period and phase default to MinPeriod and 0.
//
// Parameters:
//   - m: the placed model
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(m model.Node, options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mdl:    m,
		period: MinPeriod,
	}
	if m != nil {
		obj.baseY = m.Position()[1]
		obj.rotationY = m.RotationY()
	}
	obj.enabled.Store(true)

	for _, option := range options {
		option(obj)
	}
	if obj.period <= 0 {
		obj.period = MinPeriod
	}
	return obj
}

// BobHeight returns the vertical pose for the given parameters at elapsed seconds.
//
// Parameters:
//   - baseY: resting height
//   - period: animation period in seconds
//   - phase: phase offset in radians
//   - elapsed: seconds since start
//
// Returns:
//   - float32: baseY + sin(elapsed/period + phase) * BobAmplitude
func BobHeight(baseY, period, phase, elapsed float32) float32 {
	return baseY + float32(math.Sin(float64(elapsed/period+phase)))*BobAmplitude
}

// DriftStep returns the rotation added in one frame at elapsed seconds.
//
// Parameters:
//   - period: animation period in seconds
//   - elapsed: seconds since start
//
// Returns:
//   - float32: sin(elapsed/period) * DriftAmplitude
func DriftStep(period, elapsed float32) float32 {
	return float32(math.Sin(float64(elapsed/period))) * DriftAmplitude
}

func (o *gameObject) Slot() int {
	return o.slot
}

func (o *gameObject) Enabled() bool {
	return o.enabled.Load()
}

func (o *gameObject) Model() model.Node {
	return o.mdl
}

func (o *gameObject) BaseY() float32 {
	return o.baseY
}

func (o *gameObject) Period() float32 {
	return o.period
}

func (o *gameObject) Phase() float32 {
	return o.phase
}

func (o *gameObject) RotationY() float32 {
	return o.rotationY
}

func (o *gameObject) Animate(elapsed float32) {
	o.rotationY += DriftStep(o.period, elapsed)
	if o.mdl == nil {
		return
	}
	p := o.mdl.Position()
	o.mdl.SetPosition(p[0], BobHeight(o.baseY, o.period, o.phase, elapsed), p[2])
	o.mdl.SetRotationY(o.rotationY)
}

func (o *gameObject) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
	if o.mdl != nil {
		o.mdl.SetVisible(enabled)
	}
}
