// Package anim provides the per-frame parameter animation driving shader
// uniforms.
package anim

// The start step is deliberately larger than the reflection step: the first
// ascent is fast, every cycle after it is slow.
const (
	startStep      = 0.05
	reflectionStep = 0.01
)

// Oscillator cycles a scalar between 0.0 and 1.0 with reflecting bounds.
// The bounds check runs before the increment, so the value may overshoot a
// bound by up to the current step for one frame; the reflection takes effect
// on the following Advance.
type Oscillator struct {
	value float32
	step  float32
}

// NewOscillator returns an oscillator at 0.0, ascending.
func NewOscillator() *Oscillator {
	return &Oscillator{step: startStep}
}

// Value returns the current drive parameter. Read it before calling Advance
// for the frame.
func (o *Oscillator) Value() float32 {
	return o.value
}

// Advance applies one frame transition: reflect the step at the bounds, then
// increment.
func (o *Oscillator) Advance() {
	if o.value > 1.0 {
		o.step = -reflectionStep
	}
	if o.value < 0.0 {
		o.step = reflectionStep
	}
	o.value += o.step
}
