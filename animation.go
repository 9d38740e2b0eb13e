package lumen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Animation effect flags. Effects are independent and combine freely:
// position effects sum their offsets, property effects scale intensity and
// radius after the position is settled.
type AnimFlags uint32

const (
	AnimNone     AnimFlags = 0x00
	AnimCircular AnimFlags = 0x01
	AnimLinear   AnimFlags = 0x02
	AnimWave     AnimFlags = 0x04
	AnimFlicker  AnimFlags = 0x08
	AnimPulse    AnimFlags = 0x10
	AnimRotate   AnimFlags = 0x20
)

type LinearMode uint8

const (
	LinearOnce LinearMode = iota
	LinearLoop
	LinearPingPong
)

// Pulse target bits; intensity and radius can pulse independently.
const (
	PulseIntensity uint8 = 0x01
	PulseRadius    uint8 = 0x02
)

type RotateMode uint8

const (
	RotateContinuous RotateMode = iota
	RotateSwing
)

type CircularParams struct {
	Speed  float32
	Radius float32
}

type LinearParams struct {
	Target   mgl32.Vec3
	Duration float32
	Delay    float32
	Mode     LinearMode
}

type WaveParams struct {
	Axis      mgl32.Vec3 // unit axis, normalized on ingest
	Speed     float32
	Amplitude float32
	Phase     float32
}

type FlickerParams struct {
	Speed     float32
	Intensity float32
	Seed      float32
}

type PulseParams struct {
	Speed  float32
	Amount float32
	Target uint8
}

type RotationParams struct {
	Axis  mgl32.Vec3 // unit axis, normalized on ingest
	Speed float32
	Angle float32 // max swing angle, unused for continuous
	Mode  RotateMode
}

// Animation is the composable per-light descriptor. All parameter blocks
// are always present; only the ones whose flag is set are meaningful.
type Animation struct {
	Flags    AnimFlags
	Circular CircularParams
	Linear   LinearParams
	Wave     WaveParams
	Flicker  FlickerParams
	Pulse    PulseParams
	Rotation RotationParams
}

// sanitize normalizes the axes that must be unit length. Called on every
// ingest path so the evaluator never has to guard against scaled axes.
func (a *Animation) sanitize() {
	if a.Flags&AnimWave != 0 {
		if v := normalize3(a.Wave.Axis[0], a.Wave.Axis[1], a.Wave.Axis[2]); v != (mgl32.Vec4{}) {
			a.Wave.Axis = mgl32.Vec3{v[0], v[1], v[2]}
		}
	}
	if a.Flags&AnimRotate != 0 {
		if v := normalize3(a.Rotation.Axis[0], a.Rotation.Axis[1], a.Rotation.Axis[2]); v != (mgl32.Vec4{}) {
			a.Rotation.Axis = mgl32.Vec3{v[0], v[1], v[2]}
		}
	}
}

// linearProgress remaps elapsed time into [0,1] according to the motion
// mode. Once clamps, Loop wraps the fractional part, PingPong reflects on
// odd cycles.
func (p *LinearParams) progress(time float32) (float32, bool) {
	if time < p.Delay {
		return 0, false
	}
	t := (time - p.Delay) / p.Duration
	switch p.Mode {
	case LinearLoop:
		t = float32(math.Mod(float64(t), 1))
	case LinearPingPong:
		cycle := int(t)
		t = float32(math.Mod(float64(t), 1))
		if cycle&1 == 1 {
			t = 1 - t
		}
	default: // LinearOnce
		t = mgl32.Clamp(t, 0, 1)
	}
	return t, true
}

// flickerScale is the two-term sinusoidal product, clamped so the light
// never fully dies and never more than doubles.
func (f *FlickerParams) scale(time float32) float32 {
	flicker := 1 + sin32(time*f.Speed+f.Seed)*
		cos32(time*f.Speed*1.7+f.Seed*2.3)*
		f.Intensity
	return mgl32.Clamp(flicker, 0.1, 2.0)
}

func (p *PulseParams) scale(time float32) float32 {
	return 1 + sin32(time*p.Speed)*p.Amount
}

// angleAt resolves the rotation angle for a point in time. Continuous mode
// wraps modulo 2π to bound floating point error over long sessions.
func (r *RotationParams) angleAt(time float32) float32 {
	if r.Mode == RotateSwing {
		return sin32(time*r.Speed) * r.Angle
	}
	return float32(math.Mod(float64(time*r.Speed), 2*math.Pi))
}

// addLinearOffset accumulates the linear-motion offset into the light's
// transient offset. The interpolation target is relative to the authored
// position so base-position edits keep the path anchored.
func addLinearOffset(c *lightCore, time float32) {
	t, active := c.Anim.Linear.progress(time)
	if !active {
		return
	}
	c.AnimOffset[0] += lerp(0, c.Anim.Linear.Target[0]-c.BaseWorldPos[0], t)
	c.AnimOffset[1] += lerp(0, c.Anim.Linear.Target[1]-c.BaseWorldPos[1], t)
	c.AnimOffset[2] += lerp(0, c.Anim.Linear.Target[2]-c.BaseWorldPos[2], t)
}

func applyOffset(c *lightCore) {
	c.WorldPos[0] = c.BaseWorldPos[0] + c.AnimOffset[0]
	c.WorldPos[1] = c.BaseWorldPos[1] + c.AnimOffset[1]
	c.WorldPos[2] = c.BaseWorldPos[2] + c.AnimOffset[2]
}

// animate evaluates the point light's descriptor at the given time. Pure in
// time: the same input time always yields the same transient state.
//
// Order matters: position effects sum into the offset, the offset lands in
// WorldPos, then flicker and pulse rescale intensity/radius. Intensity is
// always rescaled from the authored BaseColor.
func (l *PointLight) animate(time float32) {
	l.AnimOffset = mgl32.Vec4{}
	l.Color = l.BaseColor
	l.WorldPos[3] = l.BaseWorldPos[3]

	if l.Anim.Flags == AnimNone {
		l.WorldPos = l.BaseWorldPos
		return
	}

	if l.Anim.Flags&AnimCircular != 0 {
		phase := time * l.Anim.Circular.Speed
		l.AnimOffset[0] += sin32(phase) * l.Anim.Circular.Radius
		l.AnimOffset[2] += cos32(phase) * l.Anim.Circular.Radius
	}

	if l.Anim.Flags&AnimLinear != 0 {
		addLinearOffset(&l.lightCore, time)
	}

	if l.Anim.Flags&AnimWave != 0 {
		wave := sin32(time*l.Anim.Wave.Speed+l.Anim.Wave.Phase) * l.Anim.Wave.Amplitude
		l.AnimOffset[0] += l.Anim.Wave.Axis[0] * wave
		l.AnimOffset[1] += l.Anim.Wave.Axis[1] * wave
		l.AnimOffset[2] += l.Anim.Wave.Axis[2] * wave
	}

	applyOffset(&l.lightCore)

	if l.Anim.Flags&AnimFlicker != 0 {
		l.Color[3] = l.BaseColor[3] * l.Anim.Flicker.scale(time)
	}

	if l.Anim.Flags&AnimPulse != 0 {
		pulse := l.Anim.Pulse.scale(time)
		if l.Anim.Pulse.Target&PulseIntensity != 0 {
			l.Color[3] = l.BaseColor[3] * pulse
		}
		if l.Anim.Pulse.Target&PulseRadius != 0 {
			l.WorldPos[3] = l.BaseWorldPos[3] * pulse
		}
	}
}

// animate evaluates the spot light's descriptor. Rotation runs after the
// position offset is applied and spins both the direction and the already
// offset world position around the axis.
//
// Unlike point lights, flicker and pulse chain onto the current intensity
// rather than the authored one, so the scaling compounds across frames.
// The renderer's look was tuned against that behavior, so it stays.
func (l *SpotLight) animate(time float32) {
	l.AnimOffset = mgl32.Vec4{}
	l.Direction = l.BaseDir
	l.WorldPos[3] = l.BaseWorldPos[3]

	if l.Anim.Flags == AnimNone {
		l.WorldPos = l.BaseWorldPos
		return
	}

	if l.Anim.Flags&AnimLinear != 0 {
		addLinearOffset(&l.lightCore, time)
	}

	applyOffset(&l.lightCore)

	if l.Anim.Flags&AnimRotate != 0 {
		angle := l.Anim.Rotation.angleAt(time)
		dir := l.BaseDir
		pos := l.WorldPos
		rotateAroundAxis(&dir, l.Anim.Rotation.Axis, angle)
		rotateAroundAxis(&pos, l.Anim.Rotation.Axis, angle)
		l.Direction = dir
		l.WorldPos = pos
	}

	if l.Anim.Flags&AnimFlicker != 0 {
		l.Color[3] = l.Color[3] * l.Anim.Flicker.scale(time)
	}

	if l.Anim.Flags&AnimPulse != 0 {
		pulse := l.Anim.Pulse.scale(time)
		if l.Anim.Pulse.Target&PulseIntensity != 0 {
			l.Color[3] = l.Color[3] * pulse
		}
		if l.Anim.Pulse.Target&PulseRadius != 0 {
			l.WorldPos[3] = l.BaseWorldPos[3] * pulse
		}
	}
}

// animate evaluates the rect light's descriptor. Rotation spins the whole
// tangent frame from its base vectors; position is not rotated. Flicker
// chains onto the current intensity, same as spot lights, and pulse only
// affects intensity since a rect light's extent is its size, not a radius.
func (l *RectLight) animate(time float32) {
	l.AnimOffset = mgl32.Vec4{}
	l.Normal = l.BaseNormal
	l.WorldPos[3] = l.BaseWorldPos[3]

	if l.Anim.Flags == AnimNone {
		l.WorldPos = l.BaseWorldPos
		return
	}

	if l.Anim.Flags&AnimLinear != 0 {
		addLinearOffset(&l.lightCore, time)
	}

	applyOffset(&l.lightCore)

	if l.Anim.Flags&AnimRotate != 0 {
		angle := l.Anim.Rotation.angleAt(time)
		norm := l.BaseNormal
		tang := l.BaseTangent
		bitang := l.BaseBitangent
		rotateAroundAxis(&norm, l.Anim.Rotation.Axis, angle)
		rotateAroundAxis(&tang, l.Anim.Rotation.Axis, angle)
		rotateAroundAxis(&bitang, l.Anim.Rotation.Axis, angle)
		l.Normal = norm
		l.Tangent = tang
		l.Bitangent = bitang
	}

	if l.Anim.Flags&AnimFlicker != 0 {
		l.Color[3] = l.Color[3] * l.Anim.Flicker.scale(time)
	}

	if l.Anim.Flags&AnimPulse != 0 {
		pulse := l.Anim.Pulse.scale(time)
		if l.Anim.Pulse.Target&PulseIntensity != 0 {
			l.Color[3] = l.Color[3] * pulse
		}
	}
}
