package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Bulk ingestion takes flat parallel arrays so a host populating thousands
// of lights pays one call instead of one per light. Strides:
//
//	positions, colors    4 floats per light (xyz+radius, rgb+intensity)
//	animation parameters AnimParamStride floats per light
//	spot extras          SpotParamStride floats per spot (dir xyz, angle, penumbra, pad)
//	rect extras          RectParamStride floats per rect (width, height, normal xyz, pad)
//
// The animation block is one shared layout reinterpreted per kind: point
// lights read circular+wave+flicker+pulse out of it, spot and rect lights
// read linear+rotation+pulse, with the rotation mode sharing the linear
// mode slot.
const (
	AnimParamStride = 14
	SpotParamStride = 6
	RectParamStride = 6
)

// decodePointAnim unpacks a point light's animation block:
// [0]=circular speed, [1]=circular radius, [2..4]=wave axis,
// [5]=wave speed, [6]=wave amplitude, [7]=wave phase,
// [8..10]=flicker speed/intensity/seed, [11..13]=pulse speed/amount/target.
func decodePointAnim(flags AnimFlags, p []float32) Animation {
	a := Animation{Flags: flags}
	if flags == AnimNone || len(p) < AnimParamStride {
		a.Flags = AnimNone
		return a
	}
	if flags&AnimCircular != 0 {
		a.Circular = CircularParams{Speed: p[0], Radius: p[1]}
	}
	if flags&AnimWave != 0 {
		a.Wave = WaveParams{
			Axis:      mgl32.Vec3{p[2], p[3], p[4]},
			Speed:     p[5],
			Amplitude: p[6],
			Phase:     p[7],
		}
	}
	if flags&AnimFlicker != 0 {
		a.Flicker = FlickerParams{Speed: p[8], Intensity: p[9], Seed: p[10]}
	}
	if flags&AnimPulse != 0 {
		a.Pulse = PulseParams{Speed: p[11], Amount: p[12], Target: uint8(p[13])}
	}
	a.sanitize()
	return a
}

// decodeOrientedAnim unpacks the same block as a spot/rect light reads it:
// [0..2]=linear target, [3]=duration, [4]=delay, [5]=linear/rotation mode,
// [6..8]=rotation axis, [9]=rotation speed, [10]=rotation max angle,
// [11..13]=pulse speed/amount/target.
func decodeOrientedAnim(flags AnimFlags, p []float32) Animation {
	a := Animation{Flags: flags}
	if flags == AnimNone || len(p) < AnimParamStride {
		a.Flags = AnimNone
		return a
	}
	if flags&AnimLinear != 0 {
		a.Linear = LinearParams{
			Target:   mgl32.Vec3{p[0], p[1], p[2]},
			Duration: p[3],
			Delay:    p[4],
			Mode:     LinearMode(p[5]),
		}
	}
	if flags&AnimRotate != 0 {
		a.Rotation = RotationParams{
			Axis:  mgl32.Vec3{p[6], p[7], p[8]},
			Speed: p[9],
			Angle: p[10],
			Mode:  RotateMode(p[5]),
		}
	}
	if flags&AnimPulse != 0 {
		a.Pulse = PulseParams{Speed: p[11], Amount: p[12], Target: uint8(p[13])}
	}
	a.sanitize()
	return a
}

func animBlock(animParams []float32, i int) []float32 {
	lo := i * AnimParamStride
	if animParams == nil || lo+AnimParamStride > len(animParams) {
		return nil
	}
	return animParams[lo : lo+AnimParamStride]
}

// BulkAddPoints appends up to len(positions)/4 point lights from flat
// arrays. animFlags and animParams may be nil for a fully static batch.
// When the batch would overflow the pool it is silently truncated; the
// return value is the number of lights actually ingested.
func (e *Engine) BulkAddPoints(positions, colors, decays []float32, animFlags []AnimFlags, animParams []float32) int {
	n := len(positions) / 4
	if m := len(colors) / 4; m < n {
		n = m
	}
	if len(decays) < n {
		n = len(decays)
	}

	if avail := e.capacity - e.points.count; n > avail {
		e.log.Warn("bulk point batch truncated",
			zap.Int("requested", n), zap.Int("ingested", avail))
		n = avail
	}

	for i := 0; i < n; i++ {
		pi := i * 4
		l := e.points.next()

		flags := AnimNone
		if animFlags != nil && i < len(animFlags) {
			flags = animFlags[i]
		}
		anim := decodePointAnim(flags, animBlock(animParams, i))

		e.initCore(&l.lightCore,
			mgl32.Vec3{positions[pi], positions[pi+1], positions[pi+2]}, positions[pi+3],
			mgl32.Vec3{colors[pi], colors[pi+1], colors[pi+2]}, colors[pi+3],
			decays[i], anim)
		l.BaseColor = l.Color

		e.points.commit()
	}

	if n > 0 {
		e.needsSort = true
		e.hasPoints = true
	}
	return n
}

// BulkAddLights appends a mixed batch. kinds tags each entry; positions,
// colors, decays and the animation arrays are indexed by the entry, while
// spotParams/rectParams are dense per-kind side arrays consumed in order
// by the spot and rect entries respectively. Entries whose pool is already
// full are skipped; the return value counts the lights actually ingested.
func (e *Engine) BulkAddLights(
	kinds []LightKind,
	positions, colors, decays []float32,
	animFlags []AnimFlags,
	animParams, spotParams, rectParams []float32,
) int {
	n := len(kinds)
	if m := len(positions) / 4; m < n {
		n = m
	}
	if m := len(colors) / 4; m < n {
		n = m
	}
	if len(decays) < n {
		n = len(decays)
	}

	added := 0
	spotIdx, rectIdx := 0, 0

	for i := 0; i < n; i++ {
		pi := i * 4
		pos := mgl32.Vec3{positions[pi], positions[pi+1], positions[pi+2]}
		radius := positions[pi+3]
		col := mgl32.Vec3{colors[pi], colors[pi+1], colors[pi+2]}
		intensity := colors[pi+3]

		flags := AnimNone
		if animFlags != nil && i < len(animFlags) {
			flags = animFlags[i]
		}

		switch kinds[i] {
		case KindPoint:
			if e.points.full() {
				continue
			}
			l := e.points.next()
			e.initCore(&l.lightCore, pos, radius, col, intensity, decays[i],
				decodePointAnim(flags, animBlock(animParams, i)))
			l.BaseColor = l.Color
			e.points.commit()
			e.hasPoints = true
			added++

		case KindSpot:
			si := spotIdx * SpotParamStride
			if si+SpotParamStride > len(spotParams) {
				continue
			}
			if e.spots.full() {
				continue
			}
			l := e.spots.next()
			e.initCore(&l.lightCore, pos, radius, col, intensity, decays[i],
				decodeOrientedAnim(flags, animBlock(animParams, i)))
			l.Direction = normalize3(spotParams[si], spotParams[si+1], spotParams[si+2])
			l.BaseDir = l.Direction
			l.Angle = spotParams[si+3]
			l.Penumbra = spotParams[si+4]
			e.spots.commit()
			e.hasSpots = true
			spotIdx++
			added++

		case KindRect:
			ri := rectIdx * RectParamStride
			if ri+RectParamStride > len(rectParams) {
				continue
			}
			if e.rects.full() {
				continue
			}
			l := e.rects.next()
			e.initCore(&l.lightCore, pos, radius, col, intensity, decays[i],
				decodeOrientedAnim(flags, animBlock(animParams, i)))
			l.Size = mgl32.Vec4{rectParams[ri], rectParams[ri+1], 0, 0}
			l.Normal = normalize3(rectParams[ri+2], rectParams[ri+3], rectParams[ri+4])
			l.BaseNormal = l.Normal
			l.Tangent, l.Bitangent = buildOrthonormalBasis(l.Normal)
			l.BaseTangent = l.Tangent
			l.BaseBitangent = l.Bitangent
			e.rects.commit()
			e.hasRects = true
			rectIdx++
			added++
		}
	}

	if added < n {
		e.log.Warn("bulk mixed batch truncated",
			zap.Int("requested", n), zap.Int("ingested", added))
	}
	if added > 0 {
		e.needsSort = true
	}
	return added
}
