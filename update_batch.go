package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
)

// The batched point path processes four lights in lockstep: positions are
// gathered into lanes, the view transform runs as straight-line lane
// arithmetic the compiler can vectorize, and LOD/cull/pack fan back out
// per lane. Output is bit-identical to the scalar path since both use the
// same operations in the same order per lane.

type lane4 [4]float32

// classifyLOD4 tiers four lights at once. Same thresholds and the same
// strict comparisons as the scalar classifier, so exact threshold values
// resolve identically on both paths.
func (e *Engine) classifyLOD4(viewZ, radius *lane4) [4]LOD {
	var out [4]LOD
	for j := 0; j < 4; j++ {
		rel := -viewZ[j] / (radius[j] * e.lodBias)
		switch {
		case rel > lodSkipDistance:
			out[j] = LODSkip
		case rel > lodSimpleDistance:
			out[j] = LODSimple
		case rel > lodMediumDistance:
			out[j] = LODMedium
		default:
			out[j] = LODFull
		}
	}
	return out
}

func (e *Engine) updatePointsBatched(vb *viewBasis, time float32) bool {
	n := e.points.count
	items := e.points.items
	animated := false

	var wx, wy, wz, vx, vy, vz, rad lane4

	i := 0
	for ; i+3 < n; i += 4 {
		group := items[i : i+4 : i+4]

		// One flag check for the whole group; fully static groups skip the
		// evaluator and just copy base positions.
		if group[0].Anim.Flags|group[1].Anim.Flags|group[2].Anim.Flags|group[3].Anim.Flags != AnimNone {
			for j := range group {
				group[j].animate(time)
			}
			animated = true
		} else {
			for j := range group {
				group[j].WorldPos = group[j].BaseWorldPos
			}
		}

		for j := range group {
			wx[j] = group[j].WorldPos[0]
			wy[j] = group[j].WorldPos[1]
			wz[j] = group[j].WorldPos[2]
			rad[j] = group[j].WorldPos[3]
		}

		for j := 0; j < 4; j++ {
			vx[j] = vb.e0*wx[j] + vb.e4*wy[j] + vb.e8*wz[j] + vb.e12
			vy[j] = vb.e1*wx[j] + vb.e5*wy[j] + vb.e9*wz[j] + vb.e13
			vz[j] = vb.e2*wx[j] + vb.e6*wy[j] + vb.e10*wz[j] + vb.e14
		}

		lods := e.classifyLOD4(&vz, &rad)

		for j := range group {
			l := &group[j]
			l.ViewPos = mgl32.Vec4{vx[j], vy[j], vz[j], rad[j]}
			l.LODLevel = lods[j]
			culled := e.culled(vz[j], rad[j])

			d := &e.pointData[i+j]
			d.PositionRadius = l.ViewPos
			d.ColorDecayVisible = mgl32.Vec4{
				l.Color[0] * l.Color[3],
				l.Color[1] * l.Color[3],
				l.Color[2] * l.Color[3],
				packPointParams(l.Decay, l.Visible && !culled, l.LODLevel),
			}
			l.Dirty = 0
		}
	}

	// Remainder runs through the scalar body.
	for ; i < n; i++ {
		if e.updatePointScalarOne(&items[i], &e.pointData[i], vb, time) {
			animated = true
		}
	}
	return animated
}

// UpdatePointsPositional is the throughput path for huge uniform-intensity
// point sets: positions (with the optional circular orbit) are transformed
// and packed, but LOD, culling and decay are skipped. The packed param is
// fixed at the neutral 1.0, so the consumer treats every light as visible
// and full detail.
func (e *Engine) UpdatePointsPositional(time float32) {
	vb := makeViewBasis(&e.camera)
	n := e.points.count
	items := e.points.items

	var wx, wy, wz, vx, vy, vz lane4

	i := 0
	for ; i+3 < n; i += 4 {
		group := items[i : i+4 : i+4]

		if e.hasAnimated {
			for j := range group {
				l := &group[j]
				if l.Anim.Flags&AnimCircular != 0 {
					phase := time * l.Anim.Circular.Speed
					l.WorldPos[0] = l.BaseWorldPos[0] + sin32(phase)*l.Anim.Circular.Radius
					l.WorldPos[2] = l.BaseWorldPos[2] + cos32(phase)*l.Anim.Circular.Radius
				} else {
					l.WorldPos = l.BaseWorldPos
				}
			}
		}

		for j := range group {
			wx[j] = group[j].WorldPos[0]
			wy[j] = group[j].WorldPos[1]
			wz[j] = group[j].WorldPos[2]
		}

		for j := 0; j < 4; j++ {
			vx[j] = vb.e0*wx[j] + vb.e4*wy[j] + vb.e8*wz[j] + vb.e12
			vy[j] = vb.e1*wx[j] + vb.e5*wy[j] + vb.e9*wz[j] + vb.e13
			vz[j] = vb.e2*wx[j] + vb.e6*wy[j] + vb.e10*wz[j] + vb.e14
		}

		for j := range group {
			l := &group[j]
			l.ViewPos = mgl32.Vec4{vx[j], vy[j], vz[j], l.WorldPos[3]}

			d := &e.pointData[i+j]
			d.PositionRadius = l.ViewPos
			d.ColorDecayVisible = mgl32.Vec4{
				l.Color[0] * l.Color[3],
				l.Color[1] * l.Color[3],
				l.Color[2] * l.Color[3],
				1,
			}
		}
	}

	for ; i < n; i++ {
		l := &items[i]
		if e.hasAnimated && l.Anim.Flags&AnimCircular != 0 {
			phase := time * l.Anim.Circular.Speed
			l.WorldPos[0] = l.BaseWorldPos[0] + sin32(phase)*l.Anim.Circular.Radius
			l.WorldPos[2] = l.BaseWorldPos[2] + cos32(phase)*l.Anim.Circular.Radius
		} else {
			l.WorldPos = l.BaseWorldPos
		}

		l.ViewPos = vb.transformPoint(l.WorldPos[0], l.WorldPos[1], l.WorldPos[2], l.WorldPos[3])

		d := &e.pointData[i]
		d.PositionRadius = l.ViewPos
		d.ColorDecayVisible = mgl32.Vec4{
			l.Color[0] * l.Color[3],
			l.Color[1] * l.Color[3],
			l.Color[2] * l.Color[3],
			1,
		}
	}
}

// UpdateCircularOrbits advances only the circular-orbit world positions,
// staggering each light's phase by its slot index so mass orbits don't
// move in visual lockstep. No transform or pack happens here; it exists
// for hosts that interleave cheap orbit ticks between full updates.
func (e *Engine) UpdateCircularOrbits(time float32) {
	for i := 0; i < e.points.count; i++ {
		l := &e.points.items[i]
		if l.Anim.Flags&AnimCircular == 0 {
			continue
		}
		phase := time*l.Anim.Circular.Speed + float32(i)*0.1
		l.WorldPos[0] = l.BaseWorldPos[0] + sin32(phase)*l.Anim.Circular.Radius
		l.WorldPos[2] = l.BaseWorldPos[2] + cos32(phase)*l.Anim.Circular.Radius
	}
}
