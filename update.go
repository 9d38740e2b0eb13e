package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
)

// classifyLOD tiers a light by its view depth relative to its radius,
// scaled by the global bias. Strict comparisons: an exact threshold value
// falls through to the more detailed tier. The batched path uses the same
// comparisons, so both paths agree at the boundaries.
func (e *Engine) classifyLOD(viewZ, radius float32) LOD {
	rel := -viewZ / (radius * e.lodBias)
	switch {
	case rel > lodSkipDistance:
		return LODSkip
	case rel > lodSimpleDistance:
		return LODSimple
	case rel > lodMediumDistance:
		return LODMedium
	default:
		return LODFull
	}
}

// culled reports whether the light's bounding sphere is entirely behind
// the camera (or inside the near plane) or beyond the far plane.
func (e *Engine) culled(viewZ, radius float32) bool {
	return viewZ > radius-e.near || viewZ < -e.far-radius
}

// Update runs the full per-frame pipeline over every live light: animate,
// transform to view space, LOD, cull, pack into the output buffers. The
// camera matrix is read once at the top. Returns true when any light's
// animated state was re-evaluated this frame.
func (e *Engine) Update(time float32) bool {
	vb := makeViewBasis(&e.camera)

	animated := false
	if e.hasPoints {
		if e.scalar {
			animated = e.updatePointsScalar(&vb, time) || animated
		} else {
			animated = e.updatePointsBatched(&vb, time) || animated
		}
	}
	if e.hasSpots {
		animated = e.updateSpots(&vb, time) || animated
	}
	if e.hasRects {
		animated = e.updateRects(&vb, time) || animated
	}
	return animated
}

// updatePointScalarOne is the per-light body shared by the scalar path and
// the batched path's remainder loop.
func (e *Engine) updatePointScalarOne(l *PointLight, d *PointLightData, vb *viewBasis, time float32) bool {
	animated := false
	if l.Anim.Flags != AnimNone {
		l.animate(time)
		animated = true
	} else {
		l.WorldPos = l.BaseWorldPos
	}

	l.ViewPos = vb.transformPoint(l.WorldPos[0], l.WorldPos[1], l.WorldPos[2], l.WorldPos[3])
	l.LODLevel = e.classifyLOD(l.ViewPos[2], l.WorldPos[3])
	culled := e.culled(l.ViewPos[2], l.WorldPos[3])

	d.PositionRadius = l.ViewPos
	d.ColorDecayVisible = mgl32.Vec4{
		l.Color[0] * l.Color[3],
		l.Color[1] * l.Color[3],
		l.Color[2] * l.Color[3],
		packPointParams(l.Decay, l.Visible && !culled, l.LODLevel),
	}

	l.Dirty = 0
	return animated
}

func (e *Engine) updatePointsScalar(vb *viewBasis, time float32) bool {
	animated := false
	for i := 0; i < e.points.count; i++ {
		if e.updatePointScalarOne(&e.points.items[i], &e.pointData[i], vb, time) {
			animated = true
		}
	}
	return animated
}

func (e *Engine) updateSpots(vb *viewBasis, time float32) bool {
	animated := false
	for i := 0; i < e.spots.count; i++ {
		l := &e.spots.items[i]
		d := &e.spotData[i]

		if l.Anim.Flags != AnimNone {
			l.animate(time)
			animated = true
		} else {
			l.WorldPos = l.BaseWorldPos
		}

		l.ViewPos = vb.transformPoint(l.WorldPos[0], l.WorldPos[1], l.WorldPos[2], l.WorldPos[3])
		l.ViewDir = vb.transformDir(l.Direction)
		l.LODLevel = e.classifyLOD(l.ViewPos[2], l.WorldPos[3])
		culled := e.culled(l.ViewPos[2], l.WorldPos[3])

		d.PositionRadius = l.ViewPos
		d.ColorIntensity = l.Color
		d.Direction = l.ViewDir
		d.AngleParams = mgl32.Vec4{
			cos32(l.Angle),
			cos32(l.Angle - l.Penumbra),
			l.Decay,
			packVisibleLOD(l.Visible && !culled, l.LODLevel),
		}

		l.Dirty = 0
	}
	return animated
}

func (e *Engine) updateRects(vb *viewBasis, time float32) bool {
	animated := false
	for i := 0; i < e.rects.count; i++ {
		l := &e.rects.items[i]
		d := &e.rectData[i]

		if l.Anim.Flags != AnimNone {
			l.animate(time)
			animated = true
		} else {
			l.WorldPos = l.BaseWorldPos
		}

		l.ViewPos = vb.transformPoint(l.WorldPos[0], l.WorldPos[1], l.WorldPos[2], l.WorldPos[3])
		l.ViewNormal = vb.transformDir(l.Normal)
		l.ViewTangent = vb.transformDir(l.Tangent)
		l.LODLevel = e.classifyLOD(l.ViewPos[2], l.WorldPos[3])
		culled := e.culled(l.ViewPos[2], l.WorldPos[3])

		d.PositionRadius = l.ViewPos
		d.ColorIntensity = l.Color
		d.SizeParams = mgl32.Vec4{
			l.Size[0],
			l.Size[1],
			l.Decay,
			packVisibleLOD(l.Visible && !culled, l.LODLevel),
		}
		d.Normal = l.ViewNormal
		d.Tangent = l.ViewTangent

		l.Dirty = 0
	}
	return animated
}
