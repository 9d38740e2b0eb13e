package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Creation

// initCore fills the fields every kind shares at creation time.
func (e *Engine) initCore(c *lightCore, pos mgl32.Vec3, radius float32, color mgl32.Vec3, intensity, decay float32, anim Animation) {
	c.BaseWorldPos = mgl32.Vec4{pos[0], pos[1], pos[2], radius}
	c.WorldPos = c.BaseWorldPos
	c.Color = mgl32.Vec4{color[0], color[1], color[2], intensity}
	c.Decay = decay
	c.Morton = mortonKey(pos[0], pos[2])
	c.Dirty = DirtyAll
	c.Visible = true
	c.LODLevel = LODFull
	c.ShadowIntensity = defaultShadowIntensity

	anim.sanitize()
	c.Anim = anim
	if anim.Flags != AnimNone {
		e.hasAnimated = true
	}
}

// AddPoint appends a static point light. Returns the light's index, or -1
// when the pool is at capacity.
func (e *Engine) AddPoint(d PointDesc) int {
	return e.AddPointAnimated(d, Animation{})
}

// AddPointAnimated appends a point light with a full animation descriptor.
func (e *Engine) AddPointAnimated(d PointDesc, anim Animation) int {
	if e.points.full() {
		e.log.Debug("point light pool full", zap.Int("capacity", e.capacity))
		return -1
	}
	l := e.points.next()
	e.initCore(&l.lightCore, d.Position, d.Radius, d.Color, d.Intensity, d.Decay, anim)
	l.BaseColor = l.Color

	e.needsSort = true
	e.hasPoints = true
	return e.points.commit()
}

// AddPointFast is the cheap append for mass uniform lights: decay is fixed
// at the neutral 1.0 and no dirty tracking is set up.
func (e *Engine) AddPointFast(pos mgl32.Vec3, radius float32, color mgl32.Vec3, intensity float32) int {
	if e.points.full() {
		return -1
	}
	l := e.points.next()
	l.BaseWorldPos = mgl32.Vec4{pos[0], pos[1], pos[2], radius}
	l.WorldPos = l.BaseWorldPos
	l.BaseColor = mgl32.Vec4{color[0], color[1], color[2], intensity}
	l.Color = l.BaseColor
	l.Decay = 1
	l.Morton = mortonKey(pos[0], pos[2])
	l.Visible = true
	l.LODLevel = LODFull
	l.ShadowIntensity = defaultShadowIntensity

	e.needsSort = true
	e.hasPoints = true
	return e.points.commit()
}

func (e *Engine) AddSpot(d SpotDesc) int {
	return e.AddSpotAnimated(d, Animation{})
}

func (e *Engine) AddSpotAnimated(d SpotDesc, anim Animation) int {
	if e.spots.full() {
		e.log.Debug("spot light pool full", zap.Int("capacity", e.capacity))
		return -1
	}
	l := e.spots.next()
	e.initCore(&l.lightCore, d.Position, d.Radius, d.Color, d.Intensity, d.Decay, anim)
	l.Direction = normalize3(d.Direction[0], d.Direction[1], d.Direction[2])
	l.BaseDir = l.Direction
	l.Angle = d.Angle
	l.Penumbra = d.Penumbra

	e.needsSort = true
	e.hasSpots = true
	return e.spots.commit()
}

func (e *Engine) AddRect(d RectDesc) int {
	return e.AddRectAnimated(d, Animation{})
}

func (e *Engine) AddRectAnimated(d RectDesc, anim Animation) int {
	if e.rects.full() {
		e.log.Debug("rect light pool full", zap.Int("capacity", e.capacity))
		return -1
	}
	l := e.rects.next()
	e.initCore(&l.lightCore, d.Position, d.Radius, d.Color, d.Intensity, d.Decay, anim)
	l.Size = mgl32.Vec4{d.Width, d.Height, 0, 0}
	l.Normal = normalize3(d.Normal[0], d.Normal[1], d.Normal[2])
	l.BaseNormal = l.Normal
	l.Tangent, l.Bitangent = buildOrthonormalBasis(l.Normal)
	l.BaseTangent = l.Tangent
	l.BaseBitangent = l.Bitangent

	e.needsSort = true
	e.hasRects = true
	return e.rects.commit()
}

// Removal and slot reuse

// RemovePoint compacts the pool over the removed slot. Removing an
// animated light triggers a rescan of all three pools, since it may have
// been the last animated one. Out-of-range indices are a no-op.
func (e *Engine) RemovePoint(idx int) {
	c := coreAt(&e.points, idx)
	if c == nil {
		return
	}
	wasAnimated := c.Anim.Flags != AnimNone
	e.points.removeAt(idx)
	if wasAnimated {
		e.refreshAnimatedFlag()
	}
	e.needsSort = true
	e.hasPoints = e.points.count > 0
}

func (e *Engine) RemoveSpot(idx int) {
	c := coreAt(&e.spots, idx)
	if c == nil {
		return
	}
	wasAnimated := c.Anim.Flags != AnimNone
	e.spots.removeAt(idx)
	if wasAnimated {
		e.refreshAnimatedFlag()
	}
	e.needsSort = true
	e.hasSpots = e.spots.count > 0
}

func (e *Engine) RemoveRect(idx int) {
	c := coreAt(&e.rects, idx)
	if c == nil {
		return
	}
	wasAnimated := c.Anim.Flags != AnimNone
	e.rects.removeAt(idx)
	if wasAnimated {
		e.refreshAnimatedFlag()
	}
	e.needsSort = true
	e.hasRects = e.rects.count > 0
}

// SetPointCount adjusts the live count directly so a host can reuse
// pre-populated slots without re-creating lights. Clamped to the pool's
// capacity contract: invalid counts are ignored.
func (e *Engine) SetPointCount(n int) {
	if e.points.setCount(n) {
		e.hasPoints = n > 0
	}
}

func (e *Engine) SetSpotCount(n int) {
	if e.spots.setCount(n) {
		e.hasSpots = n > 0
	}
}

func (e *Engine) SetRectCount(n int) {
	if e.rects.setCount(n) {
		e.hasRects = n > 0
	}
}

// Shared attribute setters
//
// One generic body per attribute; the exported per-kind functions below
// are thin wrappers. Every setter is a silent no-op on a bad index and
// marks the relevant dirty bit; position setters also invalidate the
// spatial ordering.

func (e *Engine) setBasePosition(c *lightCore, x, y, z float32) {
	if c == nil {
		return
	}
	c.BaseWorldPos[0], c.BaseWorldPos[1], c.BaseWorldPos[2] = x, y, z
	c.WorldPos[0], c.WorldPos[1], c.WorldPos[2] = x, y, z
	c.Morton = mortonKey(x, z)
	c.Dirty |= DirtyPosition
	e.needsSort = true
}

func setColor(c *lightCore, r, g, b float32) {
	if c == nil {
		return
	}
	c.Color[0], c.Color[1], c.Color[2] = r, g, b
	c.Dirty |= DirtyColor
}

func setIntensity(c *lightCore, intensity float32) {
	if c == nil {
		return
	}
	c.Color[3] = intensity
	c.Dirty |= DirtyColor
}

func setRadius(c *lightCore, radius float32) {
	if c == nil {
		return
	}
	c.BaseWorldPos[3] = radius
	c.WorldPos[3] = radius
	c.Dirty |= DirtyPosition
}

func setDecay(c *lightCore, decay float32) {
	if c == nil {
		return
	}
	c.Decay = decay
	c.Dirty |= DirtyParams
}

func setVisible(c *lightCore, visible bool) {
	if c == nil {
		return
	}
	c.Visible = visible
	c.Dirty |= DirtyParams
}

func setShadow(c *lightCore, casts bool, intensity float32) {
	if c == nil {
		return
	}
	c.CastsShadow = casts
	c.ShadowIntensity = intensity
	c.Dirty |= DirtyParams
}

// setAnimation replaces the whole descriptor. Switching to a non-empty
// descriptor raises the engine-wide animated flag; switching to empty
// leaves it for the next removal rescan to settle.
func (e *Engine) setAnimation(c *lightCore, anim Animation) {
	if c == nil {
		return
	}
	anim.sanitize()
	c.Anim = anim
	if anim.Flags != AnimNone {
		e.hasAnimated = true
	}
	c.Dirty |= DirtyAll
}

// Per-kind wrappers

func (e *Engine) SetPointPosition(idx int, x, y, z float32) {
	e.setBasePosition(coreAt(&e.points, idx), x, y, z)
}
func (e *Engine) SetSpotPosition(idx int, x, y, z float32) {
	e.setBasePosition(coreAt(&e.spots, idx), x, y, z)
}
func (e *Engine) SetRectPosition(idx int, x, y, z float32) {
	e.setBasePosition(coreAt(&e.rects, idx), x, y, z)
}

func (e *Engine) SetPointColor(idx int, r, g, b float32) { setColor(coreAt(&e.points, idx), r, g, b) }
func (e *Engine) SetSpotColor(idx int, r, g, b float32)  { setColor(coreAt(&e.spots, idx), r, g, b) }
func (e *Engine) SetRectColor(idx int, r, g, b float32)  { setColor(coreAt(&e.rects, idx), r, g, b) }

func (e *Engine) SetPointIntensity(idx int, v float32) { setIntensity(coreAt(&e.points, idx), v) }
func (e *Engine) SetSpotIntensity(idx int, v float32)  { setIntensity(coreAt(&e.spots, idx), v) }
func (e *Engine) SetRectIntensity(idx int, v float32)  { setIntensity(coreAt(&e.rects, idx), v) }

func (e *Engine) SetPointRadius(idx int, v float32) { setRadius(coreAt(&e.points, idx), v) }
func (e *Engine) SetSpotRadius(idx int, v float32)  { setRadius(coreAt(&e.spots, idx), v) }
func (e *Engine) SetRectRadius(idx int, v float32)  { setRadius(coreAt(&e.rects, idx), v) }

func (e *Engine) SetPointDecay(idx int, v float32) { setDecay(coreAt(&e.points, idx), v) }
func (e *Engine) SetSpotDecay(idx int, v float32)  { setDecay(coreAt(&e.spots, idx), v) }
func (e *Engine) SetRectDecay(idx int, v float32)  { setDecay(coreAt(&e.rects, idx), v) }

func (e *Engine) SetPointVisible(idx int, v bool) { setVisible(coreAt(&e.points, idx), v) }
func (e *Engine) SetSpotVisible(idx int, v bool)  { setVisible(coreAt(&e.spots, idx), v) }
func (e *Engine) SetRectVisible(idx int, v bool)  { setVisible(coreAt(&e.rects, idx), v) }

func (e *Engine) SetPointShadow(idx int, casts bool, intensity float32) {
	setShadow(coreAt(&e.points, idx), casts, intensity)
}
func (e *Engine) SetSpotShadow(idx int, casts bool, intensity float32) {
	setShadow(coreAt(&e.spots, idx), casts, intensity)
}
func (e *Engine) SetRectShadow(idx int, casts bool, intensity float32) {
	setShadow(coreAt(&e.rects, idx), casts, intensity)
}

func (e *Engine) SetPointAnimation(idx int, anim Animation) {
	e.setAnimation(coreAt(&e.points, idx), anim)
}
func (e *Engine) SetSpotAnimation(idx int, anim Animation) {
	e.setAnimation(coreAt(&e.spots, idx), anim)
}
func (e *Engine) SetRectAnimation(idx int, anim Animation) {
	e.setAnimation(coreAt(&e.rects, idx), anim)
}

// Kind-specific setters

// SetSpotDirection renormalizes and stores a new aim direction. Vectors
// shorter than 1e-4 are rejected to avoid blowing up the normalization.
func (e *Engine) SetSpotDirection(idx int, dx, dy, dz float32) {
	if idx < 0 || idx >= e.spots.count {
		return
	}
	if dx*dx+dy*dy+dz*dz < 1e-4*1e-4 {
		return
	}
	l := &e.spots.items[idx]
	l.Direction = normalize3(dx, dy, dz)
	l.BaseDir = l.Direction
	l.Dirty |= DirtyParams
}

func (e *Engine) SetSpotAngle(idx int, angle, penumbra float32) {
	if idx < 0 || idx >= e.spots.count {
		return
	}
	l := &e.spots.items[idx]
	l.Angle = angle
	l.Penumbra = penumbra
	l.Dirty |= DirtyParams
}

func (e *Engine) SetRectSize(idx int, width, height float32) {
	if idx < 0 || idx >= e.rects.count {
		return
	}
	l := &e.rects.items[idx]
	l.Size[0] = width
	l.Size[1] = height
	l.Dirty |= DirtyParams
}

// SetRectNormal replaces the emitting plane's normal and rebuilds the full
// tangent frame from it.
func (e *Engine) SetRectNormal(idx int, nx, ny, nz float32) {
	if idx < 0 || idx >= e.rects.count {
		return
	}
	if nx*nx+ny*ny+nz*nz < 1e-4*1e-4 {
		return
	}
	l := &e.rects.items[idx]
	l.Normal = normalize3(nx, ny, nz)
	l.BaseNormal = l.Normal
	l.Tangent, l.Bitangent = buildOrthonormalBasis(l.Normal)
	l.BaseTangent = l.Tangent
	l.BaseBitangent = l.Bitangent
	l.Dirty |= DirtyParams
}
