package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightKind uint8

const (
	KindPoint LightKind = 0
	KindSpot  LightKind = 1
	KindRect  LightKind = 2
)

// LOD tier assigned to a light from its apparent distance. Higher is
// more detailed; the consumer picks the shading treatment per tier.
type LOD uint8

const (
	LODSkip   LOD = 0
	LODSimple LOD = 1
	LODMedium LOD = 2
	LODFull   LOD = 3
)

// Relative-distance thresholds for LOD classification (distance divided
// by radius times the global bias). Strictly-greater comparisons: a light
// sitting exactly on a threshold lands in the more detailed tier.
const (
	lodSkipDistance   = 30.0
	lodSimpleDistance = 15.0
	lodMediumDistance = 7.0
)

// Host-side change tracking bits, cleared after each pack.
const (
	DirtyPosition uint8 = 0x1
	DirtyColor    uint8 = 0x2
	DirtyParams   uint8 = 0x4
	DirtyAll      uint8 = DirtyPosition | DirtyColor | DirtyParams
)

// lightCore holds the fields shared by all three light kinds. The concrete
// light structs embed it, which lets the store, the sort and the generic
// attribute setters operate on any kind through one code path.
type lightCore struct {
	// BaseWorldPos is the authored position (xyz) and radius (w). It only
	// changes through explicit setters; animation never touches it, so the
	// Morton key derived from it stays valid across frames.
	BaseWorldPos mgl32.Vec4

	// AnimOffset is the transient displacement computed by the animation
	// evaluator. Recomputed from scratch every frame, never carried over.
	AnimOffset mgl32.Vec4

	// WorldPos = BaseWorldPos + AnimOffset, w = effective radius this frame.
	WorldPos mgl32.Vec4

	// Color rgb plus intensity in w, as fed to the pack stage.
	Color mgl32.Vec4

	// ViewPos is WorldPos transformed by the camera matrix, w = radius.
	ViewPos mgl32.Vec4

	Anim  Animation
	Decay float32

	// Morton is the spatial sort key, derived from BaseWorldPos x/z only.
	Morton uint32

	Dirty    uint8
	Visible  bool
	LODLevel LOD

	// Shadow attributes are pass-through: stored and exposed, never
	// computed here.
	CastsShadow     bool
	ShadowIntensity float32
}

func (c *lightCore) core() *lightCore { return c }

// PointLight keeps the authored color separately so flicker and pulse can
// rescale intensity from the authored value every frame.
type PointLight struct {
	lightCore
	BaseColor mgl32.Vec4
}

type SpotLight struct {
	lightCore
	Direction mgl32.Vec4 // xyz unit direction
	ViewDir   mgl32.Vec4
	BaseDir   mgl32.Vec4 // pre-rotation direction
	Angle     float32    // cone angle in radians
	Penumbra  float32
}

type RectLight struct {
	lightCore
	Size      mgl32.Vec4 // x = width, y = height
	Normal    mgl32.Vec4
	Tangent   mgl32.Vec4
	Bitangent mgl32.Vec4

	ViewNormal  mgl32.Vec4
	ViewTangent mgl32.Vec4

	BaseNormal    mgl32.Vec4
	BaseTangent   mgl32.Vec4
	BaseBitangent mgl32.Vec4
}

// PointLightData is the packed per-light record handed to the renderer.
// ColorDecayVisible.W() encodes decay*100 + visible*10 + lod in one float
// so the shader unpacks a single attribute.
type PointLightData struct {
	PositionRadius    mgl32.Vec4 // view-space xyz, w = radius
	ColorDecayVisible mgl32.Vec4 // rgb premultiplied by intensity
}

type SpotLightData struct {
	PositionRadius mgl32.Vec4
	ColorIntensity mgl32.Vec4 // rgb = color, w = intensity
	Direction      mgl32.Vec4 // view-space unit direction
	AngleParams    mgl32.Vec4 // cos(angle), cos(angle-penumbra), decay, visible*10+lod
}

type RectLightData struct {
	PositionRadius mgl32.Vec4
	ColorIntensity mgl32.Vec4
	SizeParams     mgl32.Vec4 // width, height, decay, visible*10+lod
	Normal         mgl32.Vec4 // view-space unit normal
	Tangent        mgl32.Vec4 // view-space unit tangent
}

// PointDesc describes a point light at creation time.
type PointDesc struct {
	Position  mgl32.Vec3
	Radius    float32
	Color     mgl32.Vec3
	Intensity float32
	Decay     float32
}

type SpotDesc struct {
	Position  mgl32.Vec3
	Radius    float32
	Color     mgl32.Vec3
	Intensity float32
	Direction mgl32.Vec3 // normalized on ingest
	Angle     float32
	Penumbra  float32
	Decay     float32
}

type RectDesc struct {
	Position  mgl32.Vec3
	Radius    float32
	Width     float32
	Height    float32
	Normal    mgl32.Vec3 // normalized on ingest
	Color     mgl32.Vec3
	Intensity float32
	Decay     float32
}

func packPointParams(decay float32, visible bool, lod LOD) float32 {
	v := float32(0)
	if visible {
		v = 10
	}
	return decay*100 + v + float32(lod)
}

func packVisibleLOD(visible bool, lod LOD) float32 {
	v := float32(0)
	if visible {
		v = 10
	}
	return v + float32(lod)
}
