package lumen

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultShadowIntensity = 0.3

// Engine owns the authoritative light data and runs the per-frame update:
// animate, transform to view space, LOD, cull, pack. All state lives here;
// there are no package-level globals, so multiple engines can coexist.
//
// The engine is single-threaded by contract. Every call runs to completion
// on the caller's goroutine and the output buffers are stable for the
// engine's lifetime, which is what lets a renderer bind them zero-copy.
type Engine struct {
	points lightArray[PointLight]
	spots  lightArray[SpotLight]
	rects  lightArray[RectLight]

	pointData []PointLightData
	spotData  []SpotLightData
	rectData  []RectLightData

	// camera is the view matrix storage. The host writes into it through
	// CameraMatrix (or SetCameraMatrix); the engine only reads it, once
	// per Update.
	camera mgl32.Mat4

	capacity int

	near    float32
	far     float32
	lodBias float32

	needsSort   bool
	hasAnimated bool
	hasPoints   bool
	hasSpots    bool
	hasRects    bool

	// scalar forces the one-at-a-time point path. The batched path is the
	// default; both produce identical output.
	scalar bool

	log *zap.Logger
	id  string
}

type Option func(*Engine)

// WithLogger attaches a structured logger for lifecycle events. The hot
// per-light paths never log.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithScalarUpdates disables the 4-wide batched point path.
func WithScalarUpdates() Option {
	return func(e *Engine) { e.scalar = true }
}

// NewEngine allocates every pool, scratch twin and output buffer up front,
// sized for capacity lights per kind. Nothing reallocates afterwards.
func NewEngine(capacity int, opts ...Option) (*Engine, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("lumen: capacity must be positive, got %d", capacity)
	}

	e := &Engine{
		points:    makeLightArray[PointLight](capacity),
		spots:     makeLightArray[SpotLight](capacity),
		rects:     makeLightArray[RectLight](capacity),
		pointData: make([]PointLightData, capacity),
		spotData:  make([]SpotLightData, capacity),
		rectData:  make([]RectLightData, capacity),
		camera:    mgl32.Ident4(),
		capacity:  capacity,
		near:      0.1,
		far:       1000,
		lodBias:   1,
		log:       zap.NewNop(),
		id:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.String("engine", e.id))
	e.log.Info("light engine initialized", zap.Int("capacity", capacity))
	return e, nil
}

// Reset zeroes all live counts and flags without releasing memory, so the
// host can repopulate from scratch into the same allocation.
func (e *Engine) Reset() {
	e.points.count = 0
	e.spots.count = 0
	e.rects.count = 0
	e.needsSort = false
	e.hasAnimated = false
	e.hasPoints = false
	e.hasSpots = false
	e.hasRects = false
}

// Close releases every pool and output buffer. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	e.Reset()
	e.points = lightArray[PointLight]{}
	e.spots = lightArray[SpotLight]{}
	e.rects = lightArray[RectLight]{}
	e.pointData = nil
	e.spotData = nil
	e.rectData = nil
	e.capacity = 0
	e.log.Info("light engine closed")
}

func (e *Engine) Capacity() int { return e.capacity }

// SetViewFrustum sets the near/far planes the culling step tests against.
func (e *Engine) SetViewFrustum(near, far float32) {
	e.near = near
	e.far = far
}

// SetLODBias scales every light's LOD distance globally. Values above 1
// push lights into cheaper tiers sooner; default is 1.
func (e *Engine) SetLODBias(bias float32) { e.lodBias = bias }

func (e *Engine) LODBias() float32 { return e.lodBias }

// CameraMatrix exposes the column-major view matrix storage. The host
// writes the camera's view matrix here before each Update; the engine
// reads it and never writes it.
func (e *Engine) CameraMatrix() *mgl32.Mat4 { return &e.camera }

func (e *Engine) SetCameraMatrix(m mgl32.Mat4) { e.camera = m }

func (e *Engine) PointCount() int { return e.points.count }
func (e *Engine) SpotCount() int  { return e.spots.count }
func (e *Engine) RectCount() int  { return e.rects.count }

func (e *Engine) HasAnimatedLights() bool { return e.hasAnimated }
func (e *Engine) HasPointLights() bool    { return e.hasPoints }
func (e *Engine) HasSpotLights() bool     { return e.hasSpots }
func (e *Engine) HasRectLights() bool     { return e.hasRects }

// PointLightBuffer returns the live prefix of the packed point records.
// The backing array never moves, so the slice stays valid for the
// engine's lifetime; treat it as read-only.
func (e *Engine) PointLightBuffer() []PointLightData { return e.pointData[:e.points.count] }
func (e *Engine) SpotLightBuffer() []SpotLightData   { return e.spotData[:e.spots.count] }
func (e *Engine) RectLightBuffer() []RectLightData   { return e.rectData[:e.rects.count] }

// Per-light introspection, bounds-checked with a neutral zero default.

func (e *Engine) PointLOD(idx int) LOD {
	if c := coreAt(&e.points, idx); c != nil {
		return c.LODLevel
	}
	return 0
}

func (e *Engine) SpotLOD(idx int) LOD {
	if c := coreAt(&e.spots, idx); c != nil {
		return c.LODLevel
	}
	return 0
}

func (e *Engine) RectLOD(idx int) LOD {
	if c := coreAt(&e.rects, idx); c != nil {
		return c.LODLevel
	}
	return 0
}

func (e *Engine) PointAnimFlags(idx int) AnimFlags {
	if c := coreAt(&e.points, idx); c != nil {
		return c.Anim.Flags
	}
	return AnimNone
}

func (e *Engine) SpotAnimFlags(idx int) AnimFlags {
	if c := coreAt(&e.spots, idx); c != nil {
		return c.Anim.Flags
	}
	return AnimNone
}

func (e *Engine) RectAnimFlags(idx int) AnimFlags {
	if c := coreAt(&e.rects, idx); c != nil {
		return c.Anim.Flags
	}
	return AnimNone
}

// Sort reorders each pool by ascending Morton key, but only when something
// invalidated the ordering (creation, removal, explicit position change).
// Kinds sort independently; relative order across kinds is undefined.
func (e *Engine) Sort() {
	if !e.needsSort {
		return
	}
	radixSortByMorton(&e.points)
	radixSortByMorton(&e.spots)
	radixSortByMorton(&e.rects)
	e.needsSort = false
	e.log.Debug("light pools re-sorted",
		zap.Int("points", e.points.count),
		zap.Int("spots", e.spots.count),
		zap.Int("rects", e.rects.count))
}

// refreshAnimatedFlag rescans all three pools. Called after removing an
// animated light, since it may have been the last one.
func (e *Engine) refreshAnimatedFlag() {
	e.hasAnimated = anyAnimated(&e.points) || anyAnimated(&e.spots) || anyAnimated(&e.rects)
}
