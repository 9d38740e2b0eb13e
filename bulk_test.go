package lumen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func flatPoints(n int) (positions, colors, decays []float32) {
	positions = make([]float32, n*4)
	colors = make([]float32, n*4)
	decays = make([]float32, n)
	for i := 0; i < n; i++ {
		positions[i*4+0] = float32(i * 10)
		positions[i*4+1] = 1
		positions[i*4+2] = float32(i * 10)
		positions[i*4+3] = 2 // radius
		colors[i*4+0] = 1
		colors[i*4+1] = 0.5
		colors[i*4+2] = 0.25
		colors[i*4+3] = float32(i + 1) // intensity
		decays[i] = 1.5
	}
	return positions, colors, decays
}

func TestBulkAddPoints_IngestsFlatArrays(t *testing.T) {
	e, err := NewEngine(16)
	if err != nil {
		t.Fatal(err)
	}
	positions, colors, decays := flatPoints(5)

	added := e.BulkAddPoints(positions, colors, decays, nil, nil)

	if added != 5 {
		t.Fatalf("added = %d, want 5", added)
	}
	if e.PointCount() != 5 {
		t.Fatalf("count = %d, want 5", e.PointCount())
	}
	l := &e.points.items[3]
	if l.BaseWorldPos != (mgl32.Vec4{30, 1, 30, 2}) {
		t.Errorf("light 3 position = %v", l.BaseWorldPos)
	}
	if l.BaseColor != (mgl32.Vec4{1, 0.5, 0.25, 4}) {
		t.Errorf("light 3 color = %v", l.BaseColor)
	}
	if l.Decay != 1.5 {
		t.Errorf("light 3 decay = %v", l.Decay)
	}
	if l.Morton != mortonKey(30, 30) {
		t.Errorf("light 3 morton key not derived from position")
	}
	if !e.HasPointLights() || e.HasAnimatedLights() {
		t.Error("static batch should set hasPoints only")
	}
}

func TestBulkAddPoints_CountFromShortestArray(t *testing.T) {
	e, _ := NewEngine(16)
	positions, colors, decays := flatPoints(5)

	// Only 3 decays provided; the batch shrinks to match.
	added := e.BulkAddPoints(positions, colors, decays[:3], nil, nil)
	if added != 3 {
		t.Errorf("added = %d, want 3", added)
	}
}

func TestBulkAddPoints_TruncatesAtCapacity(t *testing.T) {
	e, _ := NewEngine(4)
	positions, colors, decays := flatPoints(10)

	added := e.BulkAddPoints(positions, colors, decays, nil, nil)

	if added != 4 {
		t.Errorf("added = %d, want capacity 4", added)
	}
	if e.PointCount() != 4 {
		t.Errorf("count = %d, want 4", e.PointCount())
	}

	// A second batch on the full pool ingests nothing.
	if again := e.BulkAddPoints(positions, colors, decays, nil, nil); again != 0 {
		t.Errorf("second batch added %d, want 0", again)
	}
}

func TestBulkAddPoints_DecodesAnimationBlocks(t *testing.T) {
	e, _ := NewEngine(8)
	positions, colors, decays := flatPoints(2)

	flags := []AnimFlags{AnimNone, AnimCircular | AnimFlicker}
	params := make([]float32, 2*AnimParamStride)
	// Second light's block: circular speed/radius, flicker speed/intensity/seed.
	p := params[AnimParamStride:]
	p[0], p[1] = 2.5, 4
	p[8], p[9], p[10] = 7, 0.3, 1.25

	added := e.BulkAddPoints(positions, colors, decays, flags, params)
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}

	if got := e.PointAnimFlags(0); got != AnimNone {
		t.Errorf("light 0 flags = %v, want none", got)
	}
	if got := e.PointAnimFlags(1); got != AnimCircular|AnimFlicker {
		t.Errorf("light 1 flags = %v", got)
	}
	anim := e.points.items[1].Anim
	if anim.Circular != (CircularParams{Speed: 2.5, Radius: 4}) {
		t.Errorf("circular params = %+v", anim.Circular)
	}
	if anim.Flicker != (FlickerParams{Speed: 7, Intensity: 0.3, Seed: 1.25}) {
		t.Errorf("flicker params = %+v", anim.Flicker)
	}
	if !e.HasAnimatedLights() {
		t.Error("animated batch should raise the animated flag")
	}
}

func TestBulkAddLights_MixedKinds(t *testing.T) {
	e, _ := NewEngine(8)
	kinds := []LightKind{KindPoint, KindSpot, KindRect, KindPoint}
	positions, colors, decays := flatPoints(4)

	// One spot and one rect worth of side params, consumed in order.
	spotParams := []float32{0, -1, 0, 0.6, 0.1, 0}
	rectParams := []float32{3, 2, 0, 0, 1, 0}

	added := e.BulkAddLights(kinds, positions, colors, decays, nil, nil, spotParams, rectParams)

	if added != 4 {
		t.Fatalf("added = %d, want 4", added)
	}
	if e.PointCount() != 2 || e.SpotCount() != 1 || e.RectCount() != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", e.PointCount(), e.SpotCount(), e.RectCount())
	}

	spot := &e.spots.items[0]
	if spot.Direction != (mgl32.Vec4{0, -1, 0, 0}) {
		t.Errorf("spot direction = %v", spot.Direction)
	}
	if spot.Angle != 0.6 || spot.Penumbra != 0.1 {
		t.Errorf("spot cone = %v/%v", spot.Angle, spot.Penumbra)
	}

	rect := &e.rects.items[0]
	if rect.Size[0] != 3 || rect.Size[1] != 2 {
		t.Errorf("rect size = %v", rect.Size)
	}
	if rect.Normal != (mgl32.Vec4{0, 0, 1, 0}) {
		t.Errorf("rect normal = %v", rect.Normal)
	}
	if !floatNear(vecLen3(rect.Tangent), 1) {
		t.Errorf("rect tangent not built: %v", rect.Tangent)
	}
}

func TestBulkAddLights_SkipsEntriesMissingSideParams(t *testing.T) {
	e, _ := NewEngine(8)
	kinds := []LightKind{KindSpot, KindSpot, KindPoint}
	positions, colors, decays := flatPoints(3)

	// Side params for a single spot: the second spot entry is skipped,
	// the point after it still ingests.
	spotParams := []float32{0, -1, 0, 0.5, 0.1, 0}

	added := e.BulkAddLights(kinds, positions, colors, decays, nil, nil, spotParams, nil)

	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if e.SpotCount() != 1 || e.PointCount() != 1 {
		t.Errorf("counts = %d spots / %d points, want 1/1", e.SpotCount(), e.PointCount())
	}
}

func TestBulkAddLights_OrientedAnimationDecoding(t *testing.T) {
	e, _ := NewEngine(8)
	kinds := []LightKind{KindSpot}
	positions, colors, decays := flatPoints(1)
	spotParams := []float32{1, 0, 0, 0.5, 0.1, 0}

	flags := []AnimFlags{AnimRotate}
	params := make([]float32, AnimParamStride)
	params[5] = float32(RotateSwing) // mode shares the linear-mode slot
	params[6], params[7], params[8] = 0, 2, 0
	params[9] = 1.5 // speed
	params[10] = 0.8

	added := e.BulkAddLights(kinds, positions, colors, decays, flags, params, spotParams, nil)
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}

	rot := e.spots.items[0].Anim.Rotation
	if rot.Mode != RotateSwing {
		t.Errorf("mode = %v, want swing", rot.Mode)
	}
	if rot.Speed != 1.5 || rot.Angle != 0.8 {
		t.Errorf("rotation = %+v", rot)
	}
	if !floatNear(rot.Axis[1], 1) {
		t.Errorf("axis should be normalized, got %v", rot.Axis)
	}
}
