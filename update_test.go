package lumen

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUpdate_PacksStaticPoint(t *testing.T) {
	e, err := NewEngine(10)
	if err != nil {
		t.Fatal(err)
	}
	idx := e.AddPoint(PointDesc{
		Position:  mgl32.Vec3{0, 0, 0},
		Radius:    5,
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 2,
		Decay:     2,
	})
	if idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}

	e.SetCameraMatrix(mgl32.Translate3D(0, 0, -20))
	if animated := e.Update(0); animated {
		t.Error("static scene reported animated")
	}

	out := e.PointLightBuffer()
	if len(out) != 1 {
		t.Fatalf("expected 1 packed record, got %d", len(out))
	}
	if out[0].PositionRadius != (mgl32.Vec4{0, 0, -20, 5}) {
		t.Errorf("positionRadius = %v, want (0,0,-20,5)", out[0].PositionRadius)
	}
	// decay 2 -> 200, visible -> +10, distance/radius = 4 -> full detail -> +3.
	if out[0].ColorDecayVisible != (mgl32.Vec4{2, 2, 2, 213}) {
		t.Errorf("colorDecayVisible = %v, want (2,2,2,213)", out[0].ColorDecayVisible)
	}
	if e.PointLOD(0) != LODFull {
		t.Errorf("lod = %d, want full", e.PointLOD(0))
	}
}

func TestClassifyLOD_Tiers(t *testing.T) {
	e, _ := NewEngine(1)
	cases := []struct {
		dist float32
		want LOD
	}{
		{4, LODFull},
		{7, LODFull}, // exact threshold lands in the more detailed tier
		{7.01, LODMedium},
		{15, LODMedium},
		{15.01, LODSimple},
		{30, LODSimple},
		{30.01, LODSkip},
		{500, LODSkip},
	}
	for _, c := range cases {
		if got := e.classifyLOD(-c.dist, 1); got != c.want {
			t.Errorf("classifyLOD(dist=%v) = %d, want %d", c.dist, got, c.want)
		}
		// The 4-wide classifier must agree exactly, including at the
		// boundaries.
		viewZ := lane4{-c.dist, -c.dist, -c.dist, -c.dist}
		radius := lane4{1, 1, 1, 1}
		if got := e.classifyLOD4(&viewZ, &radius); got[0] != c.want {
			t.Errorf("classifyLOD4(dist=%v) = %d, want %d", c.dist, got[0], c.want)
		}
	}
}

func TestLODBias_ScalesThresholds(t *testing.T) {
	e, _ := NewEngine(1)
	e.SetLODBias(2)
	// dist/radius = 20 would be simple at bias 1; bias 2 halves the
	// relative distance to 10, landing in medium.
	if got := e.classifyLOD(-20, 1); got != LODMedium {
		t.Errorf("biased lod = %d, want medium", got)
	}
}

func TestCulled_Boundaries(t *testing.T) {
	e, _ := NewEngine(1)
	e.SetViewFrustum(0.1, 1000)

	// Sphere fully behind the near plane: viewZ > radius - near.
	if !e.culled(4.95, 5) {
		t.Error("light behind the camera should cull")
	}
	if e.culled(4.85, 5) {
		t.Error("light still straddling the near plane should not cull")
	}

	// Beyond the far plane: viewZ < -far - radius.
	if !e.culled(-1005.1, 5) {
		t.Error("light past the far plane should cull")
	}
	if e.culled(-1004.9, 5) {
		t.Error("light straddling the far plane should not cull")
	}
}

func TestCulled_ExactBoundaryIsVisible(t *testing.T) {
	e, _ := NewEngine(1)
	e.SetViewFrustum(0.1, 1000)
	radius := float32(5)

	// Strict comparators on both planes: a sphere sitting exactly on a
	// boundary stays visible, one epsilon beyond it culls.
	nearBoundary := radius - e.near
	if e.culled(nearBoundary, radius) {
		t.Error("light exactly on the near boundary should not cull")
	}
	if !e.culled(nearBoundary+0.001, radius) {
		t.Error("light just past the near boundary should cull")
	}

	farBoundary := -e.far - radius
	if e.culled(farBoundary, radius) {
		t.Error("light exactly on the far boundary should not cull")
	}
	if !e.culled(farBoundary-0.001, radius) {
		t.Error("light just past the far boundary should cull")
	}
}

func TestUpdate_CulledLightPacksInvisible(t *testing.T) {
	e, _ := NewEngine(4)
	e.AddPoint(PointDesc{Position: mgl32.Vec3{0, 0, 50}, Radius: 1, Color: mgl32.Vec3{1, 0, 0}, Intensity: 1, Decay: 1})
	e.Update(0) // identity camera: viewZ = 50, far behind the eye

	packed := e.PointLightBuffer()[0].ColorDecayVisible[3]
	visible := int(packed) / 10 % 10
	if visible != 0 {
		t.Errorf("culled light packed as visible: %v", packed)
	}
}

func TestUpdate_ScalarAndBatchedAgree(t *testing.T) {
	build := func(opts ...Option) *Engine {
		e, err := NewEngine(32, opts...)
		if err != nil {
			t.Fatal(err)
		}
		rng := rand.New(rand.NewSource(99))
		// 11 lights: two full groups of four plus a remainder of three.
		for i := 0; i < 11; i++ {
			d := PointDesc{
				Position:  mgl32.Vec3{rng.Float32()*200 - 100, rng.Float32() * 10, rng.Float32()*200 - 100},
				Radius:    1 + rng.Float32()*10,
				Color:     mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()},
				Intensity: rng.Float32() * 3,
				Decay:     1 + rng.Float32(),
			}
			var anim Animation
			switch i % 3 {
			case 1:
				anim = Animation{Flags: AnimCircular, Circular: CircularParams{Speed: 2, Radius: 5}}
			case 2:
				anim = Animation{Flags: AnimFlicker | AnimPulse,
					Flicker: FlickerParams{Speed: 7, Intensity: 0.4, Seed: float32(i)},
					Pulse:   PulseParams{Speed: 3, Amount: 0.2, Target: PulseRadius}}
			}
			e.AddPointAnimated(d, anim)
		}
		e.SetCameraMatrix(mgl32.Translate3D(0, -5, -80))
		return e
	}

	batched := build()
	scalar := build(WithScalarUpdates())

	for _, time := range []float32{0, 0.37, 2.5, 100} {
		batched.Update(time)
		scalar.Update(time)
		b := batched.PointLightBuffer()
		s := scalar.PointLightBuffer()
		for i := range b {
			if b[i] != s[i] {
				t.Fatalf("t=%v light %d: batched %+v vs scalar %+v", time, i, b[i], s[i])
			}
		}
	}
}

func TestUpdate_ReportsAnimated(t *testing.T) {
	e, _ := NewEngine(8)
	e.AddPoint(PointDesc{Position: mgl32.Vec3{0, 0, -10}, Radius: 1, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Decay: 1})
	if e.Update(0) {
		t.Error("static point reported animated")
	}

	idx := e.AddPointAnimated(
		PointDesc{Position: mgl32.Vec3{5, 0, -10}, Radius: 1, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Decay: 1},
		Animation{Flags: AnimCircular, Circular: CircularParams{Speed: 1, Radius: 1}})
	if !e.Update(0) {
		t.Error("animated point not reported")
	}

	e.RemovePoint(idx)
	if e.Update(0) {
		t.Error("animated flag survived removal of the only animated light")
	}
}

func TestUpdate_SpotPacksConeAndDirection(t *testing.T) {
	e, _ := NewEngine(4)
	angle := float32(0.6)
	penumbra := float32(0.1)
	e.AddSpot(SpotDesc{
		Position:  mgl32.Vec3{0, 10, -30},
		Radius:    40,
		Color:     mgl32.Vec3{1, 0.5, 0.25},
		Intensity: 3,
		Direction: mgl32.Vec3{0, -2, 0}, // non-unit on purpose
		Angle:     angle,
		Penumbra:  penumbra,
		Decay:     1.5,
	})
	e.Update(0)

	out := e.SpotLightBuffer()[0]
	if out.ColorIntensity != (mgl32.Vec4{1, 0.5, 0.25, 3}) {
		t.Errorf("colorIntensity = %v", out.ColorIntensity)
	}
	if !floatNear(out.Direction[1], -1) {
		t.Errorf("direction should be renormalized, got %v", out.Direction)
	}
	if !floatNear(out.AngleParams[0], cos32(angle)) || !floatNear(out.AngleParams[1], cos32(angle-penumbra)) {
		t.Errorf("cone cosines = %v", out.AngleParams)
	}
	if !floatNear(out.AngleParams[2], 1.5) {
		t.Errorf("decay = %v, want 1.5", out.AngleParams[2])
	}
	lod := int(out.AngleParams[3]) % 10
	visible := int(out.AngleParams[3]) / 10
	if visible != 1 {
		t.Errorf("spot should be visible, packed %v", out.AngleParams[3])
	}
	if lod != int(LODFull) {
		t.Errorf("lod = %d, want full", lod)
	}
}

func TestUpdate_RectPacksFrame(t *testing.T) {
	e, _ := NewEngine(4)
	e.AddRect(RectDesc{
		Position:  mgl32.Vec3{0, 5, -20},
		Radius:    25,
		Width:     4,
		Height:    2,
		Normal:    mgl32.Vec3{0, 0, 1},
		Color:     mgl32.Vec3{1, 1, 0},
		Intensity: 2,
		Decay:     1,
	})
	e.Update(0)

	out := e.RectLightBuffer()[0]
	if out.SizeParams[0] != 4 || out.SizeParams[1] != 2 {
		t.Errorf("size = %v, want 4x2", out.SizeParams)
	}
	if d := dot3(out.Normal, out.Tangent); !floatNear(d, 0) {
		t.Errorf("packed frame not orthogonal, dot = %v", d)
	}
	if !floatNear(vecLen3(out.Normal), 1) || !floatNear(vecLen3(out.Tangent), 1) {
		t.Errorf("packed frame not unit length: %v, %v", out.Normal, out.Tangent)
	}
}

func TestUpdate_ClearsDirty(t *testing.T) {
	e, _ := NewEngine(4)
	idx := e.AddPoint(PointDesc{Position: mgl32.Vec3{0, 0, -5}, Radius: 1, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Decay: 1})
	if e.points.items[idx].Dirty != DirtyAll {
		t.Fatal("freshly added light should carry all dirty bits")
	}
	e.Update(0)
	if e.points.items[idx].Dirty != 0 {
		t.Error("dirty bits should clear after packing")
	}
	e.SetPointColor(idx, 0, 1, 0)
	if e.points.items[idx].Dirty != DirtyColor {
		t.Error("color setter should mark the color dirty bit")
	}
}

func TestUpdatePointsPositional_NeutralPacking(t *testing.T) {
	e, _ := NewEngine(16)
	rng := rand.New(rand.NewSource(5))
	// 10 lights so the lane loop and the remainder both run.
	for i := 0; i < 10; i++ {
		e.AddPointFast(
			mgl32.Vec3{rng.Float32() * 100, 0, rng.Float32() * 100},
			2, mgl32.Vec3{1, 1, 1}, 2)
	}
	e.SetCameraMatrix(mgl32.Translate3D(0, 0, -50))
	e.UpdatePointsPositional(0)

	for i, d := range e.PointLightBuffer() {
		if d.ColorDecayVisible[3] != 1 {
			t.Errorf("light %d: positional path must pack the neutral param, got %v",
				i, d.ColorDecayVisible[3])
		}
		if d.ColorDecayVisible[0] != 2 {
			t.Errorf("light %d: premultiplied color = %v, want 2", i, d.ColorDecayVisible[0])
		}
	}
}

func TestUpdateCircularOrbits_StaggersPhase(t *testing.T) {
	e, _ := NewEngine(8)
	anim := Animation{Flags: AnimCircular, Circular: CircularParams{Speed: 1, Radius: 3}}
	for i := 0; i < 4; i++ {
		e.AddPointAnimated(
			PointDesc{Position: mgl32.Vec3{0, 0, 0}, Radius: 1, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Decay: 1},
			anim)
	}

	e.UpdateCircularOrbits(1)

	// Identical lights at staggered phases must land at distinct spots.
	for i := 1; i < 4; i++ {
		if e.points.items[i].WorldPos == e.points.items[0].WorldPos {
			t.Errorf("light %d shares light 0's orbit position", i)
		}
	}
	// Slot 0 has no stagger; it should match the plain orbit equation.
	want := sin32(1) * 3
	if !floatNear(e.points.items[0].WorldPos[0], want) {
		t.Errorf("slot 0 x = %v, want %v", e.points.items[0].WorldPos[0], want)
	}
}

func TestUpdate_AnimatedSpotRotatesAboutAxis(t *testing.T) {
	e, _ := NewEngine(4)
	idx := e.AddSpotAnimated(SpotDesc{
		Position:  mgl32.Vec3{0, 0, -10},
		Radius:    20,
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
		Direction: mgl32.Vec3{1, 0, 0},
		Angle:     0.5,
		Penumbra:  0.1,
		Decay:     1,
	}, Animation{
		Flags: AnimRotate,
		Rotation: RotationParams{
			Axis:  mgl32.Vec3{0, 1, 0},
			Speed: 1,
			Angle: math.Pi / 2,
			Mode:  RotateSwing,
		},
	})

	if !e.Update(math.Pi / 2) {
		t.Fatal("rotating spot should report animated")
	}
	dir := e.SpotLightBuffer()[idx].Direction
	if !floatNear(dir[0], 0) || !floatNear(dir[2], -1) {
		t.Errorf("rotated direction = %v, want (0,0,-1)", dir)
	}
}
