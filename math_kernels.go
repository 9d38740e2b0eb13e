package lumen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }

// interleaveBits spreads the low 16 bits of x so a zero bit sits between
// each pair of adjacent source bits.
func interleaveBits(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// mortonKey builds the 32-bit Z-order key from the x/z plane coordinates.
// Coordinates are truncated to integers before interleaving: there is no
// fractional precision, and negative coordinates wrap through the unsigned
// conversion. Sub-unit-scale scenes therefore get degraded ordering; this
// matches the layout the renderer was tuned against and is kept as-is.
func mortonKey(x, z float32) uint32 {
	xi := uint32(int32(x))
	zi := uint32(int32(z))
	return interleaveBits(xi) | interleaveBits(zi)<<1
}

// viewBasis caches the affine part of the column-major camera matrix so
// the per-light transform is twelve multiply-adds with no indexing.
type viewBasis struct {
	e0, e1, e2    float32
	e4, e5, e6    float32
	e8, e9, e10   float32
	e12, e13, e14 float32
}

func makeViewBasis(m *mgl32.Mat4) viewBasis {
	return viewBasis{
		e0: m[0], e1: m[1], e2: m[2],
		e4: m[4], e5: m[5], e6: m[6],
		e8: m[8], e9: m[9], e10: m[10],
		e12: m[12], e13: m[13], e14: m[14],
	}
}

// transformPoint maps a world-space position into view space, carrying the
// radius through in w.
func (v *viewBasis) transformPoint(x, y, z, r float32) mgl32.Vec4 {
	return mgl32.Vec4{
		v.e0*x + v.e4*y + v.e8*z + v.e12,
		v.e1*x + v.e5*y + v.e9*z + v.e13,
		v.e2*x + v.e6*y + v.e10*z + v.e14,
		r,
	}
}

// transformDir maps a world-space direction into view space (rotation only)
// and renormalizes it. Zero-length input stays zero.
func (v *viewBasis) transformDir(d mgl32.Vec4) mgl32.Vec4 {
	out := mgl32.Vec4{
		v.e0*d[0] + v.e4*d[1] + v.e8*d[2],
		v.e1*d[0] + v.e5*d[1] + v.e9*d[2],
		v.e2*d[0] + v.e6*d[1] + v.e10*d[2],
		0,
	}
	len := float32(math.Sqrt(float64(out[0]*out[0] + out[1]*out[1] + out[2]*out[2])))
	if len > 0 {
		inv := 1 / len
		out[0] *= inv
		out[1] *= inv
		out[2] *= inv
	}
	return out
}

// rotateAroundAxis rotates v (xyz) around a unit axis by angle, in place,
// using Rodrigues' formula. w is untouched.
func rotateAroundAxis(v *mgl32.Vec4, axis mgl32.Vec3, angle float32) {
	c := cos32(angle)
	s := sin32(angle)
	dot := v[0]*axis[0] + v[1]*axis[1] + v[2]*axis[2]

	vx, vy, vz := v[0], v[1], v[2]

	v[0] = vx*c + (axis[1]*vz-axis[2]*vy)*s + axis[0]*dot*(1-c)
	v[1] = vy*c + (axis[2]*vx-axis[0]*vz)*s + axis[1]*dot*(1-c)
	v[2] = vz*c + (axis[0]*vy-axis[1]*vx)*s + axis[2]*dot*(1-c)
}

// buildOrthonormalBasis derives tangent and bitangent from a unit normal.
// The reference vector prefers world-up so a rect light's width maps to a
// horizontal axis whenever the normal allows it.
func buildOrthonormalBasis(normal mgl32.Vec4) (tangent, bitangent mgl32.Vec4) {
	reference := mgl32.Vec3{0, 1, 0}
	if abs32(normal[1]) >= 0.999 {
		reference = mgl32.Vec3{1, 0, 0}
	}

	t := reference.Cross(mgl32.Vec3{normal[0], normal[1], normal[2]})
	if t.Len() < 1e-6 {
		reference = mgl32.Vec3{0, 0, 1}
		t = reference.Cross(mgl32.Vec3{normal[0], normal[1], normal[2]})
	}

	if l := t.Len(); l > 0 {
		t = t.Mul(1 / l)
	} else {
		t = mgl32.Vec3{1, 0, 0}
	}
	tangent = mgl32.Vec4{t[0], t[1], t[2], 0}

	b := mgl32.Vec3{normal[0], normal[1], normal[2]}.Cross(t)
	if l := b.Len(); l > 0 {
		b = b.Mul(1 / l)
	}
	bitangent = mgl32.Vec4{b[0], b[1], b[2], 0}
	return tangent, bitangent
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// normalize3 scales the xyz part of v to unit length, leaving zero vectors
// alone, and returns it with w forced to 0.
func normalize3(x, y, z float32) mgl32.Vec4 {
	len := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if len > 0 {
		inv := 1 / len
		return mgl32.Vec4{x * inv, y * inv, z * inv, 0}
	}
	return mgl32.Vec4{0, 0, 0, 0}
}
