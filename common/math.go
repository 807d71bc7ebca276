package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// QuatIdentity is the identity rotation in glTF component order (x, y, z, w).
var QuatIdentity = [4]float32{0, 0, 0, 1}

// QuatToMGL converts a quaternion stored in glTF order (x, y, z, w) into an mgl32.Quat.
//
// Parameters:
//   - q: the quaternion as [x, y, z, w]
//
// Returns:
//   - mgl32.Quat: the equivalent mgl32 quaternion
func QuatToMGL(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

// QuatFromMGL converts an mgl32.Quat into glTF component order (x, y, z, w).
//
// Parameters:
//   - q: the mgl32 quaternion
//
// Returns:
//   - [4]float32: the quaternion as [x, y, z, w]
func QuatFromMGL(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// QuatFromSlice copies the first four components of s into a quaternion array.
// Missing components are left at zero.
func QuatFromSlice(s []float32) [4]float32 {
	var q [4]float32
	copy(q[:], s)
	return q
}

// NormalizeQuat returns the unit quaternion pointing in the same direction as q.
// A zero-length quaternion normalizes to the identity rotation.
//
// Parameters:
//   - q: the quaternion as [x, y, z, w]
//
// Returns:
//   - [4]float32: the normalized quaternion
func NormalizeQuat(q [4]float32) [4]float32 {
	return QuatFromMGL(QuatToMGL(q).Normalize())
}

// SlerpQuat spherically interpolates between two rotations along the shortest arc.
// Inputs need not be normalized; the result always has unit length.
//
// Parameters:
//   - a: the rotation at u = 0, as [x, y, z, w]
//   - b: the rotation at u = 1, as [x, y, z, w]
//   - u: the interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func SlerpQuat(a, b [4]float32, u float32) [4]float32 {
	qa := QuatToMGL(a).Normalize()
	qb := QuatToMGL(b).Normalize()
	if u <= 0 {
		return QuatFromMGL(qa)
	}
	if u >= 1 {
		return QuatFromMGL(qb)
	}
	return QuatFromMGL(mgl32.QuatSlerp(qa, qb, u).Normalize())
}

// QuatLength returns the Euclidean norm of q.
func QuatLength(q [4]float32) float32 {
	return QuatToMGL(q).Len()
}

// LerpInto writes the component-wise linear interpolation (1-u)*a + u*b into out.
// The formulation is exact at both endpoints. out, a and b must have equal length;
// out may alias a or b.
//
// Parameters:
//   - out: destination slice
//   - a: the value at u = 0
//   - b: the value at u = 1
//   - u: the interpolation factor
func LerpInto(out, a, b []float32, u float32) {
	for i := range out {
		out[i] = (1-u)*a[i] + u*b[i]
	}
}

// ScaleInto writes s*a into out.
func ScaleInto(out, a []float32, s float32) {
	for i := range out {
		out[i] = a[i] * s
	}
}

// AddScaled accumulates s*a into out.
func AddScaled(out, a []float32, s float32) {
	for i := range out {
		out[i] += a[i] * s
	}
}

// Zero clears every component of out.
func Zero(out []float32) {
	for i := range out {
		out[i] = 0
	}
}

// HermiteBasis evaluates the four cubic Hermite basis functions at t.
//
// Parameters:
//   - t: the normalized interval position in [0, 1]
//
// Returns:
//   - h00: weight of the start value
//   - h10: weight of the start tangent
//   - h01: weight of the end value
//   - h11: weight of the end tangent
func HermiteBasis(t float32) (h00, h10, h01, h11 float32) {
	t2 := t * t
	t3 := t2 * t
	h00 = 2*t3 - 3*t2 + 1
	h10 = t3 - 2*t2 + t
	h01 = -2*t3 + 3*t2
	h11 = t3 - t2
	return
}

// Mod returns the floating-point remainder of x / y with the sign of x.
// A zero divisor yields zero.
func Mod(x, y float32) float32 {
	if y == 0 {
		return 0
	}
	return float32(math.Mod(float64(x), float64(y)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return mgl32.Clamp(v, lo, hi)
}

// ModelMatrix composes a column-major TRS matrix from a translation, a rotation
// quaternion in (x, y, z, w) order and a scale.
//
// Parameters:
//   - pos: the translation
//   - rot: the rotation quaternion, normalized before use
//   - scale: the per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: translation * rotation * scale
func ModelMatrix(pos [3]float32, rot [4]float32, scale [3]float32) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	r := QuatToMGL(rot).Normalize().Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// ApproxEqual reports whether a and b differ by no more than eps.
func ApproxEqual(a, b, eps float32) bool {
	return mgl32.Abs(a-b) <= eps
}
