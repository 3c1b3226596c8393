package common

import "math"

// Vec2 is a 2D vector with float32 components.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D vector with float32 components.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion with float32 components. The identity
// rotation is {0, 0, 0, 1}.
type Quat struct {
	X, Y, Z, W float32
}

// Add returns the component-wise sum of two vectors.
//
// Parameters:
//   - o: the vector to add
//
// Returns:
//   - Vec2: the sum v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns the component-wise difference of two vectors.
//
// Parameters:
//   - o: the vector to subtract
//
// Returns:
//   - Vec2: the difference v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns the vector multiplied by a scalar.
//
// Parameters:
//   - s: the scalar factor
//
// Returns:
//   - Vec2: the scaled vector
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of two vectors.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - float32: the dot product
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// LengthSquared returns the squared euclidean length of the vector.
//
// Returns:
//   - float32: the squared length
func (v Vec2) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns the euclidean length of the vector.
//
// Returns:
//   - float32: the length
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Distance returns the euclidean distance between two points.
//
// Parameters:
//   - o: the other point
//
// Returns:
//   - float32: the distance between v and o
func (v Vec2) Distance(o Vec2) float32 {
	return v.Sub(o).Length()
}

// Min returns the component-wise minimum of two vectors.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - Vec2: the component-wise minimum
func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{min(v.X, o.X), min(v.Y, o.Y)}
}

// Max returns the component-wise maximum of two vectors.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - Vec2: the component-wise maximum
func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{max(v.X, o.X), max(v.Y, o.Y)}
}

// Add returns the component-wise sum of two vectors.
//
// Parameters:
//   - o: the vector to add
//
// Returns:
//   - Vec3: the sum v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of two vectors.
//
// Parameters:
//   - o: the vector to subtract
//
// Returns:
//   - Vec3: the difference v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns the vector multiplied by a scalar.
//
// Parameters:
//   - s: the scalar factor
//
// Returns:
//   - Vec3: the scaled vector
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of two vectors.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - float32: the dot product
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length of the vector.
//
// Returns:
//   - float32: the length
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Lerp linearly interpolates between two vectors. The factor is not
// clamped, values outside [0, 1] extrapolate.
//
// Parameters:
//   - o: the target vector
//   - f: the interpolation factor
//
// Returns:
//   - Vec3: the interpolated vector
func (v Vec3) Lerp(o Vec3, f float32) Vec3 {
	return v.Add(o.Sub(v).Scale(f))
}

// Lerp linearly interpolates between two scalars. The factor is not
// clamped, values outside [0, 1] extrapolate.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - f: the interpolation factor
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, f float32) float32 {
	return a + (b-a)*f
}

// Clamp limits a value to the inclusive range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(v, lo, hi float32) float32 {
	return max(min(v, hi), lo)
}

// RemEuclid returns the euclidean remainder of a/b, always in [0, b) for
// positive b. Unlike math.Mod the result is never negative.
//
// Parameters:
//   - a: the dividend
//   - b: the divisor
//
// Returns:
//   - float32: the non-negative remainder
func RemEuclid(a, b float32) float32 {
	r := float32(math.Mod(float64(a), float64(b)))
	if r < 0 {
		r += float32(math.Abs(float64(b)))
	}
	return r
}

// QuatIdentity returns the identity rotation.
//
// Returns:
//   - Quat: the identity quaternion {0, 0, 0, 1}
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle constructs a quaternion representing a rotation of
// angle radians around the given axis. The axis does not need to be
// normalized.
//
// Parameters:
//   - axis: the rotation axis
//   - angle: the rotation angle in radians
//
// Returns:
//   - Quat: the resulting rotation
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	l := axis.Length()
	if l == 0 {
		return QuatIdentity()
	}
	s := float32(math.Sin(float64(angle) / 2))
	c := float32(math.Cos(float64(angle) / 2))
	n := axis.Scale(s / l)
	return Quat{n.X, n.Y, n.Z, c}
}

// Dot returns the 4D dot product of two quaternions.
//
// Parameters:
//   - o: the other quaternion
//
// Returns:
//   - float32: the dot product
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Add returns the component-wise sum of two quaternions. This is a raw
// 4D vector addition, not a rotation composition.
//
// Parameters:
//   - o: the quaternion to add
//
// Returns:
//   - Quat: the component-wise sum
func (q Quat) Add(o Quat) Quat {
	return Quat{q.X + o.X, q.Y + o.Y, q.Z + o.Z, q.W + o.W}
}

// Sub returns the component-wise difference of two quaternions.
//
// Parameters:
//   - o: the quaternion to subtract
//
// Returns:
//   - Quat: the component-wise difference
func (q Quat) Sub(o Quat) Quat {
	return Quat{q.X - o.X, q.Y - o.Y, q.Z - o.Z, q.W - o.W}
}

// Scale returns the quaternion with all components multiplied by a
// scalar. This is a raw 4D scaling, not a rotation operation.
//
// Parameters:
//   - s: the scalar factor
//
// Returns:
//   - Quat: the scaled quaternion
func (q Quat) Scale(s float32) Quat {
	return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

// Length returns the 4D euclidean length of the quaternion.
//
// Returns:
//   - float32: the length
func (q Quat) Length() float32 {
	return float32(math.Sqrt(float64(q.Dot(q))))
}

// Normalize returns the quaternion scaled to unit length. A zero
// quaternion normalizes to the identity.
//
// Returns:
//   - Quat: the normalized quaternion
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return QuatIdentity()
	}
	return q.Scale(1 / l)
}

// Mul composes two rotations. The result applies o first, then q.
//
// Parameters:
//   - o: the rotation applied first
//
// Returns:
//   - Quat: the composed rotation q * o
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Inverse returns the inverse rotation. Assumes a unit quaternion, for
// which the inverse is the conjugate.
//
// Returns:
//   - Quat: the inverse rotation
func (q Quat) Inverse() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Slerp spherically interpolates between two rotations. No shortest-path
// correction is applied here; callers that need it (keyframe sampling)
// flip the sign of the target quaternion beforehand. Falls back to
// normalized linear interpolation when the quaternions are nearly
// parallel to avoid division by a vanishing sine.
//
// Parameters:
//   - o: the target rotation
//   - f: the interpolation factor
//
// Returns:
//   - Quat: the interpolated rotation
func (q Quat) Slerp(o Quat, f float32) Quat {
	d := q.Dot(o)
	if d > 0.9995 || d < -0.9995 {
		return q.Add(o.Sub(q).Scale(f)).Normalize()
	}
	theta := math.Acos(float64(Clamp(d, -1, 1)))
	sinTheta := math.Sin(theta)
	wa := float32(math.Sin((1-float64(f))*theta) / sinTheta)
	wb := float32(math.Sin(float64(f)*theta) / sinTheta)
	return q.Scale(wa).Add(o.Scale(wb))
}

// AngleTo returns the absolute rotation angle in radians between two unit
// quaternions.
//
// Parameters:
//   - o: the other rotation
//
// Returns:
//   - float32: the angle of the relative rotation, in [0, pi]
func (q Quat) AngleTo(o Quat) float32 {
	d := q.Dot(o)
	if d < 0 {
		d = -d
	}
	return float32(2 * math.Acos(float64(min(d, 1))))
}
