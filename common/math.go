package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Orthographic creates an orthographic projection matrix for a box of the given extents.
// Depth is mapped into the WebGPU clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right, bottom, top: the view box extents
//   - near: near clipping plane distance
//   - far: far clipping plane distance (must differ from near)
func Orthographic(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is X * Y * Z, matching the intrinsic "XYZ" Euler convention. All matrices are column-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: the transform to encode
func BuildModelMatrix(out []float32, t Transform) {
	a, b := math32.Cos(t.Rotation[0]), math32.Sin(t.Rotation[0])
	c, d := math32.Cos(t.Rotation[1]), math32.Sin(t.Rotation[1])
	e, f := math32.Cos(t.Rotation[2]), math32.Sin(t.Rotation[2])
	ae, af, be, bf := a*e, a*f, b*e, b*f
	sx, sy, sz := t.Scale[0], t.Scale[1], t.Scale[2]

	out[0] = c * e * sx
	out[1] = (af + be*d) * sx
	out[2] = (bf - ae*d) * sx
	out[3] = 0

	out[4] = -c * f * sy
	out[5] = (ae - bf*d) * sy
	out[6] = (be + af*d) * sy
	out[7] = 0

	out[8] = d * sz
	out[9] = -b * c * sz
	out[10] = a * c * sz
	out[11] = 0

	out[12] = t.Position[0]
	out[13] = t.Position[1]
	out[14] = t.Position[2]
	out[15] = 1
}

// NormalMatrix writes the inverse-transpose of m into out so normals stay perpendicular under non-uniform scale.
// The translation column of the result is zeroed. A singular m yields the identity.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: the model matrix (16 elements, column-major)
func NormalMatrix(out, m []float32) {
	var inv [16]float32
	if !Invert4(inv[:], m) {
		Identity(out)
		return
	}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = inv[row*4+col]
		}
	}
	out[3], out[7], out[11] = 0, 0, 0
	out[12], out[13], out[14], out[15] = 0, 0, 0, 1
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return true
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eye, center, up [3]float32) {
	z0 := eye[0] - center[0]
	z1 := eye[1] - center[1]
	z2 := eye[2] - center[2]
	val := z0*z0 + z1*z1 + z2*z2
	if val == 0 {
		val = 1
	}
	invLen := 1.0 / math32.Sqrt(val)
	z0 *= invLen
	z1 *= invLen
	z2 *= invLen

	x0 := up[1]*z2 - up[2]*z1
	x1 := up[2]*z0 - up[0]*z2
	x2 := up[0]*z1 - up[1]*z0
	val = x0*x0 + x1*x1 + x2*x2
	if val == 0 {
		val = 1
	}
	invLen = 1.0 / math32.Sqrt(val)
	x0 *= invLen
	x1 *= invLen
	x2 *= invLen

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[4], out[8], out[12] = x0, x1, x2, -(x0*eye[0] + x1*eye[1] + x2*eye[2])
	out[1], out[5], out[9], out[13] = y0, y1, y2, -(y0*eye[0] + y1*eye[1] + y2*eye[2])
	out[2], out[6], out[10], out[14] = z0, z1, z2, -(z0*eye[0] + z1*eye[1] + z2*eye[2])
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Lerp3 linearly interpolates each component of a and b.
// The endpoints are returned exactly at t == 0 and t == 1.
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor
//
// Returns:
//   - [3]float32: the interpolated vector
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return [3]float32{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}
