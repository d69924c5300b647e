package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EulerOrder selects the axis order of a node's Euler rotation mirror.
type EulerOrder uint8

const (
	EulerYXZ EulerOrder = iota
	EulerXYZ
)

// Node is one record of the scene graph arena. Position and Scale may be
// written directly; rotation goes through SetQuaternion or SetRotation so the
// quaternion and its Euler mirror stay in sync.
type Node struct {
	Kind    Kind
	Name    string
	Visible bool

	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Up       mgl32.Vec3

	// Matrix is the local matrix, WorldMatrix the composed one.
	Matrix                 mgl32.Mat4
	WorldMatrix            mgl32.Mat4
	MatrixAutoUpdate       bool
	WorldMatrixNeedsUpdate bool

	Camera *Camera
	Mesh   *Mesh

	id         NodeID
	parent     NodeID
	children   []NodeID
	quaternion mgl32.Quat
	rotation   mgl32.Vec3
	eulerOrder EulerOrder
}

func newNode(kind Kind) *Node {
	return &Node{
		Kind:             kind,
		Visible:          true,
		Scale:            mgl32.Vec3{1, 1, 1},
		Up:               mgl32.Vec3{0, 1, 0},
		Matrix:           mgl32.Ident4(),
		WorldMatrix:      mgl32.Ident4(),
		MatrixAutoUpdate: true,
		quaternion:       mgl32.QuatIdent(),
	}
}

func (n *Node) ID() NodeID { return n.id }

func (n *Node) Quaternion() mgl32.Quat { return n.quaternion }

// Rotation returns the Euler angles (radians) mirroring the quaternion.
func (n *Node) Rotation() mgl32.Vec3 { return n.rotation }

func (n *Node) EulerOrder() EulerOrder { return n.eulerOrder }

func (n *Node) SetQuaternion(q mgl32.Quat) {
	n.quaternion = q
	n.rotation = quatToEuler(q, n.eulerOrder)
}

// SetRotation sets Euler angles in radians.
func (n *Node) SetRotation(euler mgl32.Vec3) {
	n.rotation = euler
	n.quaternion = eulerToQuat(euler, n.eulerOrder)
}

// SetEulerOrder changes the mirror's axis order, keeping the orientation.
func (n *Node) SetEulerOrder(order EulerOrder) {
	n.eulerOrder = order
	n.rotation = quatToEuler(n.quaternion, order)
}

// UpdateMatrix composes the local matrix from position, quaternion and scale.
func (n *Node) UpdateMatrix() {
	n.Matrix = composeMatrix(n.Position, n.quaternion, n.Scale)
	n.WorldMatrixNeedsUpdate = true
}

// Decompose extracts position, quaternion and scale from the local matrix.
func (n *Node) Decompose() {
	m := n.Matrix
	n.Position = m.Col(3).Vec3()
	sx, sy, sz := mgl32.Extract3DScale(m)
	n.Scale = mgl32.Vec3{sx, sy, sz}
	n.SetQuaternion(rotationOf(m, n.Scale))
}

// LookAt rotates the node toward target (or away from it when invert is
// set). Only the orientation changes.
func (n *Node) LookAt(target mgl32.Vec3, invert bool) {
	var m mgl32.Mat4
	if invert {
		m = targetTo(n.Position, target, n.Up)
	} else {
		m = targetTo(target, n.Position, n.Up)
	}
	n.SetQuaternion(mgl32.Mat4ToQuat(m).Normalize())
}

func composeMatrix(pos mgl32.Vec3, q mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	translate := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	rotate := q.Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return translate.Mul4(rotate).Mul4(s)
}

// rotationOf returns the rotation of m with the given per-axis scale removed.
func rotationOf(m mgl32.Mat4, scale mgl32.Vec3) mgl32.Quat {
	var r mgl32.Mat4
	for c := 0; c < 3; c++ {
		s := scale[c]
		if s == 0 {
			s = 1
		}
		r.SetCol(c, m.Col(c).Mul(1/s))
	}
	r[15] = 1
	return mgl32.Mat4ToQuat(r).Normalize()
}

// targetTo builds a matrix at eye whose +Z axis points away from target.
func targetTo(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z = mgl32.Vec3{0, 0, 1}
	} else {
		z = z.Normalize()
	}
	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// up is parallel to z: nudge it off the axis.
		if up.Z() != 0 {
			up[0] += 1e-4
		} else if up.Y() != 0 {
			up[2] += 1e-4
		} else {
			up[1] += 1e-4
		}
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), eye.Vec4(1))
}

func eulerToQuat(e mgl32.Vec3, order EulerOrder) mgl32.Quat {
	qx := mgl32.QuatRotate(e.X(), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(e.Y(), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(e.Z(), mgl32.Vec3{0, 0, 1})
	if order == EulerXYZ {
		return qx.Mul(qy).Mul(qz)
	}
	return qy.Mul(qx).Mul(qz)
}

func quatToEuler(q mgl32.Quat, order EulerOrder) mgl32.Vec3 {
	m := q.Mat4()
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var e mgl32.Vec3
	if order == EulerXYZ {
		e[1] = math32.Asin(mgl32.Clamp(m13, -1, 1))
		if math32.Abs(m13) < 0.9999999 {
			e[0] = math32.Atan2(-m23, m33)
			e[2] = math32.Atan2(-m12, m11)
		} else {
			e[0] = math32.Atan2(m32, m22)
		}
		return e
	}
	e[0] = math32.Asin(-mgl32.Clamp(m23, -1, 1))
	if math32.Abs(m23) < 0.9999999 {
		e[1] = math32.Atan2(m13, m33)
		e[2] = math32.Atan2(m21, m22)
	} else {
		e[1] = math32.Atan2(-m31, m11)
	}
	return e
}
