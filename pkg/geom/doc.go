// Package geom provides the small amount of 3D geometry the partitioner and
// stacker share: axis selection, printable volumes, shortest-arc rotations
// and axis-aligned bounding boxes.
//
// Vectors, matrices and boxes are the types of [github.com/deadsy/sdfx]
// ([v3.Vec], [sdf.M44], [sdf.Box3]) so that geometry handed over by an sdfx
// based mesh generator can be consumed without conversion.
//
// # Orientation
//
// Every region of the shell is measured in its natural print orientation:
// the (normalized) sum of its members' hole normals is rotated onto [Up]
// with [ToUp]. The rotation is the shortest arc between the two directions;
// when the direction is already up it is the identity, and when it points
// straight down it is a half turn about a fixed fallback axis so that the
// result never depends on float noise in an ill-conditioned cross product.
//
// # Tolerance
//
// Extents are compared with [Epsilon] slack so that exact-fit inputs (a unit
// box against a unit bed) are not rejected because of rounding in the
// rotation.
package geom
