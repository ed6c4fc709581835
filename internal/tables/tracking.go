package tables

import "github.com/xkilldash9x/softphys/internal/tracking"

// Vertex indices of the nipple regions on the simulated mesh.
var (
	LeftNippleVertices  = []int{0, 1}
	RightNippleVertices = []int{2, 3}
)

// TrackedPoints returns the default tracked points. Breast points follow the soft
// joints; nipple points follow skinned vertices and fall back to the breast joint
// on topologies without them.
func TrackedPoints() []tracking.PointSpec {
	return []tracking.PointSpec{
		{
			Name:      LeftBreastPoint,
			Kind:      tracking.SoftJointAverage,
			Bodies:    []string{LeftBreastBody},
			Reference: LeftBreastBody,
		},
		{
			Name:      RightBreastPoint,
			Kind:      tracking.SoftJointAverage,
			Bodies:    []string{RightBreastBody},
			Reference: RightBreastBody,
		},
		{
			Name:     LeftNipplePoint,
			Kind:     tracking.SkinnedVertexAverage,
			Vertices: LeftNippleVertices,
			Fallback: LeftBreastBody,
		},
		{
			Name:     RightNipplePoint,
			Kind:     tracking.SkinnedVertexAverage,
			Vertices: RightNippleVertices,
			Fallback: RightBreastBody,
		},
	}
}
