package tracking

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/xkilldash9x/softphys/internal/host"
)

// Source yields a world-space sample. ok is false when the source cannot
// produce a position for the current body topology.
type Source interface {
	Position() (mgl64.Vec3, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (mgl64.Vec3, bool)

// Position implements Source.
func (f SourceFunc) Position() (mgl64.Vec3, bool) { return f() }

// Kind selects how a tracked point's position is measured. It is resolved once at setup.
type Kind int

const (
	// SoftJointAverage averages the positions of a set of soft-body joints.
	SoftJointAverage Kind = iota
	// Rigidbody follows a single rigidbody.
	Rigidbody
	// SkinnedVertexAverage averages a set of skinned-mesh vertices.
	SkinnedVertexAverage
)

func (k Kind) String() string {
	switch k {
	case SoftJointAverage:
		return "soft_joint_average"
	case Rigidbody:
		return "rigidbody"
	case SkinnedVertexAverage:
		return "skinned_vertex_average"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{SoftJointAverage, Rigidbody, SkinnedVertexAverage} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tracked point kind %q", s)
}

// BodySource follows one body.
func BodySource(b host.Body) Source {
	return SourceFunc(func() (mgl64.Vec3, bool) {
		if b == nil {
			return mgl64.Vec3{}, false
		}
		return b.Position(), true
	})
}

// AverageSource averages several bodies. It is unavailable when the set is empty.
func AverageSource(bodies []host.Body) Source {
	return SourceFunc(func() (mgl64.Vec3, bool) {
		if len(bodies) == 0 {
			return mgl64.Vec3{}, false
		}
		var sum mgl64.Vec3
		for _, b := range bodies {
			sum = sum.Add(b.Position())
		}
		return sum.Mul(1 / float64(len(bodies))), true
	})
}

// VertexSource averages skinned-mesh vertices. It is unavailable when the index
// list is empty or any index is missing from the current mesh.
func VertexSource(mesh host.Mesh, indices []int) Source {
	return SourceFunc(func() (mgl64.Vec3, bool) {
		if mesh == nil || len(indices) == 0 {
			return mgl64.Vec3{}, false
		}
		var sum mgl64.Vec3
		for _, idx := range indices {
			v, ok := mesh.Vertex(idx)
			if !ok {
				return mgl64.Vec3{}, false
			}
			sum = sum.Add(v)
		}
		return sum.Mul(1 / float64(len(indices))), true
	})
}

// WithFallback uses fallback whenever primary is unavailable.
func WithFallback(primary, fallback Source) Source {
	return SourceFunc(func() (mgl64.Vec3, bool) {
		if primary != nil {
			if p, ok := primary.Position(); ok {
				return p, true
			}
		}
		if fallback == nil {
			return mgl64.Vec3{}, false
		}
		return fallback.Position()
	})
}

// PointSpec describes how to resolve one tracked point against a host.
type PointSpec struct {
	Name string
	Kind Kind
	// Bodies lists joint names for SoftJointAverage, or the single rigidbody for Rigidbody.
	Bodies []string
	// Vertices lists mesh indices for SkinnedVertexAverage.
	Vertices []int
	// Fallback names a rigidbody used whenever the primary source is unavailable.
	Fallback string
	// Reference names the body whose depth is compared against its neutral depth.
	Reference string
}

// Resolve builds the point and reference sources for spec. Missing bodies are
// reported; a missing fallback or reference only degrades the source.
func Resolve(h host.Host, spec PointSpec) (point, reference Source, err error) {
	var primary Source
	switch spec.Kind {
	case Rigidbody:
		if len(spec.Bodies) == 0 {
			return nil, nil, fmt.Errorf("point %q: rigidbody kind needs a body name", spec.Name)
		}
		b, err := h.Body(spec.Bodies[0])
		if err != nil {
			return nil, nil, fmt.Errorf("point %q: %w", spec.Name, err)
		}
		primary = BodySource(b)
	case SoftJointAverage:
		bodies := make([]host.Body, 0, len(spec.Bodies))
		for _, name := range spec.Bodies {
			b, err := h.Body(name)
			if err != nil {
				return nil, nil, fmt.Errorf("point %q: %w", spec.Name, err)
			}
			bodies = append(bodies, b)
		}
		primary = AverageSource(bodies)
	case SkinnedVertexAverage:
		primary = VertexSource(h.Mesh(), spec.Vertices)
	default:
		return nil, nil, fmt.Errorf("point %q: %s is not a valid kind", spec.Name, spec.Kind)
	}

	point = primary
	if spec.Fallback != "" {
		if fb, fbErr := h.Body(spec.Fallback); fbErr == nil {
			point = WithFallback(primary, BodySource(fb))
		}
	}

	if spec.Reference != "" {
		if ref, refErr := h.Body(spec.Reference); refErr == nil {
			reference = BodySource(ref)
		}
	}
	return point, reference, nil
}
