package tables

import (
	"github.com/xkilldash9x/softphys/internal/collider"
	"github.com/xkilldash9x/softphys/internal/physics"
)

func pectoral(name string) collider.Config {
	return collider.Config{
		Name:        name,
		Reference:   ChestBody,
		Radius:      &physics.StaticConfig{MinMminS: 0.035, MaxMminS: 0.055, MinMmaxS: 0.03},
		Forward:     &physics.StaticConfig{MinMminS: 0.005, MaxMminS: 0.012, MinMmaxS: 0.004},
		Mass:        &physics.StaticConfig{MinMminS: 0.05, MaxMminS: 0.2, MinMmaxS: 0.05},
		Friction:    &physics.StaticConfig{MinMminS: 1, MaxMminS: 1, MinMmaxS: 0.6},
		Compression: 0.4,
	}
}

// Colliders returns the default hard colliders.
func Colliders() []collider.Config {
	return []collider.Config{pectoral(LeftPectoral), pectoral(RightPectoral)}
}
