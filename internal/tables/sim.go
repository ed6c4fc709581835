package tables

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/xkilldash9x/softphys/internal/host"
)

// NewSimHost builds a simulated host carrying every body, vertex, setting, morph
// and collider the default tables refer to.
func NewSimHost(opts host.SimOptions) (*host.SimHost, error) {
	h := host.NewSimHost(opts)
	h.AddRigidBody(ChestBody, mgl64.Vec3{})
	h.AddSoftBody(LeftBreastBody, mgl64.Vec3{0.08, -0.04, 0.12}, SpringLeft, DamperLeft, MassLeft)
	h.AddSoftBody(RightBreastBody, mgl64.Vec3{-0.08, -0.04, 0.12}, SpringRight, DamperRight, MassRight)

	vertices := []struct {
		body   string
		offset mgl64.Vec3
	}{
		{LeftBreastBody, mgl64.Vec3{0.005, 0, 0.03}},
		{LeftBreastBody, mgl64.Vec3{-0.005, 0, 0.03}},
		{RightBreastBody, mgl64.Vec3{0.005, 0, 0.03}},
		{RightBreastBody, mgl64.Vec3{-0.005, 0, 0.03}},
	}
	for _, v := range vertices {
		if _, err := h.AddVertex(v.body, v.offset); err != nil {
			return nil, fmt.Errorf("building simulated mesh: %w", err)
		}
	}

	for name, r := range SettingRanges() {
		h.AddSetting(name, r.Min, r.Max, r.Initial)
	}
	for _, name := range MorphNames() {
		h.AddMorph(name)
	}
	if _, err := h.AddCollider(LeftPectoral, LeftBreastBody, 0.04); err != nil {
		return nil, err
	}
	if _, err := h.AddCollider(RightPectoral, RightBreastBody, 0.04); err != nil {
		return nil, err
	}
	h.Step()
	return h, nil
}

// DefaultSimOptions runs physics at 60 Hz with a gentle sway.
func DefaultSimOptions() host.SimOptions {
	return host.SimOptions{
		FixedTimestep: 1.0 / 60.0,
		Seed:          1,
		Sway: host.Sway{
			PitchAmplitude: 40,
			RollAmplitude:  25,
			Bounce:         0.03,
			Frequency:      0.4,
		},
	}
}
