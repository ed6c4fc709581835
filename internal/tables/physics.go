package tables

import (
	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
	"github.com/xkilldash9x/softphys/internal/physics"
)

// SettingRange is the declared range and initial value of a host setting.
type SettingRange struct {
	Min, Max, Initial float64
}

// SettingRanges returns the range of every physics setting the tables publish to.
func SettingRanges() map[string]SettingRange {
	return map[string]SettingRange{
		SpringLeft:        {Min: 5, Max: 200, Initial: 60},
		SpringRight:       {Min: 5, Max: 200, Initial: 60},
		DamperLeft:        {Min: 0, Max: 20, Initial: 2},
		DamperRight:       {Min: 0, Max: 20, Initial: 2},
		MassLeft:          {Min: 0.05, Max: 5, Initial: 0.5},
		MassRight:         {Min: 0.05, Max: 5, Initial: 0.5},
		TargetRotXLeft:    {Min: -30, Max: 30, Initial: 0},
		TargetRotXRight:   {Min: -30, Max: 30, Initial: 0},
		NippleSpringLeft:  {Min: 1, Max: 100, Initial: 20},
		NippleSpringRight: {Min: 1, Max: 100, Initial: 20},
		CenterOfGravity:   {Min: 0, Max: 1, Initial: 0.5},
	}
}

// softnessCurve eases in over the lower half of the slider and follows the
// regression fit above it.
var softnessCurve = curves.TwoPiece{
	Cutoff: 0.5,
	Lower:  curves.SmoothStep,
	Upper:  curves.Normalize(curves.QuadraticRegression),
}.Curve()

// PhysicsGroups returns the default physics parameter groups.
func PhysicsGroups() []physics.GroupSpec {
	return []physics.GroupSpec{
		{
			Name: "spring", Left: SpringLeft, Right: SpringRight,
			Config: physics.ParameterConfig{
				Static: &physics.StaticConfig{
					MinMminS:            80,
					MaxMminS:            100,
					MinMmaxS:            40,
					SoftnessCurve:       softnessCurve,
					QuicknessOffset:     &physics.StaticConfig{MinMminS: 30, MaxMminS: 25, MinMmaxS: 15},
					SlownessOffset:      &physics.StaticConfig{MinMminS: -20, MaxMminS: -15, MinMmaxS: -10},
					DependOnPhysicsRate: true,
				},
				Gravity: [schemas.DirectionCount]*physics.DynamicConfig{
					schemas.Up:   {Base: 10, MassMultiplier: schemas.Mul(-6)},
					schemas.Down: {Base: -12, SoftnessMultiplier: schemas.Mul(-8), Negative: true},
				},
				Force: [schemas.DirectionCount]*physics.DynamicConfig{
					schemas.Up:   {Base: 15, SoftnessMultiplier: schemas.Mul(-5)},
					schemas.Back: {Base: 0.2, Multiplicative: true},
				},
			},
		},
		{
			Name: "damper", Left: DamperLeft, Right: DamperRight,
			Config: physics.ParameterConfig{
				Static: &physics.StaticConfig{
					MinMminS:            3,
					MaxMminS:            2.2,
					MinMmaxS:            1.2,
					QuicknessOffset:     &physics.StaticConfig{MinMminS: -1, MaxMminS: -0.8, MinMmaxS: -0.5},
					SlownessOffset:      &physics.StaticConfig{MinMminS: 1.5, MaxMminS: 1.2, MinMmaxS: 0.8},
					DependOnPhysicsRate: true,
				},
				InverseFriction: &physics.DynamicConfig{Base: 0.4, SoftnessMultiplier: schemas.Mul(0.3)},
			},
		},
		{
			Name: "mass", Left: MassLeft, Right: MassRight,
			Config: physics.ParameterConfig{
				Static: &physics.StaticConfig{
					MinMminS:  0.3,
					MaxMminS:  1.8,
					MinMmaxS:  0.3,
					MassCurve: curves.Normalize(func(x float64) float64 { return curves.Exponential(x, 1, 1.5, 0) }),
				},
			},
		},
		{
			Name: "target_rotation_x", Left: TargetRotXLeft, Right: TargetRotXRight,
			Options: physics.GroupOptions{InvertRight: true},
			Config: physics.ParameterConfig{
				Static: physics.Flat(0),
				Gravity: [schemas.DirectionCount]*physics.DynamicConfig{
					schemas.Forward: {Base: 6, MassMultiplier: schemas.Mul(4), SoftnessMultiplier: schemas.Mul(4)},
					schemas.Back:    {Base: -6, MassMultiplier: schemas.Mul(-4), Negative: true},
				},
			},
		},
		{
			Name: "nipple_spring", Left: NippleSpringLeft, Right: NippleSpringRight,
			Config: physics.ParameterConfig{
				Static: &physics.StaticConfig{MinMminS: 25, MaxMminS: 25, MinMmaxS: 12},
				Nipple: &physics.DynamicConfig{Base: 0.8, SoftnessMultiplier: schemas.Mul(0.4)},
				Force: [schemas.DirectionCount]*physics.DynamicConfig{
					schemas.Back: {Base: 5},
				},
			},
		},
		{
			Name: "center_of_gravity", Left: CenterOfGravity,
			Options: physics.GroupOptions{LeftOnly: true},
			Config: physics.ParameterConfig{
				Static: &physics.StaticConfig{MinMminS: 0.35, MaxMminS: 0.6, MinMmaxS: 0.5},
			},
		},
	}
}
