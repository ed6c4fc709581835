// Package tables holds the default domain data: tracked points, physics
// calibration points, morph multiplier tables and hard colliders.
package tables

// Host object names shared by the tables and the simulated host.
const (
	ChestBody       = "chest"
	LeftBreastBody  = "breast_l"
	RightBreastBody = "breast_r"

	LeftBreastPoint  = "left_breast"
	RightBreastPoint = "right_breast"
	LeftNipplePoint  = "left_nipple"
	RightNipplePoint = "right_nipple"

	LeftPectoral  = "pectoral_l"
	RightPectoral = "pectoral_r"
)

// Physics setting names. Each group has a left and right setting.
const (
	SpringLeft        = "spring.left"
	SpringRight       = "spring.right"
	DamperLeft        = "damper.left"
	DamperRight       = "damper.right"
	MassLeft          = "mass.left"
	MassRight         = "mass.right"
	TargetRotXLeft    = "target_rotation_x.left"
	TargetRotXRight   = "target_rotation_x.right"
	NippleSpringLeft  = "nipple_spring.left"
	NippleSpringRight = "nipple_spring.right"
	CenterOfGravity   = "center_of_gravity"
)
