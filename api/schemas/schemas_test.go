package schemas_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/softphys/api/schemas"
)

func TestDirections(t *testing.T) {
	dirs := schemas.Directions()
	require.Len(t, dirs, schemas.DirectionCount)
	for i, d := range dirs {
		assert.Equal(t, schemas.Direction(i), d, "directions are listed in declaration order")
		assert.True(t, d.Valid())

		parsed, err := schemas.ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	assert.False(t, schemas.Direction(schemas.DirectionCount).Valid())
	assert.Equal(t, "direction(-1)", schemas.Direction(-1).String())
}

func TestParseDirection(t *testing.T) {
	testCases := []struct {
		input   string
		want    schemas.Direction
		wantErr bool
	}{
		{"up", schemas.Up, false},
		{" Left_Roll ", schemas.LeftRoll, false},
		{"RIGHT_ROLL", schemas.RightRoll, false},
		{"sideways", 0, true},
		{"", 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := schemas.ParseDirection(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSide_String(t *testing.T) {
	assert.Equal(t, "left", schemas.Left.String())
	assert.Equal(t, "right", schemas.Right.String())
}

func TestMultiplier(t *testing.T) {
	var zero schemas.Multiplier
	assert.Equal(t, schemas.Unset(), zero)
	assert.False(t, zero.IsSet())
	assert.Equal(t, "unset", zero.String())

	m := schemas.Mul(0)
	v, ok := m.Get()
	assert.True(t, ok, "a set zero is distinct from unset")
	assert.Zero(t, v)
	assert.Equal(t, "0", m.String())

	assert.False(t, schemas.MultiplierFromPtr(nil).IsSet())
	f := 1.5
	v, ok = schemas.MultiplierFromPtr(&f).Get()
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestDefaultSliders(t *testing.T) {
	s := schemas.DefaultSliders()
	assert.Equal(t, 0.5, s.Mass)
	assert.Equal(t, 0.5, s.Softness)
	assert.Equal(t, 1.0, s.Sag)
	for _, d := range schemas.Directions() {
		assert.Equal(t, 1.0, s.Gravity[d], d.String())
		assert.Equal(t, 1.0, s.Force[d], d.String())
	}
}

func TestEffects(t *testing.T) {
	var e schemas.Effects
	e[schemas.Forward] = 0.5
	e[schemas.LeftRoll] = 0.25

	assert.Equal(t, 0.5, e.Get(schemas.Forward))
	assert.Zero(t, e.Get(schemas.Direction(42)))

	var m [schemas.DirectionCount]float64
	m[schemas.Forward] = 2
	scaled := e.Scaled(m)
	assert.Equal(t, 1.0, scaled.Get(schemas.Forward))
	assert.Zero(t, scaled.Get(schemas.LeftRoll))
	assert.Equal(t, 0.5, e.Get(schemas.Forward), "Scaled does not modify the receiver")
}

// TestStructJSONTags pins the field names of the trace format.
func TestStructJSONTags(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name         string
		structRef    interface{}
		expectedTags map[string]string
	}{
		{
			name:      "FrameSnapshot",
			structRef: schemas.FrameSnapshot{},
			expectedTags: map[string]string{
				"Frame":       "frame",
				"Roll":        "roll",
				"Pitch":       "pitch",
				"Calibration": "calibration",
				"Settings":    "settings",
				"Morphs":      "morphs",
				"Colliders":   "colliders,omitempty",
			},
		},
		{
			name:      "Sliders",
			structRef: schemas.Sliders{},
			expectedTags: map[string]string{
				"Mass":           "mass",
				"Softness":       "softness",
				"Quickness":      "quickness",
				"NippleErection": "nipple_erection",
				"Sag":            "sag",
				"Scale":          "scale",
				"Friction":       "friction",
				"Gravity":        "gravity",
				"Force":          "force",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			typ := reflect.TypeOf(tc.structRef)
			require.Equal(t, len(tc.expectedTags), typ.NumField(), "every field must be covered")
			for fieldName, expectedTag := range tc.expectedTags {
				field, ok := typ.FieldByName(fieldName)
				if assert.True(t, ok, "Field %s not found", fieldName) {
					assert.Equal(t, expectedTag, field.Tag.Get("json"), "Incorrect JSON tag for %s.%s", tc.name, fieldName)
				}
			}
		})
	}
}
