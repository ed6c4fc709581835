package tables

import (
	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/morph"
)

func triple(base, softness, mass float64) schemas.MorphMultipliers {
	return schemas.MorphMultipliers{Base: base, Softness: schemas.Mul(softness), Mass: schemas.Mul(mass)}
}

func bind(d schemas.Direction, m schemas.MorphMultipliers) morph.Binding {
	return morph.Binding{Direction: d, Multipliers: m}
}

// Morphs returns the default morph configs.
func Morphs() []morph.Config {
	return []morph.Config{
		// Gravity
		{Morph: "lean_forward", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.Forward, triple(0.9, 1.2, 0.8)),
		}},
		{Morph: "lean_back", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.Back, triple(0.7, 1.0, 0.6)),
		}},
		{Morph: "upright_sag", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.Down, triple(0.6, 1.0, 1.2)),
		}},
		{Morph: "upside_down", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.Up, triple(0.8, 1.1, 0.7)),
		}},
		{Morph: "roll_left", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.LeftRoll, schemas.MorphMultipliers{Base: 0.6, Softness: schemas.Mul(1)}),
		}},
		{Morph: "roll_right", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.RightRoll, schemas.MorphMultipliers{Base: 0.6, Softness: schemas.Mul(1)}),
		}},
		{Morph: "flatten", Family: morph.Gravity, Bindings: []morph.Binding{
			bind(schemas.Forward, triple(0.3, 0.5, 0.5)),
			bind(schemas.Back, triple(-0.25, 0.5, 0.5)),
		}},

		// Position
		{Morph: "shift_up", Family: morph.Position, Bindings: []morph.Binding{
			bind(schemas.Up, triple(0.3, 1, 1)),
			bind(schemas.Down, triple(-0.1, 1, 1)),
		}},

		// Additive on top of the gravity lean
		{Morph: "lean_forward", Family: morph.Additive, Bindings: []morph.Binding{
			bind(schemas.Forward, schemas.MorphMultipliers{Base: 0.15, Mass: schemas.Mul(1)}),
		}},

		// Force
		{Morph: "push_up_l", Family: morph.Force, Side: schemas.Left, Bindings: []morph.Binding{
			bind(schemas.Up, triple(0.8, 1, 0.6)),
		}},
		{Morph: "push_up_r", Family: morph.Force, Side: schemas.Right, Bindings: []morph.Binding{
			bind(schemas.Up, triple(0.8, 1, 0.6)),
		}},
		{Morph: "compress_l", Family: morph.Force, Side: schemas.Left, Bindings: []morph.Binding{
			bind(schemas.Back, triple(0.5, 1, 1)),
		}},
		{Morph: "compress_r", Family: morph.Force, Side: schemas.Right, Bindings: []morph.Binding{
			bind(schemas.Back, triple(0.5, 1, 1)),
		}},
	}
}

// MorphNames lists every distinct morph the tables write to.
func MorphNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range Morphs() {
		if !seen[c.Morph] {
			seen[c.Morph] = true
			names = append(names, c.Morph)
		}
	}
	return names
}
