// File: internal/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "softphys", cfg.Logger().ServiceName)
	assert.Equal(t, 60.0, cfg.Engine().TickRate)
	assert.Equal(t, 4, cfg.Engine().SamplingWindow)
	assert.Equal(t, time.Second, cfg.Engine().PhaseTimeout)
	assert.Equal(t, 0.5, cfg.Sliders().Mass)
	assert.InDelta(t, 1.0/60.0, cfg.Simulation().FixedTimestep, 1e-12)
	assert.Empty(t, cfg.Database().URL)
	assert.Equal(t, 120, cfg.Database().BatchSize)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"tick rate", func(c *Config) { c.EngineCfg.TickRate = 0 }, "engine.tick_rate must be positive"},
		{"sampling window", func(c *Config) { c.EngineCfg.SamplingWindow = 0 }, "engine.sampling_window"},
		{"phase timeout", func(c *Config) { c.EngineCfg.PhaseTimeout = 0 }, "engine.phase_timeout"},
		{"settle frames", func(c *Config) { c.EngineCfg.SettleFrames = -1 }, "engine.settle_frames"},
		{"timestep", func(c *Config) { c.SimulationCfg.FixedTimestep = -1 }, "simulation.fixed_timestep"},
		{"batch size", func(c *Config) { c.DatabaseCfg.BatchSize = 0 }, "database.batch_size"},
		{"mass range", func(c *Config) { c.SlidersCfg.Mass = 1.5 }, "mass must be within [0, 1]"},
		{"quickness range", func(c *Config) { c.SlidersCfg.Quickness = -2 }, "quickness"},
		{"sag", func(c *Config) { c.SlidersCfg.Sag = -0.1 }, "sag"},
		{"gravity direction", func(c *Config) { c.SlidersCfg.Gravity = map[string]float64{"sideways": 1} }, "unknown direction"},
		{"morph config", func(c *Config) { c.MorphsCfg = []MorphOverride{{Direction: "up"}} }, "morphs[0].config"},
		{"morph direction", func(c *Config) { c.MorphsCfg = []MorphOverride{{Config: "x", Direction: "north"}} }, "morphs[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSlidersConfig_ToSchema(t *testing.T) {
	s := NewDefaultConfig().Sliders()
	s.Gravity = map[string]float64{"forward": 0.5, "left_roll": 2}
	s.Force = map[string]float64{"UP": 0}

	out, err := s.ToSchema()
	require.NoError(t, err)
	assert.Equal(t, 0.5, out.Gravity[schemas.Forward])
	assert.Equal(t, 2.0, out.Gravity[schemas.LeftRoll])
	assert.Equal(t, 1.0, out.Gravity[schemas.Back], "unlisted directions default to 1")
	assert.Equal(t, 0.0, out.Force[schemas.Up])
	assert.Equal(t, 0.5, out.Friction)
}

func TestMorphOverride_Multipliers(t *testing.T) {
	soft := 0.75
	m := MorphOverride{Config: "gravity/left/lean_forward", Direction: "forward", Base: 1.2, Softness: &soft}.Multipliers()

	assert.Equal(t, 1.2, m.Base)
	v, ok := m.Softness.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.75, v)
	assert.False(t, m.Mass.IsSet(), "a missing multiplier ignores the slider")
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("YAML Overrides Defaults", func(t *testing.T) {
		yamlBytes := []byte(`
engine:
  tick_rate: 120
  phase_timeout: 750ms
sliders:
  mass: 0.8
  gravity:
    down: 0.5
morphs:
  - config: gravity/left/upright_sag
    direction: down
    base: 0.4
    mass: 1.5
offsets:
  spring: -4
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 120.0, cfg.Engine().TickRate)
		assert.Equal(t, 750*time.Millisecond, cfg.Engine().PhaseTimeout)
		assert.Equal(t, 0.8, cfg.Sliders().Mass)
		assert.Equal(t, 0.5, cfg.Sliders().Softness, "defaults fill the gaps")
		require.Len(t, cfg.Morphs(), 1)
		assert.Nil(t, cfg.Morphs()[0].Softness)
		require.NotNil(t, cfg.Morphs()[0].Mass)
		assert.Equal(t, 1.5, *cfg.Morphs()[0].Mass)
		assert.Equal(t, -4.0, cfg.Offsets()["spring"])
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("engine.tick_rate", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		BindEnv(v)
		t.Setenv("SOFTPHYS_SLIDERS_SOFTNESS", "0.9")
		t.Setenv("SOFTPHYS_ENGINE_SAMPLING_WINDOW", "7")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 0.9, cfg.Sliders().Softness)
		assert.Equal(t, 7, cfg.Engine().SamplingWindow)
	})
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "softphys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sliders:\n  mass: 0.2\n"), 0o600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	reloaded := make(chan *Config, 4)
	Watch(v, zap.NewNop(), func(c *Config) { reloaded <- c })

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("sliders:\n  mass: 0.7\n"), 0o600))

	// A rewrite can surface as several events; wait for the one carrying the new value.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Sliders().Mass == 0.7 {
				return
			}
		case <-deadline:
			t.Fatal("configuration change was not observed")
		}
	}
}
