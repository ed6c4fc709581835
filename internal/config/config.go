// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// EnvPrefix is the prefix of every environment override, e.g. SOFTPHYS_ENGINE_TICK_RATE.
const EnvPrefix = "SOFTPHYS"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Sliders() SlidersConfig
	Simulation() SimulationConfig
	Database() DatabaseConfig
	Morphs() []MorphOverride
	Offsets() map[string]float64

	SetSliders(SlidersConfig)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg     LoggerConfig       `mapstructure:"logger" yaml:"logger"`
	EngineCfg     EngineConfig       `mapstructure:"engine" yaml:"engine"`
	SlidersCfg    SlidersConfig      `mapstructure:"sliders" yaml:"sliders"`
	SimulationCfg SimulationConfig   `mapstructure:"simulation" yaml:"simulation"`
	DatabaseCfg   DatabaseConfig     `mapstructure:"database" yaml:"database"`
	MorphsCfg     []MorphOverride    `mapstructure:"morphs" yaml:"morphs"`
	OffsetsCfg    map[string]float64 `mapstructure:"offsets" yaml:"offsets"`
}

// --- Interface Method Implementations ---

func (c *Config) Logger() LoggerConfig         { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig         { return c.EngineCfg }
func (c *Config) Sliders() SlidersConfig       { return c.SlidersCfg }
func (c *Config) Simulation() SimulationConfig { return c.SimulationCfg }
func (c *Config) Database() DatabaseConfig     { return c.DatabaseCfg }
func (c *Config) Morphs() []MorphOverride      { return c.MorphsCfg }
func (c *Config) Offsets() map[string]float64  { return c.OffsetsCfg }

func (c *Config) SetSliders(s SlidersConfig) { c.SlidersCfg = s }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the control loop.
type EngineConfig struct {
	// TickRate is how many ticks per second the runner drives.
	TickRate       float64 `mapstructure:"tick_rate" yaml:"tick_rate"`
	SamplingWindow int     `mapstructure:"sampling_window" yaml:"sampling_window"`
	// RecalibrationThreshold is the mass or scale change that queues a calibration.
	RecalibrationThreshold float64       `mapstructure:"recalibration_threshold" yaml:"recalibration_threshold"`
	SettleFrames           int           `mapstructure:"settle_frames" yaml:"settle_frames"`
	PhaseTimeout           time.Duration `mapstructure:"phase_timeout" yaml:"phase_timeout"`
	// ForceAngle and ForceDepth are the deviations at which force effects saturate.
	ForceAngle float64 `mapstructure:"force_angle" yaml:"force_angle"`
	ForceDepth float64 `mapstructure:"force_depth" yaml:"force_depth"`
}

// SlidersConfig holds the initial slider positions. Directional multipliers are
// keyed by direction name; missing directions default to 1.
type SlidersConfig struct {
	Mass           float64            `mapstructure:"mass" yaml:"mass"`
	Softness       float64            `mapstructure:"softness" yaml:"softness"`
	Quickness      float64            `mapstructure:"quickness" yaml:"quickness"`
	NippleErection float64            `mapstructure:"nipple_erection" yaml:"nipple_erection"`
	Sag            float64            `mapstructure:"sag" yaml:"sag"`
	Scale          float64            `mapstructure:"scale" yaml:"scale"`
	Friction       float64            `mapstructure:"friction" yaml:"friction"`
	Gravity        map[string]float64 `mapstructure:"gravity" yaml:"gravity"`
	Force          map[string]float64 `mapstructure:"force" yaml:"force"`
}

// ToSchema converts the slider configuration into engine input.
func (s SlidersConfig) ToSchema() (schemas.Sliders, error) {
	out := schemas.DefaultSliders()
	out.Mass = s.Mass
	out.Softness = s.Softness
	out.Quickness = s.Quickness
	out.NippleErection = s.NippleErection
	out.Sag = s.Sag
	out.Scale = s.Scale
	out.Friction = s.Friction

	for name, v := range s.Gravity {
		d, err := schemas.ParseDirection(name)
		if err != nil {
			return out, fmt.Errorf("sliders.gravity: %w", err)
		}
		out.Gravity[d] = v
	}
	for name, v := range s.Force {
		d, err := schemas.ParseDirection(name)
		if err != nil {
			return out, fmt.Errorf("sliders.force: %w", err)
		}
		out.Force[d] = v
	}
	return out, nil
}

// SimulationConfig configures the simulated host used by the CLI.
type SimulationConfig struct {
	FixedTimestep  float64 `mapstructure:"fixed_timestep" yaml:"fixed_timestep"`
	Seed           int64   `mapstructure:"seed" yaml:"seed"`
	BasePitch      float64 `mapstructure:"base_pitch" yaml:"base_pitch"`
	BaseRoll       float64 `mapstructure:"base_roll" yaml:"base_roll"`
	PitchAmplitude float64 `mapstructure:"pitch_amplitude" yaml:"pitch_amplitude"`
	RollAmplitude  float64 `mapstructure:"roll_amplitude" yaml:"roll_amplitude"`
	Bounce         float64 `mapstructure:"bounce" yaml:"bounce"`
	Frequency      float64 `mapstructure:"frequency" yaml:"frequency"`
}

// DatabaseConfig points the frame store at PostgreSQL. An empty URL disables it.
type DatabaseConfig struct {
	URL       string `mapstructure:"url" yaml:"url"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

// MorphOverride replaces one direction of a morph multiplier table. A nil
// multiplier means the slider is ignored for that direction.
type MorphOverride struct {
	Config    string   `mapstructure:"config" yaml:"config"`
	Direction string   `mapstructure:"direction" yaml:"direction"`
	Base      float64  `mapstructure:"base" yaml:"base"`
	Softness  *float64 `mapstructure:"softness" yaml:"softness"`
	Mass      *float64 `mapstructure:"mass" yaml:"mass"`
}

// Multipliers converts the override into a multiplier triple.
func (o MorphOverride) Multipliers() schemas.MorphMultipliers {
	return schemas.MorphMultipliers{
		Base:     o.Base,
		Softness: schemas.MultiplierFromPtr(o.Softness),
		Mass:     schemas.MultiplierFromPtr(o.Mass),
	}
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "softphys")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.tick_rate", 60.0)
	v.SetDefault("engine.sampling_window", 4)
	v.SetDefault("engine.recalibration_threshold", 0.05)
	v.SetDefault("engine.settle_frames", 1)
	v.SetDefault("engine.phase_timeout", "1s")
	v.SetDefault("engine.force_angle", 20.0)
	v.SetDefault("engine.force_depth", 0.02)

	// -- Sliders --
	v.SetDefault("sliders.mass", 0.5)
	v.SetDefault("sliders.softness", 0.5)
	v.SetDefault("sliders.quickness", 0.0)
	v.SetDefault("sliders.nipple_erection", 0.0)
	v.SetDefault("sliders.sag", 1.0)
	v.SetDefault("sliders.scale", 0.5)
	v.SetDefault("sliders.friction", 0.5)

	// -- Simulation --
	v.SetDefault("simulation.fixed_timestep", 1.0/60.0)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.base_pitch", 0.0)
	v.SetDefault("simulation.base_roll", 0.0)
	v.SetDefault("simulation.pitch_amplitude", 40.0)
	v.SetDefault("simulation.roll_amplitude", 25.0)
	v.SetDefault("simulation.bounce", 0.03)
	v.SetDefault("simulation.frequency", 0.4)

	// -- Database --
	v.SetDefault("database.url", "")
	v.SetDefault("database.batch_size", 120)
}

// BindEnv lets SOFTPHYS_* environment variables override file and default values.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.EngineCfg.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive")
	}
	if c.EngineCfg.SamplingWindow < 1 {
		return fmt.Errorf("engine.sampling_window must be at least 1")
	}
	if c.EngineCfg.PhaseTimeout <= 0 {
		return fmt.Errorf("engine.phase_timeout must be positive")
	}
	if c.EngineCfg.SettleFrames < 0 {
		return fmt.Errorf("engine.settle_frames must not be negative")
	}
	if c.SimulationCfg.FixedTimestep <= 0 {
		return fmt.Errorf("simulation.fixed_timestep must be positive")
	}
	if c.DatabaseCfg.BatchSize < 1 {
		return fmt.Errorf("database.batch_size must be at least 1")
	}
	if err := c.SlidersCfg.Validate(); err != nil {
		return fmt.Errorf("sliders configuration invalid: %w", err)
	}
	for i, o := range c.MorphsCfg {
		if o.Config == "" {
			return fmt.Errorf("morphs[%d].config is required", i)
		}
		if _, err := schemas.ParseDirection(o.Direction); err != nil {
			return fmt.Errorf("morphs[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks that every slider is inside its range.
func (s SlidersConfig) Validate() error {
	unit := map[string]float64{
		"mass":            s.Mass,
		"softness":        s.Softness,
		"nipple_erection": s.NippleErection,
		"scale":           s.Scale,
		"friction":        s.Friction,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}
	if s.Quickness < -1 || s.Quickness > 1 {
		return fmt.Errorf("quickness must be within [-1, 1], got %v", s.Quickness)
	}
	if s.Sag < 0 {
		return fmt.Errorf("sag must not be negative, got %v", s.Sag)
	}
	_, err := s.ToSchema()
	return err
}

// Watch reloads the configuration whenever the file backing v changes and hands
// every valid result to onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, logger *zap.Logger, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := NewConfigFromViper(v)
		if err != nil {
			logger.Warn("Ignoring invalid configuration change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("Configuration reloaded", zap.String("file", e.Name))
		onChange(cfg)
	})
	v.WatchConfig()
}
