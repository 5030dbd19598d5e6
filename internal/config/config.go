package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Paths    PathsConfig  `mapstructure:"paths"`
	Engine   EngineConfig `mapstructure:"engine"`
	Blink    BlinkConfig  `mapstructure:"blink"`
	Server   ServerConfig `mapstructure:"server"`
}

type PathsConfig struct {
	RigPath    string `mapstructure:"rig_path"`
	ShapesPath string `mapstructure:"shapes_path"`
}

type EngineConfig struct {
	FPS           int     `mapstructure:"fps"`
	Smoothing     float64 `mapstructure:"smoothing"`
	IntensityGain float64 `mapstructure:"intensity_gain"`
}

type BlinkConfig struct {
	PeriodMS int `mapstructure:"period_ms"`
	WindowMS int `mapstructure:"window_ms"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxSessions     int    `mapstructure:"max_sessions"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Paths: PathsConfig{
			RigPath:    "",
			ShapesPath: "",
		},
		Engine: EngineConfig{
			FPS:           60,
			Smoothing:     0.3,
			IntensityGain: 1.0,
		},
		Blink: BlinkConfig{
			PeriodMS: 3000,
			WindowMS: 150,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ShutdownTimeout: 30,
			MaxSessions:     16,
		},
	}
}

// Validate checks the numeric engine parameters. Called by commands before
// constructing an engine, and by doctor as a preflight check.
func (c Config) Validate() error {
	if c.Engine.FPS <= 0 {
		return fmt.Errorf("engine.fps must be positive, got %d", c.Engine.FPS)
	}
	if c.Engine.Smoothing < 0 || c.Engine.Smoothing >= 1 {
		return fmt.Errorf("engine.smoothing must be in [0,1), got %g", c.Engine.Smoothing)
	}
	if c.Blink.PeriodMS <= 0 {
		return fmt.Errorf("blink.period_ms must be positive, got %d", c.Blink.PeriodMS)
	}
	if c.Blink.WindowMS <= 0 || c.Blink.WindowMS >= c.Blink.PeriodMS {
		return fmt.Errorf("blink.window_ms must be positive and smaller than blink.period_ms, got %d", c.Blink.WindowMS)
	}
	return nil
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("paths-rig-path", defaults.Paths.RigPath, "Path to rig descriptor JSON (empty = built-in rig)")
	fs.String("paths-shapes-path", defaults.Paths.ShapesPath, "Path to phoneme shape table JSON (empty = built-in table)")
	fs.Int("engine-fps", defaults.Engine.FPS, "Frame rate for engine ticks")
	fs.Float64("engine-smoothing", defaults.Engine.Smoothing, "Viseme smoothing factor in [0,1)")
	fs.Float64("engine-intensity-gain", defaults.Engine.IntensityGain, "Gain applied to phoneme intensity")
	fs.Int("blink-period-ms", defaults.Blink.PeriodMS, "Blink period in milliseconds")
	fs.Int("blink-window-ms", defaults.Blink.WindowMS, "Blink active window in milliseconds")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Int("server-max-sessions", defaults.Server.MaxSessions, "Maximum concurrent live sessions")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("FACEBLEND")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("faceblend")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("paths.rig_path", c.Paths.RigPath)
	v.SetDefault("paths.shapes_path", c.Paths.ShapesPath)
	v.SetDefault("engine.fps", c.Engine.FPS)
	v.SetDefault("engine.smoothing", c.Engine.Smoothing)
	v.SetDefault("engine.intensity_gain", c.Engine.IntensityGain)
	v.SetDefault("blink.period_ms", c.Blink.PeriodMS)
	v.SetDefault("blink.window_ms", c.Blink.WindowMS)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_sessions", c.Server.MaxSessions)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("paths.rig_path", "paths-rig-path")
	v.RegisterAlias("paths.shapes_path", "paths-shapes-path")
	v.RegisterAlias("engine.fps", "engine-fps")
	v.RegisterAlias("engine.smoothing", "engine-smoothing")
	v.RegisterAlias("engine.intensity_gain", "engine-intensity-gain")
	v.RegisterAlias("blink.period_ms", "blink-period-ms")
	v.RegisterAlias("blink.window_ms", "blink-window-ms")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("server.max_sessions", "server-max-sessions")
}
