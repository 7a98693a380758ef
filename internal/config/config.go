package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	World   World   `yaml:"world"`
	Tick    Tick    `yaml:"tick"`
	Food    Food    `yaml:"food"`
	HTTP    HTTP    `yaml:"http"`
	Stream  Stream  `yaml:"stream"`
	Events  Events  `yaml:"events"`
	TickLog TickLog `yaml:"tick_log"`
}

type World struct {
	Agents int    `yaml:"agents"`
	Seed   uint64 `yaml:"seed"`
	Home   Point  `yaml:"home"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Tick struct {
	IntervalMS int  `yaml:"interval_ms"`
	Autostart  bool `yaml:"autostart"`
}

func (t Tick) Interval() time.Duration {
	return time.Duration(t.IntervalMS) * time.Millisecond
}

type Food struct {
	DefaultUnits int `yaml:"default_units"`
}

// HTTP.CORSOrigins applies to the API and the observer stream; empty
// allows every origin.
type HTTP struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Stream.Addr empty disables the websocket observer listener.
type Stream struct {
	Addr string `yaml:"addr"`
}

type Events struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
	// MigrationsDir overrides the embedded SQL migrations when set.
	MigrationsDir string `yaml:"migrations_dir"`
	Retain        uint64 `yaml:"retain"`
}

// TickLog.Dir empty disables the compressed tick log.
type TickLog struct {
	Dir string `yaml:"dir"`
}

func Default() Config {
	return Config{
		World:  World{Agents: 500, Seed: 1},
		Tick:   Tick{IntervalMS: 50, Autostart: true},
		Food:   Food{DefaultUnits: 200},
		HTTP:   HTTP{Addr: ":8080"},
		Events: Events{Driver: DriverMemory, SQLitePath: "data/events.db", Retain: 10000},
	}
}

// Load reads path over the defaults (a missing path is fine when empty),
// then applies ANTFORAGE_* environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv loads the file named by ANTFORAGE_CONFIG, if any.
func FromEnv() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv("ANTFORAGE_CONFIG")))
}

func (c Config) Validate() error {
	if c.World.Agents < 0 {
		return fmt.Errorf("%w: world.agents must be >= 0", ErrInvalidConfig)
	}
	if c.Tick.IntervalMS <= 0 {
		return fmt.Errorf("%w: tick.interval_ms must be > 0", ErrInvalidConfig)
	}
	if c.Food.DefaultUnits <= 0 {
		return fmt.Errorf("%w: food.default_units must be > 0", ErrInvalidConfig)
	}
	switch c.Events.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Events.DSN == "" {
			return fmt.Errorf("%w: events.dsn is required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Events.SQLitePath == "" {
			return fmt.Errorf("%w: events.sqlite_path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events.driver %q", ErrInvalidConfig, c.Events.Driver)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.World.Agents = intEnv("ANTFORAGE_AGENTS", cfg.World.Agents)
	cfg.World.Seed = uint64(intEnv("ANTFORAGE_SEED", int(cfg.World.Seed)))
	cfg.Tick.IntervalMS = intEnv("ANTFORAGE_TICK_MS", cfg.Tick.IntervalMS)
	cfg.HTTP.Addr = stringEnv("ANTFORAGE_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.CORSOrigins = listEnv("ANTFORAGE_CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.Stream.Addr = stringEnv("ANTFORAGE_STREAM_ADDR", cfg.Stream.Addr)
	cfg.Events.Driver = stringEnv("ANTFORAGE_EVENTS_DRIVER", cfg.Events.Driver)
	cfg.Events.DSN = stringEnv("ANTFORAGE_DB_DSN", cfg.Events.DSN)
	cfg.Events.SQLitePath = stringEnv("ANTFORAGE_SQLITE_PATH", cfg.Events.SQLitePath)
	cfg.TickLog.Dir = stringEnv("ANTFORAGE_TICK_LOG_DIR", cfg.TickLog.Dir)
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func listEnv(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
