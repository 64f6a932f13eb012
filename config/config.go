package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/scene"
)

// EnvPrefix is prepended to every environment override, e.g. PENGUIN_SERVER_PORT.
const EnvPrefix = "PENGUIN_"

// Default model sources.
const (
	DefaultModel         = "penguin2.glb"
	DefaultFallbackModel = "https://raw.githubusercontent.com/KhronosGroup/glTF-Sample-Models/master/2.0/Duck/glTF/Duck.gltf"
)

type Config struct {
	Scene   SceneConfig   `toml:"scene" envPrefix:"SCENE_"`
	Window  WindowConfig  `toml:"window" envPrefix:"WINDOW_"`
	Engine  EngineConfig  `toml:"engine" envPrefix:"ENGINE_"`
	Server  ServerConfig  `toml:"server" envPrefix:"SERVER_"`
	Logging LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

type SceneConfig struct {
	EntityCount   int               `toml:"entity_count" env:"ENTITY_COUNT"`
	Model         string            `toml:"model" env:"MODEL"`
	FallbackModel string            `toml:"fallback_model" env:"FALLBACK_MODEL"`
	AssetRoot     string            `toml:"asset_root" env:"ASSET_ROOT"`
	DefaultScale  float32           `toml:"default_scale" env:"DEFAULT_SCALE"`
	Workers       int               `toml:"workers" env:"WORKERS"`
	Placements    []PlacementConfig `toml:"placements"`
}

// PlacementConfig is one entity slot. A zero scale takes the scene's default_scale.
type PlacementConfig struct {
	X         float32 `toml:"x"`
	Y         float32 `toml:"y"`
	Z         float32 `toml:"z"`
	RotationY float32 `toml:"rotation_y"`
	Scale     float32 `toml:"scale"`
}

type WindowConfig struct {
	Title  string `toml:"title" env:"TITLE"`
	Width  int    `toml:"width" env:"WIDTH"`
	Height int    `toml:"height" env:"HEIGHT"`
}

type EngineConfig struct {
	Profiling      bool    `toml:"profiling" env:"PROFILING"`
	FrameLimit     float64 `toml:"frame_limit" env:"FRAME_LIMIT"` // frames per second, 0 = uncapped
	VSync          bool    `toml:"vsync" env:"VSYNC"`
	MSAA           bool    `toml:"msaa" env:"MSAA"`
	SoftwareRender bool    `toml:"software_render" env:"SOFTWARE_RENDER"`
}

type ServerConfig struct {
	Port int    `toml:"port" env:"PORT"`
	Root string `toml:"root" env:"ROOT"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "console"
}

// Load reads the TOML file at path over the defaults, then applies PENGUIN_* environment
// overrides. A missing file is not an error; an empty path skips the file.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the merged configuration
//   - error: a read, parse or environment error
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			// a file that lists placements replaces the default list instead of merging into it
			placements := cfg.Scene.Placements
			cfg.Scene.Placements = nil
			md, err := toml.Decode(string(data), cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			if !md.IsDefined("scene", "placements") {
				cfg.Scene.Placements = placements
			}
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// ParseEnv applies PENGUIN_* environment variables to target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func defaults() *Config {
	var placements []PlacementConfig
	for _, p := range scene.DefaultPlacements() {
		placements = append(placements, PlacementConfig{X: p.X, Y: p.Y, Z: p.Z, RotationY: p.RotationY, Scale: p.Scale})
	}
	return &Config{
		Scene: SceneConfig{
			EntityCount:   scene.DefaultEntityCount,
			Model:         DefaultModel,
			FallbackModel: DefaultFallbackModel,
			AssetRoot:     ".",
			DefaultScale:  loader.DefaultScale,
			Placements:    placements,
		},
		Window: WindowConfig{
			Title:  "Penguin Paradise",
			Width:  1280,
			Height: 720,
		},
		Engine: EngineConfig{
			VSync: true,
			MSAA:  true,
		},
		Server: ServerConfig{
			Port: 8080,
			Root: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	d := defaults()
	if c.Scene.EntityCount < 1 {
		c.Scene.EntityCount = d.Scene.EntityCount
	}
	if c.Scene.DefaultScale <= 0 {
		c.Scene.DefaultScale = d.Scene.DefaultScale
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = d.Server.Port
	}
	c.Scene.AssetRoot = common.Coalesce(c.Scene.AssetRoot, d.Scene.AssetRoot)
	c.Scene.Model = common.Coalesce(c.Scene.Model, d.Scene.Model)
	c.Server.Root = common.Coalesce(c.Server.Root, d.Server.Root)
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
}

// ScenePlacements returns the first EntityCount placements with DefaultScale filled in for unset
// scales. Slots beyond the configured placements are left out.
//
// Returns:
//   - []loader.Placement: one placement per entity slot
func (s SceneConfig) ScenePlacements() []loader.Placement {
	n := min(s.EntityCount, len(s.Placements))
	out := make([]loader.Placement, 0, n)
	for _, p := range s.Placements[:n] {
		out = append(out, loader.Placement{
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
			RotationY: p.RotationY,
			Scale:     common.Coalesce(p.Scale, s.DefaultScale),
		})
	}
	return out
}
