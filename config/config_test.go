package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "penguins.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Scene.EntityCount != 3 || cfg.Scene.Model != DefaultModel {
		t.Errorf("defaults = %+v", cfg)
	}
	if len(cfg.Scene.Placements) != 3 || cfg.Scene.DefaultScale != loader.DefaultScale {
		t.Errorf("scene defaults = %+v", cfg.Scene)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[logging]
level = "debug"

[[scene.placements]]
x = 1

[[scene.placements]]
z = -3
scale = 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Logging.Level != "debug" {
		t.Errorf("server=%+v logging=%+v", cfg.Server, cfg.Logging)
	}
	if cfg.Server.Root != "." || cfg.Window.Title != "Penguin Paradise" {
		t.Errorf("unset keys lost their defaults: %+v %+v", cfg.Server, cfg.Window)
	}

	got := cfg.Scene.ScenePlacements()
	want := []loader.Placement{
		{X: 1, Scale: loader.DefaultScale},
		{Z: -3, Scale: 0.5},
	}
	if len(got) != len(want) {
		t.Fatalf("placements = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PENGUIN_SERVER_PORT", "9191")
	t.Setenv("PENGUIN_SCENE_MODEL", "emperor.glb")
	t.Setenv("PENGUIN_ENGINE_PROFILING", "true")
	path := writeConfig(t, "[server]\nport = 9000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("port = %d, env should win over the file", cfg.Server.Port)
	}
	if cfg.Scene.Model != "emperor.glb" || !cfg.Engine.Profiling {
		t.Errorf("scene=%+v engine=%+v", cfg.Scene, cfg.Engine)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, "[server\nport = ")); err == nil {
		t.Error("expected parse error")
	}

	t.Setenv("PENGUIN_SERVER_PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("expected env error")
	}
}

func TestNormalizeAndEntityCount(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[scene]
entity_count = 2
default_scale = -1

[server]
port = 70000
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Scene.DefaultScale != loader.DefaultScale {
		t.Errorf("invalid values kept: port=%d scale=%f", cfg.Server.Port, cfg.Scene.DefaultScale)
	}
	if got := cfg.Scene.ScenePlacements(); len(got) != 2 {
		t.Errorf("placements = %d, want entity_count 2", len(got))
	}
}
